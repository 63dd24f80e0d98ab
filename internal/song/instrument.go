package song

import "golang.org/x/exp/slices"

// DefaultInstrument is what new tracks play with.
const DefaultInstrument = "piano"

// Instrument is a selectable track sound. Program is the General MIDI
// program number (zero-based) used for MIDI output and export.
type Instrument struct {
	Name    string
	Label   string
	Program uint8
}

// Instruments is the fixed list a track can choose from, sorted by name.
var Instruments = []Instrument{
	{"bass-electric", "Bass (electric)", 33},
	{"bassoon", "Bassoon", 70},
	{"cello", "Cello", 42},
	{"electric-guitar", "Electric guitar", 27},
	{"french-horn", "French horn", 60},
	{"organ", "Organ", 19},
	{"piano", "Piano", 0},
	{"trumpet", "Trumpet", 56},
	{"violin", "Violin", 40},
}

func LookupInstrument(name string) (Instrument, bool) {
	i := slices.IndexFunc(Instruments, func(in Instrument) bool { return in.Name == name })
	if i < 0 {
		return Instrument{}, false
	}
	return Instruments[i], true
}

// NextInstrument returns the instrument after name in Instruments, wrapping
// around.
func NextInstrument(name string) string {
	i := slices.IndexFunc(Instruments, func(in Instrument) bool { return in.Name == name })
	return Instruments[(i+1)%len(Instruments)].Name
}
