package notation

import (
	"fmt"
	"strconv"
)

// Letter is a diatonic note letter.
type Letter byte

const (
	C Letter = 'C'
	D Letter = 'D'
	E Letter = 'E'
	F Letter = 'F'
	G Letter = 'G'
	A Letter = 'A'
	B Letter = 'B'
)

// letters in ascending order within an octave; octaves roll over at B/C.
var letters = []Letter{C, D, E, F, G, A, B}

var semitones = map[Letter]int{C: 0, D: 2, E: 4, F: 5, G: 7, A: 9, B: 11}

func (l Letter) index() int {
	for i, x := range letters {
		if x == l {
			return i
		}
	}
	return -1
}

func (l Letter) Valid() bool { return l.index() >= 0 }

func (l Letter) String() string { return string(rune(l)) }

// Mark is an accidental sign: on a pitch name, or set explicitly on a note.
type Mark byte

const (
	NoMark  Mark = 0
	Sharp   Mark = '#'
	Flat    Mark = 'b'
	Natural Mark = 'n'
)

func (m Mark) String() string {
	if m == NoMark {
		return ""
	}
	return string(rune(m))
}

// Pitch is a letter name with an optional accidental mark and an octave.
type Pitch struct {
	Letter Letter
	Mark   Mark
	Octave int
}

// The instrument range. Every pitch editing operation is clamped to it.
var (
	LowestPitch  = Pitch{Letter: E, Octave: 2}
	HighestPitch = Pitch{Letter: A, Octave: 5}
	MiddleC      = Pitch{Letter: C, Octave: 4}
)

// ParsePitch parses names like "C4", "F#3" or "Bb2".
func ParsePitch(name string) (Pitch, error) {
	if len(name) < 2 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}
	p := Pitch{Letter: Letter(name[0])}
	if !p.Letter.Valid() {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}
	rest := name[1:]
	switch Mark(rest[0]) {
	case Sharp, Flat, Natural:
		p.Mark = Mark(rest[0])
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil || octave < 0 || octave > 9 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, name)
	}
	p.Octave = octave
	return p, nil
}

// MustPitch is like ParsePitch but panics on error.
func MustPitch(name string) Pitch {
	p, err := ParsePitch(name)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pitch) String() string {
	return p.Letter.String() + p.Mark.String() + strconv.Itoa(p.Octave)
}

// Height is the number of diatonic steps above C0. The mark is ignored.
func (p Pitch) Height() int {
	return p.Octave*len(letters) + p.Letter.index()
}

func pitchAtHeight(h int, mark Mark) Pitch {
	return Pitch{Letter: letters[h%len(letters)], Mark: mark, Octave: h / len(letters)}
}

// IsHigherOrEqual compares by staff height only.
func (p Pitch) IsHigherOrEqual(other Pitch) bool {
	return p.Height() >= other.Height()
}

// Increment returns the pitch one letter up, or p unchanged at the top of
// the range.
func (p Pitch) Increment() Pitch {
	if p.Height() >= HighestPitch.Height() {
		return p
	}
	return pitchAtHeight(p.Height()+1, p.Mark)
}

// Decrement returns the pitch one letter down, or p unchanged at the bottom
// of the range.
func (p Pitch) Decrement() Pitch {
	if p.Height() <= LowestPitch.Height() {
		return p
	}
	return pitchAtHeight(p.Height()-1, p.Mark)
}

// Clamp moves p into the instrument range, keeping its mark.
func (p Pitch) Clamp() Pitch {
	switch {
	case p.Height() < LowestPitch.Height():
		return Pitch{Letter: LowestPitch.Letter, Mark: p.Mark, Octave: LowestPitch.Octave}
	case p.Height() > HighestPitch.Height():
		return Pitch{Letter: HighestPitch.Letter, Mark: p.Mark, Octave: HighestPitch.Octave}
	}
	return p
}

// Key is the MIDI key number, C4 = 60.
func (p Pitch) Key() uint8 {
	k := (p.Octave+1)*12 + semitones[p.Letter]
	switch p.Mark {
	case Sharp:
		k++
	case Flat:
		k--
	}
	return uint8(min(max(k, 0), 127)) //nolint:gosec // clamped to the MIDI range
}
