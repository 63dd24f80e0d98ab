package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidDurationCode is returned when a duration code cannot be parsed.
	ErrInvalidDurationCode = errors.New("invalid duration code")
	// ErrInvalidPitch is returned when a pitch name cannot be parsed.
	ErrInvalidPitch = errors.New("invalid pitch")
)

// SixteenthsPerWhole is the number of sixteenth notes in a whole note, and
// thus in one 4/4 measure.
const SixteenthsPerWhole = 16

// Duration is a rhythmic value: a power-of-two note value, optionally dotted.
// The zero value is not valid; use ParseDuration or one of the predefined
// values.
type Duration struct {
	denominator int
	dotted      bool
}

var (
	Whole     = Duration{denominator: 1}
	Half      = Duration{denominator: 2}
	Quarter   = Duration{denominator: 4}
	Eighth    = Duration{denominator: 8}
	Sixteenth = Duration{denominator: 16}
)

// ParseDuration parses codes like "4n", "8n." or "16n".
func ParseDuration(code string) (Duration, error) {
	s, dotted := strings.CutSuffix(code, ".")
	s, ok := strings.CutSuffix(s, "n")
	if !ok {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDurationCode, code)
	}
	den, err := strconv.Atoi(s)
	if err != nil {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDurationCode, code)
	}
	d := Duration{denominator: den, dotted: dotted}
	if !d.valid() {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDurationCode, code)
	}
	return d, nil
}

// MustDuration is like ParseDuration but panics on error. Meant for constants
// and tests.
func MustDuration(code string) Duration {
	d, err := ParseDuration(code)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Duration) valid() bool {
	switch d.denominator {
	case 1, 16:
		return !d.dotted
	case 2, 4, 8:
		return true
	}
	return false
}

// Sixteenths returns the length of the duration in sixteenth notes.
func (d Duration) Sixteenths() int {
	if d.denominator == 0 {
		return 0
	}
	base := SixteenthsPerWhole / d.denominator
	return base + d.SixteenthsInTheDot()
}

// SixteenthsInTheDot is the extra length added by the dot, or 0.
func (d Duration) SixteenthsInTheDot() int {
	if !d.dotted || d.denominator == 0 {
		return 0
	}
	return SixteenthsPerWhole / d.denominator / 2
}

func (d Duration) IsDotted() bool { return d.dotted }

// ToggleDot adds or removes the dot. Whole and sixteenth values cannot be
// dotted; for them the duration is returned unchanged.
func (d Duration) ToggleDot() Duration {
	if d.denominator == 1 || d.denominator == 16 {
		return d
	}
	d.dotted = !d.dotted
	return d
}

func (d Duration) String() string {
	s := strconv.Itoa(d.denominator) + "n"
	if d.dotted {
		s += "."
	}
	return s
}

func (d Duration) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDurationCode, d)
	}
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// representable lists every duration longest first; FromSixteenths walks it
// greedily.
var representable = []Duration{
	Whole,
	{denominator: 2, dotted: true},
	Half,
	{denominator: 4, dotted: true},
	Quarter,
	{denominator: 8, dotted: true},
	Eighth,
	Sixteenth,
}

// FromSixteenths splits n sixteenths into a list of durations, longest
// first, whose lengths add up to n. It returns nil for n <= 0.
func FromSixteenths(n int) []Duration {
	var ret []Duration
	for _, d := range representable {
		for n >= d.Sixteenths() {
			ret = append(ret, d)
			n -= d.Sixteenths()
		}
	}
	return ret
}

// Transport is an absolute position in bars:quarters:sixteenths, assuming 4/4.
type Transport struct {
	Bars       int
	Quarters   int
	Sixteenths int
}

// TransportTime maps a cumulative sixteenth offset to a transport position.
func TransportTime(cumulativeSixteenths int) Transport {
	return Transport{
		Bars:       cumulativeSixteenths / SixteenthsPerWhole,
		Quarters:   cumulativeSixteenths % SixteenthsPerWhole / 4,
		Sixteenths: cumulativeSixteenths % 4,
	}
}

// InSixteenths converts the position back to a sixteenth count.
func (t Transport) InSixteenths() int {
	return t.Bars*SixteenthsPerWhole + t.Quarters*4 + t.Sixteenths
}

func (t Transport) String() string {
	return fmt.Sprintf("%d:%d:%d", t.Bars, t.Quarters, t.Sixteenths)
}

// Offset is the wall-clock onset at the given tempo. It is computed from the
// absolute sixteenth count in one step, so it does not accumulate rounding.
func (t Transport) Offset(bpm int) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Duration(t.InSixteenths()) * time.Minute / time.Duration(bpm*4)
}

// Ticks is the onset in MIDI ticks for the given pulses per quarter note.
func (t Transport) Ticks(ppq uint32) uint32 {
	return uint32(t.InSixteenths()) * ppq / 4 //nolint:gosec // sixteenth offsets are never negative
}
