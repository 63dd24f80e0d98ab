package notation

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Accidentals is an ordered set of letters that a track sharpens or
// flattens, a simple key signature.
type Accidentals []Letter

func (a Accidentals) Contains(l Letter) bool {
	return slices.Contains(a, l)
}

func (a Accidentals) without(l Letter) Accidentals {
	if i := slices.Index(a, l); i >= 0 {
		return slices.Delete(slices.Clone(a), i, i+1)
	}
	return a
}

// Strings returns the letters as strings, in order.
func (a Accidentals) Strings() []string {
	ret := make([]string, len(a))
	for i, l := range a {
		ret[i] = l.String()
	}
	return ret
}

// ParseAccidentals builds a set from note names or bare letters; only the
// first character of each entry counts and duplicates are dropped.
func ParseAccidentals(names []string) (Accidentals, error) {
	var ret Accidentals
	for _, name := range names {
		if name == "" || !Letter(name[0]).Valid() {
			return nil, fmt.Errorf("%w: accidental %q", ErrInvalidPitch, name)
		}
		if l := Letter(name[0]); !ret.Contains(l) {
			ret = append(ret, l)
		}
	}
	return ret, nil
}

// ToggleSharp adds l to sharps, removing it from flats, or removes it from
// sharps if it is already there. A letter never ends up in both lists.
func ToggleSharp(sharps, flats Accidentals, l Letter) (Accidentals, Accidentals) {
	return toggleAccidental(sharps, flats, l)
}

// ToggleFlat is ToggleSharp with the roles of the lists swapped.
func ToggleFlat(sharps, flats Accidentals, l Letter) (Accidentals, Accidentals) {
	flats, sharps = toggleAccidental(flats, sharps, l)
	return sharps, flats
}

func toggleAccidental(list, opposing Accidentals, l Letter) (Accidentals, Accidentals) {
	opposing = opposing.without(l)
	if list.Contains(l) {
		return list.without(l), opposing
	}
	return append(slices.Clone(list), l), opposing
}

// Resolve returns the name a note is displayed and played with. An explicit
// sharp or flat on the note wins, then an explicit natural, then the track's
// sharps, then its flats.
func Resolve(n *Note, sharps, flats Accidentals) string {
	return ResolvePitch(n.Pitch(), n.Accidental(), sharps, flats).String()
}

// ResolvePitch is Resolve on a bare pitch and explicit accidental.
func ResolvePitch(p Pitch, explicit Mark, sharps, flats Accidentals) Pitch {
	switch {
	case explicit == Sharp || explicit == Flat:
		p.Mark = explicit
	case explicit == Natural:
		p.Mark = NoMark
	case sharps.Contains(p.Letter):
		p.Mark = Sharp
	case flats.Contains(p.Letter):
		p.Mark = Flat
	}
	return p
}
