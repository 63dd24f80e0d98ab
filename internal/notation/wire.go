package notation

import "fmt"

// Wire is the persisted form of a note. IsNote is the negation of the rest
// flag. Ties are never persisted; they are derived again by Bars.
type Wire struct {
	Name       string `json:"name" yaml:"name"`
	Duration   string `json:"duration" yaml:"duration"`
	IsNote     bool   `json:"isNote" yaml:"isNote"`
	Accidental string `json:"accidental,omitempty" yaml:"accidental,omitempty"`
}

// ToJSON returns the wire form of the note.
func (n *Note) ToJSON() Wire {
	return Wire{
		Name:       n.Name(),
		Duration:   n.duration.String(),
		IsNote:     !n.rest,
		Accidental: n.accidental.String(),
	}
}

// FromWire builds a note from its wire form. Nothing is built if any field
// is invalid.
func FromWire(w Wire) (*Note, error) {
	n, err := NewNote(w.Name, w.Duration)
	if err != nil {
		return nil, err
	}
	n.rest = !w.IsNote
	switch m := Mark(firstByte(w.Accidental)); {
	case w.Accidental == "":
	case len(w.Accidental) == 1 && (m == Sharp || m == Flat || m == Natural):
		n.accidental = m
	default:
		return nil, fmt.Errorf("%w: accidental %q", ErrInvalidPitch, w.Accidental)
	}
	return n, nil
}

func firstByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}

// Wire returns the wire form of every note in order.
func (s *Sequence) Wire() []Wire {
	ret := make([]Wire, len(s.notes))
	for i, n := range s.notes {
		ret[i] = n.ToJSON()
	}
	return ret
}

// SequenceFromWire rebuilds a sequence from its wire form.
func SequenceFromWire(capacity int, ws []Wire) (*Sequence, error) {
	notes := make([]*Note, 0, len(ws))
	for i, w := range ws {
		n, err := FromWire(w)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		notes = append(notes, n)
	}
	return NewSequence(capacity, notes...), nil
}
