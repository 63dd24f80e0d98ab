package notation

import (
	"image"
)

// DefaultBarCapacity is one 4/4 measure.
const DefaultBarCapacity = SixteenthsPerWhole

// Sequence is the ordered list of notes of one track.
//
// Bars and layout positions are derived data: after any mutation, run Bars
// (or Layout for the whole composition) again before hit-testing.
type Sequence struct {
	capacity int
	notes    []*Note
	bars     []*Bar
}

// NewSequence creates a sequence with the given bar capacity in sixteenths;
// capacity <= 0 means DefaultBarCapacity.
func NewSequence(capacity int, notes ...*Note) *Sequence {
	if capacity <= 0 {
		capacity = DefaultBarCapacity
	}
	return &Sequence{capacity: capacity, notes: notes}
}

// ParseSequence creates a sequence of quarter notes from pitch names.
func ParseSequence(capacity int, names ...string) (*Sequence, error) {
	notes := make([]*Note, 0, len(names))
	for _, name := range names {
		n, err := NewNote(name)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return NewSequence(capacity, notes...), nil
}

func (s *Sequence) Capacity() int { return s.capacity }

func (s *Sequence) Len() int { return len(s.notes) }

// Note returns the i-th note, or nil if i is out of range.
func (s *Sequence) Note(i int) *Note {
	if i < 0 || i >= len(s.notes) {
		return nil
	}
	return s.notes[i]
}

// Notes returns the notes in order. The slice must not be modified.
func (s *Sequence) Notes() []*Note { return s.notes }

func (s *Sequence) TotalSixteenths() int {
	total := 0
	for _, n := range s.notes {
		total += n.Sixteenths()
	}
	return total
}

// Onset is the start of the i-th note from the beginning, in sixteenths.
func (s *Sequence) Onset(i int) int {
	total := 0
	for _, n := range s.notes[:min(max(i, 0), len(s.notes))] {
		total += n.Sixteenths()
	}
	return total
}

// Insert puts n at index i, clamped to the sequence bounds.
func (s *Sequence) Insert(i int, n *Note) {
	i = min(max(i, 0), len(s.notes))
	s.notes = append(s.notes, nil)
	copy(s.notes[i+1:], s.notes[i:])
	s.notes[i] = n
	s.Normalize()
}

// Append adds notes at the end.
func (s *Sequence) Append(notes ...*Note) {
	s.notes = append(s.notes, notes...)
	s.Normalize()
}

// Delete removes the i-th note. The last remaining note cannot be removed;
// Delete reports whether anything changed.
func (s *Sequence) Delete(i int) bool {
	if i < 0 || i >= len(s.notes) || len(s.notes) == 1 {
		return false
	}
	s.notes[i].ClearTie()
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	s.Normalize()
	return true
}

// Select selects the i-th note and deselects every other one.
func (s *Sequence) Select(i int) {
	for j, n := range s.notes {
		if j == i {
			n.Select()
		} else {
			n.Deselect()
		}
	}
}

// Selected returns the first selected note and its index, or -1 and nil.
func (s *Sequence) Selected() (int, *Note) {
	for i, n := range s.notes {
		if n.IsSelected() {
			return i, n
		}
	}
	return -1, nil
}

// Normalize makes the sequence fill whole bars: trailing rests that only
// extend past the last bar with sounding notes are dropped, and the final bar
// is padded with rests. An empty sequence becomes one bar of rest.
func (s *Sequence) Normalize() {
	s.bars = nil
	end, total := 0, 0
	for _, n := range s.notes {
		total += n.Sixteenths()
		if !n.IsRest() {
			end = total
		}
	}
	keep := roundUp(max(end, 1), s.capacity)
	for len(s.notes) > 1 {
		last := s.notes[len(s.notes)-1]
		if !last.IsRest() || total-last.Sixteenths() < keep {
			break
		}
		total -= last.Sixteenths()
		s.notes = s.notes[:len(s.notes)-1]
	}
	for _, d := range FromSixteenths(roundUp(max(total, 1), s.capacity) - total) {
		s.notes = append(s.notes, Rest(d))
	}
}

func roundUp(n, multiple int) int {
	return (n + multiple - 1) / multiple * multiple
}

// Bars segments the sequence into bars. A note that does not fit in what is
// left of the current bar is split into tie fragments that fill the bar and
// continue into the following ones, as many as needed. Existing ties and
// layout positions are discarded first.
func (s *Sequence) Bars() []*Bar {
	for _, n := range s.notes {
		n.ClearTie()
		n.clearPosition()
	}
	cur := newBar(s.capacity)
	bars := []*Bar{cur}
	next := func() {
		if cur.Remaining() == 0 {
			cur = newBar(s.capacity)
			bars = append(bars, cur)
		}
	}
	for i, n := range s.notes {
		next()
		if n.Sixteenths() <= cur.Remaining() {
			cur.add(n)
			continue
		}
		var start, end []*Tie
		first := true
		for left := n.Sixteenths(); left > 0; {
			if cur.Remaining() == 0 {
				next()
				first = false
			}
			chunk := min(left, cur.Remaining())
			for _, d := range FromSixteenths(chunk) {
				t := &Tie{duration: d, noteIndex: i}
				cur.add(t)
				if first {
					start = append(start, t)
				} else {
					end = append(end, t)
				}
			}
			left -= chunk
		}
		n.SetTies(start, end)
	}
	s.bars = bars
	return bars
}

// AllNotes flattens the most recently computed bars into one list of notes
// and tie fragments, segmenting first if needed.
func (s *Sequence) AllNotes() []Item {
	if s.bars == nil {
		s.Bars()
	}
	var ret []Item
	for _, b := range s.bars {
		ret = append(ret, b.items...)
	}
	return ret
}

// governing returns the note an item belongs to.
func (s *Sequence) governing(it Item) *Note {
	switch v := it.(type) {
	case *Note:
		return v
	case *Tie:
		return s.Note(v.noteIndex)
	}
	return nil
}

// ItemIndex returns the sequence index of the note an item belongs to, or -1.
func (s *Sequence) ItemIndex(it Item) int {
	n := s.governing(it)
	for i, x := range s.notes {
		if x == n {
			return i
		}
	}
	return -1
}

// HitNote returns the index of the first note hit by point, or -1.
func (s *Sequence) HitNote(point image.Point) int {
	for _, it := range s.AllNotes() {
		if n := s.governing(it); n != nil && n.IsHit(point) {
			return s.ItemIndex(it)
		}
	}
	return -1
}

// ClickHitNote toggles the rest state of the note under point. It reports
// whether a note was hit.
func (s *Sequence) ClickHitNote(point image.Point) bool {
	i := s.HitNote(point)
	if i < 0 {
		return false
	}
	s.notes[i].RestToggle()
	return true
}
