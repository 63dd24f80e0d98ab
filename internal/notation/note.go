package notation

import (
	"fmt"
	"image"
)

// Drawable is anything the rendering surface paints: a *Note, a *Tie or a
// *Bar. Position is the layout slot, valid only after layout.
type Drawable interface {
	Position() (int, bool)
}

// Item is the content of a bar: a *Note, or a *Tie fragment of a note that
// was split across a bar line.
type Item interface {
	Drawable
	SetPosition(int)
	Pitch() Pitch
	Duration() Duration
	Sixteenths() int
	IsRest() bool
	IsSelected() bool
	IsHit(image.Point) bool
}

// position is an optional layout slot.
type position struct {
	slot   int
	placed bool
}

func (p *position) Position() (int, bool) { return p.slot, p.placed }

func (p *position) SetPosition(slot int) {
	p.slot = slot
	p.placed = true
}

func (p *position) clearPosition() { *p = position{} }

// Note is a pitched note or a rest, the unit users edit.
type Note struct {
	position
	pitch      Pitch
	duration   Duration
	rest       bool
	selected   bool
	accidental Mark

	startTies []*Tie
	endTies   []*Tie
}

// NewNote creates a note from a pitch name and an optional duration code;
// the default duration is a quarter. Pitches outside the instrument range are
// clamped into it.
func NewNote(name string, code ...string) (*Note, error) {
	p, err := ParsePitch(name)
	if err != nil {
		return nil, err
	}
	p = p.Clamp()
	d := Quarter
	if len(code) > 0 {
		if d, err = ParseDuration(code[0]); err != nil {
			return nil, err
		}
	}
	return &Note{pitch: p, duration: d}, nil
}

// MustNote is like NewNote but panics on error.
func MustNote(name string, code ...string) *Note {
	n, err := NewNote(name, code...)
	if err != nil {
		panic(err)
	}
	return n
}

// restPitch is where rest glyphs sit on the staff.
var restPitch = Pitch{Letter: B, Octave: 4}

// Rest creates a rest, a quarter unless d is given.
func Rest(d ...Duration) *Note {
	n := &Note{pitch: restPitch, duration: Quarter, rest: true}
	if len(d) > 0 {
		n.duration = d[0]
	}
	return n
}

func (n *Note) Pitch() Pitch { return n.pitch }
func (n *Note) Name() string { return n.pitch.String() }
func (n *Note) Duration() Duration { return n.duration }
func (n *Note) Sixteenths() int { return n.duration.Sixteenths() }
func (n *Note) IsDotted() bool { return n.duration.IsDotted() }
func (n *Note) IsRest() bool { return n.rest }
func (n *Note) IsSelected() bool { return n.selected }
func (n *Note) Accidental() Mark { return n.accidental }
func (n *Note) StartTies() []*Tie { return n.startTies }
func (n *Note) EndTies() []*Tie { return n.endTies }
func (n *Note) SixteenthsInTheDot() int {
	return n.duration.SixteenthsInTheDot()
}

func (n *Note) ties(f func(t *Tie)) {
	for _, t := range n.startTies {
		f(t)
	}
	for _, t := range n.endTies {
		f(t)
	}
}

// Increment moves the note and its ties one letter up, within range.
func (n *Note) Increment() *Note {
	n.setPitch(n.pitch.Increment())
	return n
}

// Decrement moves the note and its ties one letter down, within range.
func (n *Note) Decrement() *Note {
	n.setPitch(n.pitch.Decrement())
	return n
}

func (n *Note) setPitch(p Pitch) {
	n.pitch = p
	n.ties(func(t *Tie) { t.pitch = p })
}

// RestToggle turns a note into a rest and back.
func (n *Note) RestToggle() {
	n.rest = !n.rest
	n.ties(func(t *Tie) { t.rest = n.rest })
}

// ToggleDot toggles the dot; it does nothing for whole and sixteenth notes.
func (n *Note) ToggleDot() {
	n.duration = n.duration.ToggleDot()
}

func (n *Note) SetDuration(d Duration) {
	n.duration = d
}

// SetAccidental sets the explicit accidental; NoMark clears it.
func (n *Note) SetAccidental(m Mark) {
	n.accidental = m
}

// ToggleAccidental sets m, or clears it if it is already set.
func (n *Note) ToggleAccidental(m Mark) {
	if n.accidental == m {
		n.accidental = NoMark
		return
	}
	n.accidental = m
}

// Select marks the note and every one of its ties as selected.
func (n *Note) Select() {
	n.selected = true
	n.ties(func(t *Tie) { t.selected = true })
}

// Deselect clears the selection on the note and every one of its ties.
func (n *Note) Deselect() {
	n.selected = false
	n.ties(func(t *Tie) { t.selected = false })
}

// SetTies replaces both tie lists. Ties take over the note's pitch, rest and
// selection state.
func (n *Note) SetTies(start, end []*Tie) {
	n.startTies = start
	n.endTies = end
	n.ties(func(t *Tie) {
		t.pitch = n.pitch
		t.rest = n.rest
		t.selected = n.selected
	})
}

// IsRepresentedAsTie reports whether the note was split across bars.
func (n *Note) IsRepresentedAsTie() bool {
	return len(n.startTies) > 0
}

func (n *Note) ClearTie() {
	n.startTies = nil
	n.endTies = nil
}

// IsHit reports whether point falls on the note as drawn at its layout
// position. A note split into ties is hit anywhere along the span from its
// first to its last tie. Unplaced notes are never hit.
func (n *Note) IsHit(point image.Point) bool {
	if n.IsRepresentedAsTie() {
		first, ok1 := n.startTies[0].Position()
		last, ok2 := n.lastTie().Position()
		if !ok1 || !ok2 {
			return false
		}
		if n.rest {
			return point.In(restRect(X(first)).Union(restRect(X(last))))
		}
		y := Y(n.pitch)
		return point.In(image.Rect(X(first)-NoteHitSize/2, y-NoteHitSize/2, X(last)+NoteHitSize/2+1, y+NoteHitSize/2+1))
	}
	slot, ok := n.Position()
	if !ok {
		return false
	}
	if n.rest {
		return point.In(restRect(X(slot)))
	}
	return point.In(centeredRect(X(slot), Y(n.pitch), NoteHitSize, NoteHitSize))
}

func (n *Note) lastTie() *Tie {
	if len(n.endTies) > 0 {
		return n.endTies[len(n.endTies)-1]
	}
	return n.startTies[len(n.startTies)-1]
}

// restRect is the highlight band for a rest in the slot centered on x.
func restRect(x int) image.Rectangle {
	return image.Rect(x-NoteDistance/2, RestRectangleTop, x+NoteDistance/2, RestRectangleTop+RestRectangleHeight+1)
}

func (n *Note) String() string {
	if n.rest {
		return "rest:" + n.duration.String()
	}
	return fmt.Sprintf("%v%v:%v", n.pitch, n.accidental, n.duration)
}

// Tie is the fragment of a note drawn in one bar when the note is split
// across bar lines. It continues the note; it is not a new attack.
type Tie struct {
	position
	pitch     Pitch
	duration  Duration
	rest      bool
	selected  bool
	noteIndex int
}

// NewTie creates a free-standing tie, mostly useful in tests; Sequence.Bars
// creates the real ones.
func NewTie(name string, code ...string) *Tie {
	n := MustNote(name, code...)
	return &Tie{pitch: n.pitch, duration: n.duration, noteIndex: -1}
}

func (t *Tie) Pitch() Pitch { return t.pitch }
func (t *Tie) Name() string { return t.pitch.String() }
func (t *Tie) Duration() Duration { return t.duration }
func (t *Tie) Sixteenths() int { return t.duration.Sixteenths() }
func (t *Tie) IsRest() bool { return t.rest }
func (t *Tie) IsSelected() bool { return t.selected }

// NoteIndex is the sequence index of the note this tie continues, or -1.
func (t *Tie) NoteIndex() int { return t.noteIndex }

func (t *Tie) IsHit(point image.Point) bool {
	slot, ok := t.Position()
	if !ok {
		return false
	}
	if t.rest {
		return point.In(restRect(X(slot)))
	}
	return point.In(centeredRect(X(slot), Y(t.pitch), NoteHitSize, NoteHitSize))
}
