package tui

import (
	"fmt"
	"strings"

	"github.com/icco/genstaff/internal/notation"
	"github.com/icco/genstaff/internal/song"
)

// A staff is drawn as text: one row per diatonic step from the highest to
// the lowest pitch, one cell of cellWidth columns per layout slot, after a
// gutter holding the clefs and the key signature.
const (
	gutterWidth = 10
	cellWidth   = 3
)

var (
	staffRows = notation.HighestPitchHeight - notation.LowestPitch.Height() + 1

	// lineRows are the ten lines of the grand staff.
	lineRows = rowSet("F5", "D5", "B4", "G4", "E4", "A3", "F3", "D3", "B2", "G2")

	barTop    = rowOf(notation.MustPitch("F5"))
	barBottom = rowOf(notation.MustPitch("G2"))
	restRow   = rowOf(notation.MustPitch("B4"))

	trebleSharps = signature("F5", "C5", "G5", "D5", "A4", "E5", "B4")
	trebleFlats  = signature("B4", "E5", "A4", "D5", "G4", "C5", "F4")
)

func rowOf(p notation.Pitch) int {
	return notation.HighestPitchHeight - p.Height()
}

func rowSet(names ...string) map[int]bool {
	rows := make(map[int]bool, len(names))
	for _, n := range names {
		rows[rowOf(notation.MustPitch(n))] = true
	}
	return rows
}

func signature(names ...string) map[notation.Letter]notation.Pitch {
	sig := make(map[notation.Letter]notation.Pitch, len(names))
	for _, n := range names {
		p := notation.MustPitch(n)
		sig[p.Letter] = p
	}
	return sig
}

// durationGlyph is w, h, q, e or s for the undotted value.
func durationGlyph(d notation.Duration) byte {
	switch strings.TrimSuffix(d.String(), ".") {
	case "1n":
		return 'w'
	case "2n":
		return 'h'
	case "8n":
		return 'e'
	case "16n":
		return 's'
	}
	return 'q'
}

type cell struct {
	text     [cellWidth]byte
	selected bool
}

type staffGrid struct {
	rows   [][]cell
	gutter [][gutterWidth]byte
}

func newStaffGrid(slots int) *staffGrid {
	g := &staffGrid{
		rows:   make([][]cell, staffRows),
		gutter: make([][gutterWidth]byte, staffRows),
	}
	for r := range g.rows {
		fill := byte(' ')
		if lineRows[r] {
			fill = '-'
		}
		g.rows[r] = make([]cell, slots)
		for s := range g.rows[r] {
			g.rows[r][s].text = [cellWidth]byte{fill, fill, fill}
		}
		for c := range g.gutter[r] {
			g.gutter[r][c] = fill
		}
	}
	return g
}

func (g *staffGrid) put(row, slot int, text [cellWidth]byte, selected bool) {
	if row < 0 || row >= len(g.rows) || slot < 0 || slot >= len(g.rows[row]) {
		return
	}
	for i, b := range text {
		if b != ' ' {
			g.rows[row][slot].text[i] = b
		}
	}
	g.rows[row][slot].selected = g.rows[row][slot].selected || selected
}

func (g *staffGrid) keySignature(t *song.Track) {
	g.gutter[rowOf(notation.MustPitch("G4"))][0] = 'G'
	g.gutter[rowOf(notation.MustPitch("F3"))][0] = 'F'
	col := 2
	mark := func(l notation.Letter, sig map[notation.Letter]notation.Pitch, sign byte) {
		if col >= gutterWidth {
			return
		}
		treble := sig[l]
		bass := notation.Pitch{Letter: treble.Letter, Octave: treble.Octave - 2}
		g.gutter[rowOf(treble)][col] = sign
		g.gutter[rowOf(bass)][col] = sign
		col++
	}
	for _, l := range t.Sharps {
		mark(l, trebleSharps, '#')
	}
	for _, l := range t.Flats {
		mark(l, trebleFlats, 'b')
	}
}

// slotCount is one more than the highest laid out position.
func slotCount(ds []notation.Drawable) int {
	n := 0
	for _, d := range ds {
		if pos, ok := d.Position(); ok {
			n = max(n, pos+1)
		}
	}
	return n
}

// itemGlyph renders a note, rest or tie fragment. Fragments after the first
// start with a tie mark instead of the accidental.
func itemGlyph(d notation.Duration, rest bool, prefix byte) [cellWidth]byte {
	dot := byte(' ')
	if d.IsDotted() {
		dot = '.'
	}
	if rest {
		if prefix == '~' {
			return [cellWidth]byte{'~', 'r', dot}
		}
		return [cellWidth]byte{'r', durationGlyph(d), dot}
	}
	return [cellWidth]byte{prefix, durationGlyph(d), dot}
}

func (g *staffGrid) draw(seq *notation.Sequence, ds []notation.Drawable) {
	for _, d := range ds {
		pos, ok := d.Position()
		if !ok {
			continue
		}
		switch it := d.(type) {
		case *notation.Bar:
			for r := barTop; r <= barBottom; r++ {
				g.put(r, pos, [cellWidth]byte{' ', '|', ' '}, false)
			}
		case *notation.Note:
			prefix := byte(' ')
			if m := it.Accidental(); m != notation.NoMark {
				prefix = byte(m)
			}
			g.putItem(it, pos, itemGlyph(it.Duration(), it.IsRest(), prefix))
		case *notation.Tie:
			prefix := byte('~')
			if n := seq.Note(it.NoteIndex()); n != nil && len(n.StartTies()) > 0 && n.StartTies()[0] == it {
				prefix = ' '
				if m := n.Accidental(); m != notation.NoMark {
					prefix = byte(m)
				}
			}
			g.putItem(it, pos, itemGlyph(it.Duration(), it.IsRest(), prefix))
		}
	}
}

func (g *staffGrid) putItem(it notation.Item, pos int, text [cellWidth]byte) {
	row := restRow
	if !it.IsRest() {
		row = rowOf(it.Pitch())
	}
	g.put(row, pos, text, it.IsSelected())
}

// renderStaff draws one track's drawables, showing at most visible slots
// starting at scroll.
func renderStaff(t *song.Track, ds []notation.Drawable, scroll, visible int) []string {
	slots := slotCount(ds)
	g := newStaffGrid(slots)
	g.keySignature(t)
	g.draw(t.Notes, ds)

	end := min(slots, scroll+visible)
	lines := make([]string, staffRows)
	for r := range g.rows {
		var b strings.Builder
		b.WriteString(gutterStyle.Render(string(g.gutter[r][:])))
		for s := scroll; s < end; s++ {
			c := g.rows[r][s]
			text := string(c.text[:])
			switch {
			case c.selected:
				b.WriteString(selectedStyle.Render(text))
			case t.Muted:
				b.WriteString(helpStyle.Render(text))
			default:
				b.WriteString(text)
			}
		}
		lines[r] = b.String()
	}
	return lines
}

// trackHeader is the line above each staff.
func trackHeader(i int, t *song.Track, current bool) string {
	flags := ""
	if t.Muted {
		flags += " [muted]"
	}
	if t.SharpsMode {
		flags += " [click key: sharps]"
	}
	if t.FlatsMode {
		flags += " [click key: flats]"
	}
	label := t.Instrument
	if in, ok := song.LookupInstrument(t.Instrument); ok {
		label = in.Label
	}
	text := fmt.Sprintf("%d %s  %s  vol %d%s", i+1, t.Name, label, t.Volume, flags)
	if current {
		return selectedStyle.Render("> " + text)
	}
	return "  " + text
}
