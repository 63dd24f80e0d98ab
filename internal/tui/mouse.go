package tui

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/icco/genstaff/internal/notation"
)

// pointAt maps a terminal cell of the editor view to the track it belongs to
// and the model point at the center of that cell.
func (e editorModel) pointAt(x, y int) (int, image.Point, bool) {
	if e.song == nil || x < 0 {
		return 0, image.Point{}, false
	}
	rel := y - editorHeaderLines
	if rel < 0 {
		return 0, image.Point{}, false
	}
	track := rel / trackBlockLines
	row := rel%trackBlockLines - 1
	if track >= len(e.song.Tracks) || row < 0 || row >= staffRows {
		return 0, image.Point{}, false
	}

	py := notation.TopMargin + row*notation.StepHeight
	if x < gutterWidth {
		px := notation.AccidentalsLeft + x*notation.AccidentalsWidth/gutterWidth
		return track, image.Pt(px, py), true
	}
	slot := (x-gutterWidth)/cellWidth + e.scroll
	return track, image.Pt(notation.X(slot), py), true
}

// updateMouse handles a left click: in the key signature area of a track in
// sharps or flats mode it toggles the letter under the pointer, elsewhere it
// selects the note under the pointer and toggles it between note and rest.
func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	e := &m.editor
	track, pt, ok := e.pointAt(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	t := e.song.Tracks[track]

	if pt.In(notation.AccidentalsRect) {
		letter := notation.NearestPitch(pt.Y).Letter
		var err error
		switch {
		case t.SharpsMode:
			err = e.song.AddSharp(track, letter)
		case t.FlatsMode:
			err = e.song.AddFlat(track, letter)
		default:
			return m, nil
		}
		if err != nil {
			m.setError("Error: %v", err)
			return m, nil
		}
		e.track = track
		m.changed()
		return m, nil
	}

	i := t.Notes.HitNote(pt)
	if i < 0 {
		return m, nil
	}
	e.track = track
	t.Notes.Select(i)
	t.Notes.ClickHitNote(pt)
	t.Notes.Normalize()
	m.edited()
	return m, nil
}
