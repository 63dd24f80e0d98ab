package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/icco/genstaff/internal/notation"
	"github.com/icco/genstaff/internal/song"
)

const (
	// editorHeaderLines are the lines above the first staff: title, status
	// and a blank line.
	editorHeaderLines = 3

	bpmStep = 5
	// unbounded is the slot count shown before the terminal width is known.
	unbounded = 1 << 16
)

// trackBlockLines is the height of one track: header, staff, blank.
var trackBlockLines = staffRows + 2

// editorModel is the open song and the editing cursor. revision counts
// edits, so a save that finishes after further edits leaves the song dirty.
type editorModel struct {
	song     *song.Song
	track    int
	layout   [][]notation.Drawable
	scroll   int
	width    int
	revision int
}

func newEditor(s *song.Song, width int) editorModel {
	e := editorModel{song: s, width: width}
	e.relayout()
	return e
}

func (e *editorModel) currentTrack() *song.Track {
	if e.song == nil || e.track < 0 || e.track >= len(e.song.Tracks) {
		return nil
	}
	return e.song.Tracks[e.track]
}

// relayout keeps a note selected, lays out every track again and scrolls to
// the selection. It runs after every change.
func (e *editorModel) relayout() {
	if e.song == nil {
		return
	}
	e.track = min(max(e.track, 0), max(len(e.song.Tracks)-1, 0))
	if t := e.currentTrack(); t != nil && t.Notes.Len() > 0 {
		if i, _ := t.Notes.Selected(); i < 0 {
			t.Notes.Select(0)
		}
	}
	e.layout = e.song.Layout()
	e.follow()
}

func (e *editorModel) visibleSlots() int {
	if e.width <= 0 {
		return unbounded
	}
	return max((e.width-gutterWidth)/cellWidth, 1)
}

// follow scrolls so the selected note is on screen.
func (e *editorModel) follow() {
	t := e.currentTrack()
	if t == nil {
		e.scroll = 0
		return
	}
	_, n := t.Notes.Selected()
	if n == nil {
		return
	}
	var d notation.Drawable = n
	if n.IsRepresentedAsTie() {
		d = n.StartTies()[0]
	}
	slot, ok := d.Position()
	if !ok {
		return
	}
	visible := e.visibleSlots()
	if slot < e.scroll {
		e.scroll = slot
	}
	if slot >= e.scroll+visible {
		e.scroll = slot - visible + 1
	}
}

// edited records a change made directly on a track's notes.
func (m *Model) edited() {
	m.editor.song.Touch()
	m.editor.revision++
	m.editor.relayout()
	m.scheduleAutosave()
}

// changed records a change made through a song method, which already marks
// the song dirty when something changed.
func (m *Model) changed() {
	if m.editor.song.Dirty {
		m.editor.revision++
		m.scheduleAutosave()
	}
	m.editor.relayout()
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.editor
	k := editorKeys

	switch {
	case key.Matches(msg, k.Back):
		m.stopPlayback()
		m.mode = browserMode
		cmds := []tea.Cmd{m.listCmd()}
		if e.song.Dirty {
			cmds = append([]tea.Cmd{m.saveCmd()}, cmds...)
		}
		return m, tea.Sequence(cmds...)
	case key.Matches(msg, k.Play):
		if m.playing {
			m.stopPlayback()
			return m, nil
		}
		return m, m.startPlayback()
	case key.Matches(msg, k.Save):
		return m, m.saveCmd()
	case key.Matches(msg, k.Rename):
		m.mode = renameMode
		m.rename.SetValue(e.song.Name)
		return m, m.rename.Focus()
	case key.Matches(msg, k.Faster):
		e.song.SetBPM(e.song.BPM + bpmStep)
		m.changed()
		return m, nil
	case key.Matches(msg, k.Slower):
		e.song.SetBPM(e.song.BPM - bpmStep)
		m.changed()
		return m, nil
	case key.Matches(msg, k.AddTrack):
		e.song.AddTrack()
		e.track = len(e.song.Tracks) - 1
		m.changed()
		return m, nil
	}

	t := e.currentTrack()
	if t == nil {
		return m, nil
	}
	if key.Matches(msg, k.NextTrack, k.PrevTrack, k.DeleteTrack, k.Mute, k.SharpsMode, k.FlatsMode,
		k.Instrument, k.Louder, k.Softer) {
		return m.updateTrack(msg, t)
	}

	seq := t.Notes
	i, n := seq.Selected()
	if n == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, k.Left):
		if i > 0 {
			seq.Select(i - 1)
		}
		e.relayout()
		return m, nil
	case key.Matches(msg, k.Right):
		if i < seq.Len()-1 {
			seq.Select(i + 1)
		}
		e.relayout()
		return m, nil
	case key.Matches(msg, k.Up):
		n.Increment()
	case key.Matches(msg, k.Down):
		n.Decrement()
	case key.Matches(msg, k.Dot):
		n.ToggleDot()
		seq.Normalize()
	case key.Matches(msg, k.Rest):
		n.RestToggle()
		seq.Normalize()
	case key.Matches(msg, k.Sharp):
		n.ToggleAccidental(notation.Sharp)
	case key.Matches(msg, k.Flat):
		n.ToggleAccidental(notation.Flat)
	case key.Matches(msg, k.Natural):
		n.ToggleAccidental(notation.Natural)
	case key.Matches(msg, k.Whole):
		n.SetDuration(notation.Whole)
		seq.Normalize()
	case key.Matches(msg, k.Half):
		n.SetDuration(notation.Half)
		seq.Normalize()
	case key.Matches(msg, k.Quarter):
		n.SetDuration(notation.Quarter)
		seq.Normalize()
	case key.Matches(msg, k.Eighth):
		n.SetDuration(notation.Eighth)
		seq.Normalize()
	case key.Matches(msg, k.Sixteenth):
		n.SetDuration(notation.Sixteenth)
		seq.Normalize()
	case key.Matches(msg, k.Insert):
		nn, err := notation.NewNote(n.Name(), n.Duration().String())
		if err != nil {
			m.setError("Can't insert: %v", err)
			return m, nil
		}
		seq.Insert(i+1, nn)
		seq.Select(i + 1)
	case key.Matches(msg, k.Delete):
		if !seq.Delete(i) {
			m.setInfo("The last note can't be deleted")
			return m, nil
		}
		seq.Select(min(i, seq.Len()-1))
	default:
		return m, nil
	}
	m.edited()
	return m, nil
}

func (m Model) updateTrack(msg tea.KeyMsg, t *song.Track) (tea.Model, tea.Cmd) {
	e := &m.editor
	k := editorKeys
	var err error

	switch {
	case key.Matches(msg, k.NextTrack):
		e.track = (e.track + 1) % len(e.song.Tracks)
	case key.Matches(msg, k.PrevTrack):
		e.track = (e.track + len(e.song.Tracks) - 1) % len(e.song.Tracks)
	case key.Matches(msg, k.DeleteTrack):
		if len(e.song.Tracks) == 1 {
			m.setInfo("The last track can't be deleted")
			return m, nil
		}
		err = e.song.DeleteTrack(e.track)
	case key.Matches(msg, k.Mute):
		err = e.song.ToggleMute(e.track)
	case key.Matches(msg, k.SharpsMode):
		err = e.song.ToggleSharpsMode(e.track)
	case key.Matches(msg, k.FlatsMode):
		err = e.song.ToggleFlatsMode(e.track)
	case key.Matches(msg, k.Instrument):
		err = e.song.ChangeInstrument(e.track, song.NextInstrument(t.Instrument))
	case key.Matches(msg, k.Louder):
		err = e.song.SetVolume(e.track, float64(min(t.Volume+1, song.MaxVolume)))
	case key.Matches(msg, k.Softer):
		err = e.song.SetVolume(e.track, float64(t.Volume-1))
	}
	if err != nil {
		m.setError("Error: %v", err)
		return m, nil
	}
	m.changed()
	return m, nil
}

func (m Model) viewEditor() string {
	e := m.editor
	s := e.song
	if s == nil {
		return ""
	}

	var b strings.Builder
	title := "GENSTAFF - " + s.Name
	if s.Dirty {
		title += " *"
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	if m.mode == renameMode {
		b.WriteString("Rename: " + m.rename.View() + "\n")
	} else {
		status := fmt.Sprintf("BPM %d", s.BPM)
		if t := e.currentTrack(); t != nil {
			if i, _ := t.Notes.Selected(); i >= 0 {
				status += "  at " + notation.TransportTime(t.Notes.Onset(i)).String()
			}
		}
		if m.playing {
			status += "  " + infoStyle.Render("playing")
		}
		b.WriteString(status + "\n")
	}
	b.WriteString("\n")

	for i, t := range s.Tracks {
		b.WriteString(trackHeader(i, t, i == e.track) + "\n")
		var ds []notation.Drawable
		if i < len(e.layout) {
			ds = e.layout[i]
		}
		for _, line := range renderStaff(t, ds, e.scroll, e.visibleSlots()) {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.footer())
	k := editorKeys
	b.WriteString("\n" + helpLine(k.Left, k.Right, k.Up, k.Down, k.Whole, k.Half, k.Quarter, k.Eighth, k.Sixteenth, k.Dot, k.Rest))
	b.WriteString("\n" + helpLine(k.Sharp, k.Flat, k.Natural, k.Insert, k.Delete, k.NextTrack, k.AddTrack, k.DeleteTrack, k.Mute, k.Instrument))
	b.WriteString("\n" + helpLine(k.SharpsMode, k.FlatsMode, k.Faster, k.Louder, k.Play, k.Save, k.Rename, k.Back))
	return b.String()
}
