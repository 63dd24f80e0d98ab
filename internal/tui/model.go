// Package tui is the terminal editor: a song browser backed by a song.Store
// and a staff editor that draws every track of the open song.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/icco/genstaff/internal/playback"
	"github.com/icco/genstaff/internal/song"
)

const storeTimeout = 10 * time.Second

type viewMode int

const (
	browserMode viewMode = iota
	editorMode
	renameMode
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAFF"))
)

// Options configure a Model.
type Options struct {
	Store song.Store
	// Output sounds playback; nil disables it.
	Output playback.Output
	// AutosaveDelay is the quiet time after the last edit before the song is
	// saved; zero disables autosave.
	AutosaveDelay time.Duration
	// BPM is the tempo of new songs.
	BPM int
	Log *slog.Logger
}

type (
	listedMsg struct {
		songs []song.Summary
		err   error
	}
	openedMsg struct {
		song *song.Song
		err  error
	}
	savedMsg struct {
		id       string
		revision int
		err      error
	}
	deletedMsg  struct{ err error }
	renamedMsg  struct{ err error }
	playDoneMsg struct{ err error }
	autosaveMsg struct{}
)

// Model is the bubbletea model of the editor.
type Model struct {
	opts    Options
	log     *slog.Logger
	mode    viewMode
	browser browserModel
	editor  editorModel
	rename  textinput.Model
	width   int
	height  int
	message string
	failed  bool

	player   *playback.Player
	playing  bool
	stopPlay context.CancelFunc

	autosave  chan struct{}
	debounced func(func())
}

// New builds the model. The store is listed when the program starts.
func New(opts Options) Model {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.BPM == 0 {
		opts.BPM = song.DefaultBPM
	}
	ti := textinput.New()
	ti.Placeholder = "song name"
	ti.CharLimit = 64
	ti.Width = 40

	m := Model{
		opts:     opts,
		log:      opts.Log,
		mode:     browserMode,
		rename:   ti,
		autosave: make(chan struct{}, 1),
	}
	if opts.Output != nil {
		m.player = playback.NewPlayer(opts.Output, opts.Log)
	}
	if opts.AutosaveDelay > 0 {
		m.debounced = debounce.New(opts.AutosaveDelay)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listCmd(), waitForAutosave(m.autosave))
}

// waitForAutosave turns the next debounced autosave into a message.
func waitForAutosave(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return autosaveMsg{}
	}
}

// scheduleAutosave restarts the autosave timer.
func (m Model) scheduleAutosave() {
	if m.debounced == nil {
		return
	}
	ch := m.autosave
	m.debounced(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
}

func (m Model) storeCmd(fn func(ctx context.Context, st song.Store) tea.Msg) tea.Cmd {
	st := m.opts.Store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return fn(ctx, st)
	}
}

func (m Model) listCmd() tea.Cmd {
	return m.storeCmd(func(ctx context.Context, st song.Store) tea.Msg {
		list, err := st.List(ctx)
		return listedMsg{songs: list, err: err}
	})
}

func (m Model) openCmd(id string) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, st song.Store) tea.Msg {
		s, err := st.Load(ctx, id)
		return openedMsg{song: s, err: err}
	})
}

func (m Model) createCmd() tea.Cmd {
	bpm := m.opts.BPM
	return m.storeCmd(func(ctx context.Context, st song.Store) tea.Msg {
		s := song.New("")
		s.SetBPM(bpm)
		s.AddTrack()
		if _, err := st.Create(ctx, s); err != nil {
			return openedMsg{err: err}
		}
		s.MarkClean()
		return openedMsg{song: s}
	})
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, st song.Store) tea.Msg {
		return deletedMsg{err: st.Delete(ctx, id)}
	})
}

func (m Model) renameCmd(id, name string) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, st song.Store) tea.Msg {
		return renamedMsg{err: st.Rename(ctx, id, name)}
	})
}

// saveCmd saves a snapshot of the open song, so editing can go on while the
// store works.
func (m Model) saveCmd() tea.Cmd {
	s := m.editor.song
	if s == nil {
		return nil
	}
	snapshot, err := s.Clone()
	if err != nil {
		return func() tea.Msg { return savedMsg{id: s.ID, err: err} }
	}
	rev := m.editor.revision
	return m.storeCmd(func(ctx context.Context, st song.Store) tea.Msg {
		return savedMsg{id: snapshot.ID, revision: rev, err: st.Save(ctx, snapshot)}
	})
}

func (m *Model) setError(format string, err error) {
	m.message = fmt.Sprintf(format, err)
	m.failed = true
	m.log.Error(m.message)
}

func (m *Model) setInfo(format string, args ...any) {
	m.message = fmt.Sprintf(format, args...)
	m.failed = false
}

func (m *Model) startPlayback() tea.Cmd {
	if m.player == nil {
		m.setInfo("No audio output")
		return nil
	}
	snapshot, err := m.editor.song.Clone()
	if err != nil {
		m.setError("Can't play: %v", err)
		return nil
	}
	from := 0
	if t := m.editor.currentTrack(); t != nil {
		if i, _ := t.Notes.Selected(); i > 0 {
			from = t.Notes.Onset(i)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.stopPlay = cancel
	m.playing = true
	m.setInfo("Playing")
	player := m.player
	return func() tea.Msg {
		return playDoneMsg{err: player.Play(ctx, snapshot, from)}
	}
}

func (m *Model) stopPlayback() {
	if m.stopPlay != nil {
		m.stopPlay()
		m.stopPlay = nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.width = msg.Width
		m.editor.relayout()
		return m, nil

	case listedMsg:
		if msg.err != nil {
			m.setError("Error listing songs: %v", msg.err)
			return m, nil
		}
		m.browser.setSongs(msg.songs)
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.setError("Error opening song: %v", msg.err)
			return m, nil
		}
		m.editor = newEditor(msg.song, m.width)
		m.mode = editorMode
		m.setInfo("Opened %s", msg.song.Name)
		m.log.Debug("opened song", "id", msg.song.ID, "tracks", len(msg.song.Tracks))
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError("Error saving: %v", msg.err)
			return m, nil
		}
		if s := m.editor.song; s != nil && s.ID == msg.id && m.editor.revision == msg.revision {
			s.MarkClean()
		}
		m.setInfo("Saved")
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.setError("Error deleting: %v", msg.err)
		} else {
			m.setInfo("Deleted")
		}
		return m, m.listCmd()

	case renamedMsg:
		if msg.err != nil {
			m.setError("Error renaming: %v", msg.err)
		}
		return m, nil

	case playDoneMsg:
		m.playing = false
		m.stopPlay = nil
		switch {
		case msg.err == nil:
			m.setInfo("Stopped")
		case errors.Is(msg.err, context.Canceled):
			m.setInfo("Stopped")
		default:
			m.setError("Playback failed: %v", msg.err)
		}
		return m, nil

	case autosaveMsg:
		cmds := []tea.Cmd{waitForAutosave(m.autosave)}
		if m.mode != browserMode && m.editor.song != nil && m.editor.song.Dirty {
			cmds = append(cmds, m.saveCmd())
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if m.mode == editorMode {
			return m.updateMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopPlayback()
			return m, tea.Quit
		}
		switch m.mode {
		case browserMode:
			return m.updateBrowser(msg)
		case editorMode:
			return m.updateEditor(msg)
		case renameMode:
			return m.updateRename(msg)
		}
	}

	if m.mode == renameMode {
		var cmd tea.Cmd
		m.rename, cmd = m.rename.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = editorMode
		m.rename.Blur()
		s := m.editor.song
		before := s.Name
		s.Rename(m.rename.Value())
		if s.Name == before {
			return m, nil
		}
		m.editor.revision++
		m.setInfo("Renamed to %s", s.Name)
		return m, m.renameCmd(s.ID, s.Name)
	case "esc":
		m.mode = editorMode
		m.rename.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	switch m.mode {
	case browserMode:
		return m.viewBrowser()
	case editorMode, renameMode:
		return m.viewEditor()
	default:
		return "Unknown mode"
	}
}

func (m Model) footer() string {
	if m.message == "" {
		return "\n"
	}
	if m.failed {
		return errorStyle.Render(m.message) + "\n"
	}
	return infoStyle.Render(m.message) + "\n"
}
