package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/icco/genstaff/internal/notation"
	"github.com/icco/genstaff/internal/playback"
	"github.com/icco/genstaff/internal/song"
)

var (
	playFrom  int
	playBPM   int
	playPort  string
	playQuiet bool
)

var playCmd = &cobra.Command{
	Use:   "play <song id or file>",
	Short: "Play a song",
	Long: `Play a song through the built-in synthesizer or a MIDI output port.

The song is looked up in the configured store by id, or read from a YAML or
JSON file. While it plays the notes sent to the output are shown.

Example:
  genstaff play 6f1c2a7e --port "IAC Driver Bus 1"
`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playFrom, "from", 0, "sixteenth to start playing from")
	playCmd.Flags().IntVar(&playBPM, "bpm", 0, "tempo to play at instead of the song's")
	playCmd.Flags().StringVarP(&playPort, "port", "p", "", "MIDI output port name or number (default: built-in synthesizer)")
	playCmd.Flags().BoolVarP(&playQuiet, "quiet", "q", false, "play without the note display")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := loadSong(ctx, args[0])
	if err != nil {
		return err
	}
	if playBPM > 0 {
		s.SetBPM(playBPM)
	}
	port := cfg.MIDIPort
	if cmd.Flags().Changed("port") {
		port = playPort
	}
	out, err := openOutput(port)
	if err != nil {
		return err
	}
	defer out.Close()

	if playQuiet {
		err = playback.NewPlayer(out, nil).Play(ctx, s, playFrom)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	name := "built-in synthesizer"
	if port != "" {
		name = port
	}
	m := newPlayModel(s, name)
	p := tea.NewProgram(m, tea.WithAltScreen())
	mon := &monitor{out: out, send: p.Send}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.cancel = cancel
	m.start = func() tea.Msg {
		return playDoneMsg{err: playback.NewPlayer(mon, nil).Play(ctx, s, playFrom)}
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	if pm, ok := final.(*playModel); ok && pm.err != nil && !errors.Is(pm.err, context.Canceled) {
		return pm.err
	}
	return nil
}

// monitor passes everything on to an Output and reports it to the program.
type monitor struct {
	out  playback.Output
	send func(tea.Msg)
}

func (m *monitor) NoteOn(channel, key, velocity uint8) {
	m.out.NoteOn(channel, key, velocity)
	m.send(midiEventMsg{msgType: "noteOn", channel: channel, note: key, velocity: velocity})
}

func (m *monitor) NoteOff(channel, key uint8) {
	m.out.NoteOff(channel, key)
	m.send(midiEventMsg{msgType: "noteOff", channel: channel, note: key})
}

func (m *monitor) Program(channel, program uint8) {
	m.out.Program(channel, program)
	m.send(midiEventMsg{msgType: "program", channel: channel, value: program})
}

func (m *monitor) AllNotesOff() {
	m.out.AllNotesOff()
	m.send(midiEventMsg{msgType: "allOff"})
}

const maxMessageHistory = 20

// playModel shows a song while it plays.
type playModel struct {
	song           *song.Song
	outName        string
	activeNotes    map[string]noteDisplay // channel:note -> display info
	messageHistory []string
	messageCount   int
	stopping       bool
	err            error

	start  tea.Cmd
	cancel context.CancelFunc
}

type noteDisplay struct {
	channel uint8
	note    uint8
	name    string
}

// midiEventMsg is sent for every message passed to the output.
type midiEventMsg struct {
	msgType  string
	channel  uint8
	note     uint8
	velocity uint8
	value    uint8
}

type playDoneMsg struct{ err error }

func newPlayModel(s *song.Song, outName string) *playModel {
	return &playModel{
		song:           s,
		outName:        outName,
		activeNotes:    make(map[string]noteDisplay),
		messageHistory: make([]string, 0, maxMessageHistory),
	}
}

func (m *playModel) Init() tea.Cmd {
	return m.start
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case midiEventMsg:
		m.handleMIDIEvent(msg)
		m.messageCount++
		return m, nil

	case playDoneMsg:
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// The player releases its notes and reports back before we quit.
			m.stopping = true
			if m.cancel != nil {
				m.cancel()
			}
		}
	}
	return m, nil
}

func (m *playModel) handleMIDIEvent(msg midiEventMsg) {
	key := fmt.Sprintf("%d:%d", msg.channel, msg.note)
	var message string

	switch msg.msgType {
	case "noteOn":
		name := midiNoteName(msg.note)
		m.activeNotes[key] = noteDisplay{channel: msg.channel, note: msg.note, name: name}
		message = fmt.Sprintf("Note On:  Ch%d %-4s vel:%d", msg.channel+1, name, msg.velocity)
	case "noteOff":
		delete(m.activeNotes, key)
		message = fmt.Sprintf("Note Off: Ch%d %-4s", msg.channel+1, midiNoteName(msg.note))
	case "program":
		message = fmt.Sprintf("Program:  Ch%d %d", msg.channel+1, msg.value)
	case "allOff":
		m.activeNotes = make(map[string]noteDisplay)
		message = "All Notes Off"
	}

	if message != "" {
		m.messageHistory = append([]string{message}, m.messageHistory...)
		if len(m.messageHistory) > maxMessageHistory {
			m.messageHistory = m.messageHistory[:maxMessageHistory]
		}
	}
}

var (
	playTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
	subtitleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	noteStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	playHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	logStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	logHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
)

func (m *playModel) View() string {
	var b strings.Builder

	b.WriteString(playTitleStyle.Render("GENSTAFF - "+m.song.Name) + "\n\n")
	b.WriteString(subtitleStyle.Render("Output: ") + m.outName + "\n")
	b.WriteString(subtitleStyle.Render("Tempo: ") + fmt.Sprintf("%d bpm, %d tracks", m.song.BPM, len(m.song.Tracks)) + "\n\n")

	if m.stopping {
		b.WriteString(statusStyle.Render("■ Stopping") + "\n\n")
	} else {
		b.WriteString(statusStyle.Render("● Playing") + "\n\n")
	}

	b.WriteString(subtitleStyle.Render("Active Notes:") + "\n")
	if len(m.activeNotes) == 0 {
		b.WriteString("  (no notes playing)\n")
	} else {
		notesList := make([]string, 0, len(m.activeNotes))
		for _, nd := range m.activeNotes {
			notesList = append(notesList, fmt.Sprintf("Ch%d:%s", nd.channel+1, nd.name))
		}
		b.WriteString("  " + noteStyle.Render(strings.Join(notesList, " ")) + "\n")
	}

	b.WriteString("\n" + subtitleStyle.Render(fmt.Sprintf("Message Log: [%d total]", m.messageCount)) + "\n")
	if len(m.messageHistory) == 0 {
		b.WriteString("  " + logStyle.Render("(waiting for the first note)") + "\n")
	} else {
		for i, msg := range m.messageHistory[:min(len(m.messageHistory), 10)] {
			if i == 0 {
				b.WriteString("  " + logHighlightStyle.Render("▶ "+msg) + "\n")
			} else {
				b.WriteString("  " + logStyle.Render("  "+msg) + "\n")
			}
		}
	}

	b.WriteString("\n" + renderKeyboard(m.activeNotes) + "\n")
	b.WriteString("\n" + playHelpStyle.Render("q/ctrl+c: stop"))
	return b.String()
}

// renderKeyboard draws the keys from E2 to A5 with the sounding ones lit.
func renderKeyboard(activeNotes map[string]noteDisplay) string {
	active := make(map[uint8]bool)
	for _, nd := range activeNotes {
		active[nd.note] = true
	}

	whiteStyle := lipgloss.NewStyle().Background(lipgloss.Color("#FFFFFF")).Foreground(lipgloss.Color("#000000"))
	blackStyle := lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lipgloss.Color("#FFFFFF"))
	activeWhite := lipgloss.NewStyle().Background(lipgloss.Color("#00FF00")).Foreground(lipgloss.Color("#000000"))
	activeBlack := lipgloss.NewStyle().Background(lipgloss.Color("#00AA00")).Foreground(lipgloss.Color("#FFFFFF"))

	var top, bottom strings.Builder
	low, high := notation.LowestPitch.Key(), notation.HighestPitch.Key()
	for key := low; key <= high; key++ {
		if isBlackKey(key) {
			continue
		}
		if active[key] {
			bottom.WriteString(activeWhite.Render("█"))
		} else {
			bottom.WriteString(whiteStyle.Render("█"))
		}
		bottom.WriteString(" ")

		// The black key between this white key and the next.
		if black := key + 1; black <= high && isBlackKey(black) {
			if active[black] {
				top.WriteString(" " + activeBlack.Render("█"))
			} else {
				top.WriteString(" " + blackStyle.Render("█"))
			}
		} else {
			top.WriteString("  ")
		}
	}
	return top.String() + "\n" + bottom.String()
}

func isBlackKey(key uint8) bool {
	switch key % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

func midiNoteName(note uint8) string {
	names := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	return fmt.Sprintf("%s%d", names[note%12], int(note/12)-1)
}
