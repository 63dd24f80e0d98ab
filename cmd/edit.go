package cmd

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/icco/genstaff/internal/audio"
	"github.com/icco/genstaff/internal/playback"
	"github.com/icco/genstaff/internal/tui"
)

var (
	logFile    string
	noAutosave bool
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Start the staff editor",
	Long: `Start the staff editor with an interactive TUI interface.

The editor opens on a list of the stored songs. Notes are edited with the
keyboard or by clicking on the staff, and changes are saved automatically
after a short pause.`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&logFile, "log", "genstaff.log", "file the editor logs to")
	editCmd.Flags().BoolVar(&noAutosave, "no-autosave", false, "only save on ctrl+s or when leaving a song")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	f, err := tea.LogToFile(logFile, "genstaff")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	log := newLogger(f)
	slog.SetDefault(log)

	store, err := cfg.Store()
	if err != nil {
		return err
	}

	opts := tui.Options{
		Store:         store,
		AutosaveDelay: cfg.AutosaveDelay,
		BPM:           cfg.BPM,
		Log:           log,
	}
	if noAutosave {
		opts.AutosaveDelay = 0
	}
	out, err := openOutput(cfg.MIDIPort)
	if err != nil {
		log.Warn("playback disabled", "err", err)
	} else {
		defer out.Close()
		opts.Output = out
	}

	p := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// output is a playback output that holds a device open.
type output interface {
	playback.Output
	Close() error
}

// openOutput opens the named MIDI port, or the built-in synthesizer when
// port is empty.
func openOutput(port string) (output, error) {
	if port != "" {
		out, err := playback.OpenMIDIOut(port)
		if err != nil {
			return nil, err
		}
		slog.Debug("opened MIDI output", "port", out.String())
		return out, nil
	}
	synth, err := audio.NewSynth()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}
	return synth, nil
}
