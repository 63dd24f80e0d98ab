package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/icco/genstaff/internal/config"
)

var (
	configPath string
	verbose    bool
	storeDir   string
	serverURL  string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "genstaff",
	Short: "A TUI staff notation editor",
	Long: `genstaff is a Terminal User Interface (TUI) staff notation editor built with Bubbletea.

Songs are written as notes on a grand staff, one staff per track. They can be
played through the built-in synthesizer or a MIDI port, exported as Standard
MIDI Files, and shared through a small HTTP song server.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default ~/.genstaff.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	flags.StringVar(&storeDir, "store-dir", "", "directory songs are stored in")
	flags.StringVar(&serverURL, "server", "", "song server URL to use instead of local files")
}

// loadConfig reads the config and applies the flags that were set on top.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("store-dir") {
		cfg.StoreDir = storeDir
	}
	if flags.Changed("server") {
		cfg.ServerURL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.SetDefault(newLogger(os.Stderr))
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
