package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icco/genstaff/internal/playback"
	"github.com/icco/genstaff/internal/song"
)

var exportCmd = &cobra.Command{
	Use:   "export <song id or file> <output file>",
	Short: "Export a song",
	Long: `Export a song as a Standard MIDI File (.mid, .midi) or as a YAML or JSON
song file (.yaml, .yml, .json), chosen by the output file's extension.

Example:
  genstaff export 6f1c2a7e melody.mid
`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := loadSong(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	data, err := encodeSong(s, args[1])
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], data, 0o644); err != nil { //nolint:gosec // exported files are meant to be shared
		return fmt.Errorf("failed to write %s: %w", args[1], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s\n", s.Name, args[1])
	return nil
}

// encodeSong encodes s in the format named by the extension of path.
func encodeSong(s *song.Song, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		var buf bytes.Buffer
		if err := playback.WriteSMF(s, &buf); err != nil {
			return nil, fmt.Errorf("failed to write MIDI file: %w", err)
		}
		return buf.Bytes(), nil
	}
	f, err := song.ParseFormat(path)
	if err != nil {
		return nil, err
	}
	return song.Marshal(s, f)
}
