package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/icco/genstaff/internal/song"
)

// loadSong reads ref as a song file if one exists at that path, otherwise it
// loads the song with that id from the configured store.
func loadSong(ctx context.Context, ref string) (*song.Song, error) {
	if data, err := os.ReadFile(ref); err == nil { //nolint:gosec // user supplied path
		s, err := song.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ref, err)
		}
		return s, nil
	}
	store, err := cfg.Store()
	if err != nil {
		return nil, err
	}
	return store.Load(ctx, ref)
}
