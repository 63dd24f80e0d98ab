package song

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Summary identifies a stored song. It is encoded as an [id, name] pair.
type Summary struct {
	ID   string
	Name string
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{s.ID, s.Name})
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("song summary: %w", err)
	}
	s.ID, s.Name = pair[0], pair[1]
	return nil
}

// Store persists songs. Implementations are safe for concurrent use.
type Store interface {
	// List returns every stored song, sorted by name.
	List(ctx context.Context) ([]Summary, error)
	Load(ctx context.Context, id string) (*Song, error)
	// Create stores a new song and returns the id it was given.
	Create(ctx context.Context, s *Song) (string, error)
	// Save overwrites the stored song with the same ID.
	Save(ctx context.Context, s *Song) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

func sortSummaries(list []Summary) {
	slices.SortFunc(list, func(a, b Summary) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
