package song

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const songExt = ".yaml"

// FileStore keeps one YAML file per song in a directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("error creating song directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return filepath.Join(f.dir, id+songExt), nil
}

func (f *FileStore) List(ctx context.Context) ([]Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("error reading song directory: %w", err)
	}
	list := []Summary{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), songExt) {
			continue
		}
		s, err := f.read(filepath.Join(f.dir, entry.Name()))
		if err != nil {
			slog.Warn("skipping unreadable song", "file", entry.Name(), "err", err)
			continue
		}
		list = append(list, Summary{ID: s.ID, Name: s.Name})
	}
	sortSummaries(list)
	return list, nil
}

func (f *FileStore) read(path string) (*Song, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from a validated id
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), songExt)
	}
	return s, nil
}

func (f *FileStore) write(s *Song) error {
	path, err := f.path(s.ID)
	if err != nil {
		return err
	}
	data, err := Marshal(s, YAML)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("error writing song: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("error writing song: %w", err)
	}
	return nil
}

func (f *FileStore) Load(ctx context.Context, id string) (*Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}
	s, err := f.read(path)
	if err != nil {
		return nil, fmt.Errorf("error loading song %s: %w", id, err)
	}
	return s, nil
}

func (f *FileStore) Create(ctx context.Context, s *Song) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.NewString()
	if err := f.write(s); err != nil {
		return "", err
	}
	return s.ID, nil
}

func (f *FileStore) Save(ctx context.Context, s *Song) error {
	if err := s.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path, err := f.path(s.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	return f.write(s)
}

func (f *FileStore) Rename(ctx context.Context, id, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path, err := f.path(id)
	if err != nil {
		return err
	}
	s, err := f.read(path)
	if err != nil {
		return err
	}
	s.Rename(name)
	return f.write(s)
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path, err := f.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}
