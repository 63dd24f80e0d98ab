// Package song holds a composition: a tempo and a list of tracks, each one a
// notation.Sequence plus the per-track settings the editor exposes.
package song

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/icco/genstaff/internal/notation"
)

const (
	MinBPM     = 25
	MaxBPM     = 200
	DefaultBPM = 120

	MinVolume     = 1
	MaxVolume     = 10
	DefaultVolume = 7

	DefaultName = "default"
)

var (
	ErrNotFound          = errors.New("song not found")
	ErrNoSuchTrack       = errors.New("no such track")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrInvalidSong       = errors.New("invalid song")
)

// Song is a composition. Dirty is set by every mutation and cleared by
// MarkClean once the song has been persisted.
type Song struct {
	ID     string
	Name   string
	BPM    int
	Tracks []*Track
	Dirty  bool
}

// Track is one staff of the composition.
type Track struct {
	Name       string
	Instrument string
	Volume     int
	Muted      bool

	// SharpsMode and FlatsMode make the next click in the key signature area
	// toggle a sharp or flat for the pitch under the pointer.
	SharpsMode bool
	FlatsMode  bool
	Sharps     notation.Accidentals
	Flats      notation.Accidentals

	Notes *notation.Sequence
}

// New returns an empty song at the default tempo.
func New(name string) *Song {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	return &Song{Name: name, BPM: DefaultBPM}
}

// Track returns the i-th track.
func (s *Song) Track(i int) (*Track, error) {
	if i < 0 || i >= len(s.Tracks) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchTrack, i)
	}
	return s.Tracks[i], nil
}

// update runs fn on the i-th track and marks the song dirty if fn reports a
// change.
func (s *Song) update(i int, fn func(t *Track) bool) error {
	t, err := s.Track(i)
	if err != nil {
		return err
	}
	if fn(t) {
		s.Dirty = true
	}
	return nil
}

// AddTrack appends a piano track holding a single middle C, padded to one
// bar.
func (s *Song) AddTrack() *Track {
	notes := notation.NewSequence(notation.DefaultBarCapacity, notation.MustNote(notation.MiddleC.String()))
	notes.Normalize()
	t := &Track{
		Name:       fmt.Sprintf("track%d", len(s.Tracks)+1),
		Instrument: DefaultInstrument,
		Volume:     DefaultVolume,
		Notes:      notes,
	}
	s.Tracks = append(s.Tracks, t)
	s.Dirty = true
	return t
}

func (s *Song) DeleteTrack(i int) error {
	if _, err := s.Track(i); err != nil {
		return err
	}
	s.Tracks = append(s.Tracks[:i], s.Tracks[i+1:]...)
	s.Dirty = true
	return nil
}

// NormalizeVolume maps a raw slider value to 1..10. Values above 10 are
// taken to be on a 0..100 scale.
func NormalizeVolume(raw float64) int {
	v := int(math.Round(raw))
	if v > MaxVolume {
		v /= 10
	}
	return min(max(v, MinVolume), MaxVolume)
}

func (s *Song) SetVolume(i int, raw float64) error {
	return s.update(i, func(t *Track) bool {
		v := NormalizeVolume(raw)
		if v == t.Volume {
			return false
		}
		t.Volume = v
		return true
	})
}

func (s *Song) ToggleMute(i int) error {
	return s.update(i, func(t *Track) bool {
		t.Muted = !t.Muted
		return true
	})
}

func (s *Song) ToggleSharpsMode(i int) error {
	return s.update(i, func(t *Track) bool {
		t.SharpsMode = !t.SharpsMode
		return true
	})
}

func (s *Song) ToggleFlatsMode(i int) error {
	return s.update(i, func(t *Track) bool {
		t.FlatsMode = !t.FlatsMode
		return true
	})
}

// AddSharp leaves sharps mode and toggles l in the track's sharps.
func (s *Song) AddSharp(i int, l notation.Letter) error {
	return s.update(i, func(t *Track) bool {
		t.SharpsMode = false
		t.Sharps, t.Flats = notation.ToggleSharp(t.Sharps, t.Flats, l)
		return true
	})
}

// AddFlat leaves flats mode and toggles l in the track's flats.
func (s *Song) AddFlat(i int, l notation.Letter) error {
	return s.update(i, func(t *Track) bool {
		t.FlatsMode = false
		t.Sharps, t.Flats = notation.ToggleFlat(t.Sharps, t.Flats, l)
		return true
	})
}

func (s *Song) ChangeInstrument(i int, name string) error {
	if _, ok := LookupInstrument(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstrument, name)
	}
	return s.update(i, func(t *Track) bool {
		if t.Instrument == name {
			return false
		}
		t.Instrument = name
		return true
	})
}

// SetBPM sets the tempo, clamped to MinBPM..MaxBPM.
func (s *Song) SetBPM(bpm int) {
	bpm = min(max(bpm, MinBPM), MaxBPM)
	if bpm != s.BPM {
		s.BPM = bpm
		s.Dirty = true
	}
}

// Rename sets the song name. Surrounding space is dropped; an empty name is
// ignored.
func (s *Song) Rename(name string) {
	name = strings.TrimSpace(name)
	if name == "" || name == s.Name {
		return
	}
	s.Name = name
	s.Dirty = true
}

// Touch marks the song as changed after an edit made directly on a track's
// notes.
func (s *Song) Touch() { s.Dirty = true }

func (s *Song) MarkClean() { s.Dirty = false }

func (s *Song) sequences() []*notation.Sequence {
	seqs := make([]*notation.Sequence, len(s.Tracks))
	for i, t := range s.Tracks {
		seqs[i] = t.Notes
	}
	return seqs
}

// Layout segments and aligns every track. The result has one list of
// drawables per track, in track order.
func (s *Song) Layout() [][]notation.Drawable {
	return notation.Layout(s.sequences())
}

// HasTrebleNotes reports whether the track sounds anything at or above
// middle C.
func (s *Song) HasTrebleNotes(i int) bool {
	return s.hasNotes(i, func(p notation.Pitch) bool { return p.IsHigherOrEqual(notation.MiddleC) })
}

// HasBassNotes reports whether the track sounds anything below middle C.
func (s *Song) HasBassNotes(i int) bool {
	return s.hasNotes(i, func(p notation.Pitch) bool { return !p.IsHigherOrEqual(notation.MiddleC) })
}

func (s *Song) hasNotes(i int, match func(notation.Pitch) bool) bool {
	t, err := s.Track(i)
	if err != nil {
		return false
	}
	for _, n := range t.Notes.Notes() {
		if !n.IsRest() && match(n.Pitch()) {
			return true
		}
	}
	return false
}

// Validate checks what a decoded or remotely supplied song must satisfy.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSong)
	}
	if s.BPM < MinBPM || s.BPM > MaxBPM {
		return fmt.Errorf("%w: bpm %d out of range", ErrInvalidSong, s.BPM)
	}
	for i, t := range s.Tracks {
		if _, ok := LookupInstrument(t.Instrument); !ok {
			return fmt.Errorf("%w: track %d: %w", ErrInvalidSong, i, ErrUnknownInstrument)
		}
		if t.Volume < MinVolume || t.Volume > MaxVolume {
			return fmt.Errorf("%w: track %d: volume %d out of range", ErrInvalidSong, i, t.Volume)
		}
		if t.Notes == nil || t.Notes.Len() == 0 {
			return fmt.Errorf("%w: track %d has no notes", ErrInvalidSong, i)
		}
		for _, l := range t.Sharps {
			if t.Flats.Contains(l) {
				return fmt.Errorf("%w: track %d: %v is both sharp and flat", ErrInvalidSong, i, l)
			}
		}
	}
	return nil
}
