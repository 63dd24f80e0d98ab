package song

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/icco/genstaff/internal/notation"
)

// Format is a song file encoding.
type Format int

const (
	YAML Format = iota
	JSON
)

var (
	ErrUnknownFormat = errors.New("unknown format")
	ErrNoteTuple     = errors.New("invalid note tuple")
)

// ParseFormat accepts "yaml", "yml" and "json", or a file name with one of
// those extensions.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	switch s {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "yaml"
}

// document is the persisted shape of a song.
type document struct {
	ID     string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string          `json:"name" yaml:"name"`
	BPM    int             `json:"bpm" yaml:"bpm"`
	Tracks []trackDocument `json:"tracks" yaml:"tracks"`
}

type trackDocument struct {
	Name       string      `json:"name" yaml:"name"`
	Instrument string      `json:"instrument" yaml:"instrument"`
	Volume     int         `json:"volume,omitempty" yaml:"volume,omitempty"`
	Muted      bool        `json:"isMuted" yaml:"isMuted"`
	Sharps     []string    `json:"sharps" yaml:"sharps"`
	Flats      []string    `json:"flats" yaml:"flats"`
	Notes      []noteEntry `json:"notes" yaml:"notes"`
}

// noteEntry is one persisted note. It is written as an object and read
// either as an object or as a [name, duration, isNote] tuple. A missing
// isNote means a note.
type noteEntry notation.Wire

type noteObject struct {
	Name       string `json:"name" yaml:"name"`
	Duration   string `json:"duration" yaml:"duration"`
	IsNote     *bool  `json:"isNote" yaml:"isNote"`
	Accidental string `json:"accidental" yaml:"accidental"`
}

func (o noteObject) entry() noteEntry {
	return noteEntry{Name: o.Name, Duration: o.Duration, IsNote: o.IsNote == nil || *o.IsNote, Accidental: o.Accidental}
}

func tupleEntry(name, duration string, isNote *bool) noteEntry {
	return noteEntry{Name: name, Duration: duration, IsNote: isNote == nil || *isNote}
}

func (e *noteEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		if len(parts) < 2 || len(parts) > 3 {
			return fmt.Errorf("%w: note tuple has %d elements, want [name, duration] or [name, duration, isNote]", ErrNoteTuple, len(parts))
		}
		var name, duration string
		var isNote *bool
		if err := json.Unmarshal(parts[0], &name); err != nil {
			return fmt.Errorf("note name: %w", err)
		}
		if err := json.Unmarshal(parts[1], &duration); err != nil {
			return fmt.Errorf("note duration: %w", err)
		}
		if len(parts) > 2 {
			if err := json.Unmarshal(parts[2], &isNote); err != nil {
				return fmt.Errorf("note isNote: %w", err)
			}
		}
		*e = tupleEntry(name, duration, isNote)
		return nil
	}
	var o noteObject
	if err := json.Unmarshal(data, &o); err != nil {
		return err
	}
	*e = o.entry()
	return nil
}

func (e *noteEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		if len(node.Content) < 2 || len(node.Content) > 3 {
			return fmt.Errorf("line %d: %w: note tuple has %d elements, want [name, duration] or [name, duration, isNote]",
				node.Line, ErrNoteTuple, len(node.Content))
		}
		var name, duration string
		var isNote *bool
		if err := node.Content[0].Decode(&name); err != nil {
			return err
		}
		if err := node.Content[1].Decode(&duration); err != nil {
			return err
		}
		if len(node.Content) > 2 {
			if err := node.Content[2].Decode(&isNote); err != nil {
				return err
			}
		}
		*e = tupleEntry(name, duration, isNote)
		return nil
	}
	var o noteObject
	if err := node.Decode(&o); err != nil {
		return err
	}
	*e = o.entry()
	return nil
}

func toDocument(s *Song) document {
	doc := document{ID: s.ID, Name: s.Name, BPM: s.BPM, Tracks: make([]trackDocument, len(s.Tracks))}
	for i, t := range s.Tracks {
		td := trackDocument{
			Name:       t.Name,
			Instrument: t.Instrument,
			Volume:     t.Volume,
			Muted:      t.Muted,
			Sharps:     t.Sharps.Strings(),
			Flats:      t.Flats.Strings(),
		}
		for _, w := range t.Notes.Wire() {
			td.Notes = append(td.Notes, noteEntry(w))
		}
		doc.Tracks[i] = td
	}
	return doc
}

func fromDocument(doc document) (*Song, error) {
	s := &Song{ID: doc.ID, Name: doc.Name, BPM: doc.BPM}
	if s.Name == "" {
		s.Name = DefaultName
	}
	if s.BPM == 0 {
		s.BPM = DefaultBPM
	}
	for i, td := range doc.Tracks {
		t := &Track{
			Name:       td.Name,
			Instrument: td.Instrument,
			Volume:     td.Volume,
			Muted:      td.Muted,
		}
		if t.Volume == 0 {
			t.Volume = DefaultVolume
		}
		if t.Instrument == "" {
			t.Instrument = DefaultInstrument
		}
		var err error
		if t.Sharps, err = notation.ParseAccidentals(td.Sharps); err != nil {
			return nil, fmt.Errorf("track %d sharps: %w", i, err)
		}
		if t.Flats, err = notation.ParseAccidentals(td.Flats); err != nil {
			return nil, fmt.Errorf("track %d flats: %w", i, err)
		}
		ws := make([]notation.Wire, len(td.Notes))
		for j, n := range td.Notes {
			ws[j] = notation.Wire(n)
		}
		if t.Notes, err = notation.SequenceFromWire(notation.DefaultBarCapacity, ws); err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		if t.Notes.Len() == 0 {
			t.Notes.Normalize()
		}
		s.Tracks = append(s.Tracks, t)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Marshal encodes the song in the given format.
func Marshal(s *Song, f Format) ([]byte, error) {
	doc := toDocument(s)
	if f == JSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	return yaml.Marshal(doc)
}

// Unmarshal decodes a song, trying JSON first and YAML second.
func Unmarshal(data []byte) (*Song, error) {
	var doc document
	if errJSON := json.Unmarshal(data, &doc); errJSON != nil {
		doc = document{}
		if errYAML := yaml.Unmarshal(data, &doc); errYAML != nil {
			return nil, fmt.Errorf("%w: %v / %v", ErrInvalidSong, errJSON, errYAML)
		}
	}
	return fromDocument(doc)
}

// Clone returns a deep copy of the song through its document form. Editing
// modes are not copied.
func (s *Song) Clone() (*Song, error) {
	c, err := fromDocument(toDocument(s))
	if err != nil {
		return nil, err
	}
	c.Dirty = s.Dirty
	return c, nil
}
