// Package config loads the genstaff settings: defaults, then a YAML file,
// then GENSTAFF_* environment variables. Command line flags are applied on
// top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/icco/genstaff/internal/client"
	"github.com/icco/genstaff/internal/song"
)

const (
	envPrefix       = "GENSTAFF_"
	defaultFileName = ".genstaff.yaml"
)

// Config holds every setting. A non-empty ServerURL selects the HTTP store,
// otherwise a non-empty DynamoTable selects DynamoDB, otherwise songs live in
// StoreDir.
type Config struct {
	StoreDir      string        `yaml:"storeDir"`
	ServerURL     string        `yaml:"serverURL,omitempty"`
	Listen        string        `yaml:"listen"`
	BPM           int           `yaml:"bpm"`
	AutosaveDelay time.Duration `yaml:"autosaveDelay"`
	MIDIPort      string        `yaml:"midiPort,omitempty"`
	DynamoTable   string        `yaml:"dynamoTable,omitempty"`
	DynamoURL     string        `yaml:"dynamoURL,omitempty"`
	AWSRegion     string        `yaml:"awsRegion,omitempty"`
	AllowOrigins  []string      `yaml:"allowOrigins,omitempty"`
	Verbose       bool          `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	dir := "songs"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".genstaff", "songs")
	}
	return Config{
		StoreDir:      dir,
		Listen:        "localhost:8000",
		BPM:           song.DefaultBPM,
		AutosaveDelay: 2 * time.Second,
		AWSRegion:     "us-east-1",
		AllowOrigins:  []string{"*"},
	}
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultFileName
	}
	return filepath.Join(home, defaultFileName)
}

// Load reads the config file at path over the defaults and applies the
// environment. A missing file is not an error unless path was given
// explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path) //nolint:gosec // user supplied config path
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return cfg, fmt.Errorf("error reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"STORE_DIR":    &c.StoreDir,
		"SERVER_URL":   &c.ServerURL,
		"LISTEN":       &c.Listen,
		"MIDI_PORT":    &c.MIDIPort,
		"DYNAMO_TABLE": &c.DynamoTable,
		"DYNAMO_URL":   &c.DynamoURL,
		"AWS_REGION":   &c.AWSRegion,
	}
	for k, p := range strs {
		if v, ok := lookup(envPrefix + k); ok {
			*p = v
		}
	}
	if v, ok := lookup(envPrefix + "ALLOW_ORIGINS"); ok {
		c.AllowOrigins = strings.Split(v, ",")
	}
	if v, ok := lookup(envPrefix + "BPM"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sBPM %q: %w", envPrefix, v, err)
		}
		c.BPM = n
	}
	if v, ok := lookup(envPrefix + "AUTOSAVE_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sAUTOSAVE_DELAY %q: %w", envPrefix, v, err)
		}
		c.AutosaveDelay = d
	}
	if v, ok := lookup(envPrefix + "VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sVERBOSE %q: %w", envPrefix, v, err)
		}
		c.Verbose = b
	}
	return nil
}

// Validate checks ranges. An autosave delay of zero disables autosave.
func (c Config) Validate() error {
	if c.BPM < song.MinBPM || c.BPM > song.MaxBPM {
		return fmt.Errorf("bpm %d out of range %d-%d", c.BPM, song.MinBPM, song.MaxBPM)
	}
	if c.AutosaveDelay < 0 {
		return fmt.Errorf("negative autosave delay %s", c.AutosaveDelay)
	}
	if c.ServerURL == "" && c.DynamoTable == "" && c.StoreDir == "" {
		return errors.New("no song store configured")
	}
	return nil
}

// Store opens the song store the config selects.
func (c Config) Store() (song.Store, error) {
	switch {
	case c.ServerURL != "":
		return client.New(c.ServerURL), nil
	case c.DynamoTable != "":
		db, err := song.NewDynamoStore(c.DynamoTable, c.AWSRegion, c.DynamoURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	files, err := song.NewFileStore(c.StoreDir)
	if err != nil {
		return nil, err
	}
	return files, nil
}
