// Package audio is a small polyphonic synthesizer that plays through the
// system audio output.
package audio

import (
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 2 // stereo
	bitDepth     = 2 // 16-bit

	maxVoices = 64
)

// WaveType is an oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

// WaveForProgram picks a wave for a General MIDI program, by family.
func WaveForProgram(program uint8) WaveType {
	switch {
	case program < 16: // pianos, chromatic percussion
		return WaveSine
	case program < 24: // organs
		return WaveSquare
	case program < 32: // guitars
		return WaveSawtooth
	case program < 40: // basses
		return WaveTriangle
	case program < 56: // strings, ensembles
		return WaveSawtooth
	case program < 64: // brass
		return WaveSquare
	case program < 80: // reeds, pipes
		return WaveTriangle
	}
	return WaveSine
}

type voice struct {
	note      uint8
	channel   uint8
	velocity  uint8
	frequency float64
	phase     float64
	envelope  float64 // 0..1
	releasing bool
	active    bool
}

// Synth mixes up to maxVoices voices. Each MIDI channel has its own wave.
type Synth struct {
	mu           sync.Mutex
	otoCtx       *oto.Context
	player       *oto.Player
	voices       []*voice
	masterVolume float64
	waves        [16]WaveType
}

func newSynth() *Synth {
	return &Synth{masterVolume: 0.3}
}

// NewSynth opens the default audio device and starts streaming.
func NewSynth() (*Synth, error) {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	s := newSynth()
	s.otoCtx = otoCtx
	s.player = otoCtx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Read renders interleaved signed 16-bit stereo samples. It never fails;
// silence is rendered when nothing plays.
func (s *Synth) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(buf) / (channelCount * bitDepth)
	for i := 0; i < frames; i++ {
		v := int16(s.nextSample() * 32767)
		idx := i * channelCount * bitDepth
		buf[idx] = byte(v)
		buf[idx+1] = byte(v >> 8)
		buf[idx+2] = byte(v)
		buf[idx+3] = byte(v >> 8)
	}
	return frames * channelCount * bitDepth, nil
}

// nextSample mixes one frame and advances every voice.
func (s *Synth) nextSample() float64 {
	var sample float64
	for _, v := range s.voices {
		if !v.active {
			continue
		}
		sample += generateWave(s.waves[v.channel%16], v.phase) * float64(v.velocity) / 127 * v.envelope * 0.2

		v.phase += v.frequency / sampleRate
		if v.phase >= 1 {
			v.phase--
		}
		switch {
		case v.releasing:
			v.envelope *= 0.9995
			if v.envelope < 0.001 {
				v.active = false
			}
		case v.envelope < 1:
			v.envelope = math.Min(v.envelope+0.001, 1)
		}
	}
	return math.Max(-1, math.Min(1, sample*s.masterVolume))
}

func generateWave(w WaveType, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 0.8
		}
		return -0.8
	case WaveSawtooth:
		return 2*phase - 1
	case WaveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	}
	return math.Sin(2 * math.Pi * phase)
}

// NoteOn starts a note, reusing a finished voice or stealing the oldest one.
// Velocity 0 is a note off.
func (s *Synth) NoteOn(channel, note, velocity uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if velocity == 0 {
		s.noteOffLocked(channel, note)
		return
	}
	var v *voice
	for _, x := range s.voices {
		if !x.active {
			v = x
			break
		}
	}
	if v == nil {
		if len(s.voices) < maxVoices {
			v = &voice{}
			s.voices = append(s.voices, v)
		} else {
			v = s.voices[0]
			s.voices = append(s.voices[1:], v)
		}
	}
	*v = voice{
		note:      note,
		channel:   channel,
		velocity:  velocity,
		frequency: midiNoteToFreq(note),
		active:    true,
	}
}

func (s *Synth) NoteOff(channel, note uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteOffLocked(channel, note)
}

func (s *Synth) noteOffLocked(channel, note uint8) {
	for _, v := range s.voices {
		if v.active && v.note == note && v.channel == channel && !v.releasing {
			v.releasing = true
			return
		}
	}
}

// Program sets the wave of a channel from a General MIDI program.
func (s *Synth) Program(channel, program uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waves[channel%16] = WaveForProgram(program)
}

func (s *Synth) AllNotesOff() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voices {
		if v.active {
			v.releasing = true
		}
	}
}

// SetVolume sets the master volume, clamped to 0..1.
func (s *Synth) SetVolume(vol float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.masterVolume = math.Max(0, math.Min(1, vol))
}

// ActiveVoices is the number of voices still sounding, releases included.
func (s *Synth) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.voices {
		if v.active {
			n++
		}
	}
	return n
}

// Close stops the stream.
func (s *Synth) Close() error {
	s.AllNotesOff()
	if s.player != nil {
		s.player.Pause()
	}
	return nil
}

// midiNoteToFreq converts a MIDI note number to Hz, A4 (69) = 440.
func midiNoteToFreq(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}
