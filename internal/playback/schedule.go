// Package playback turns a song into timed note on/off messages and sends
// them to a synthesizer or a MIDI port, or writes them to a Standard MIDI
// File.
package playback

import (
	"cmp"
	"time"

	"golang.org/x/exp/slices"

	"github.com/icco/genstaff/internal/notation"
	"github.com/icco/genstaff/internal/song"
)

// PPQ is the MIDI resolution, ticks per quarter note.
const PPQ = 960

const drumChannel = 9

// Cue is one note with absolute on and off offsets from the start of
// playback.
type Cue struct {
	Track    int
	Name     string
	Channel  uint8
	Key      uint8
	Velocity uint8
	On       time.Duration
	Off      time.Duration

	// OnTick and OffTick are the same offsets in ticks at PPQ.
	OnTick  uint32
	OffTick uint32
}

// Velocity maps a track volume (1..10) to a MIDI velocity.
func Velocity(volume int) uint8 {
	v := min(max(volume, 0), song.MaxVolume)
	return uint8(v * 127 / song.MaxVolume) //nolint:gosec // clamped above
}

// Channel is the MIDI channel of the i-th track. The General MIDI drum
// channel is skipped.
func Channel(track int) uint8 {
	ch := track % 15
	if ch >= drumChannel {
		ch++
	}
	return uint8(ch) //nolint:gosec // always < 16
}

// Schedule lists the cues of every unmuted track at the given tempo, ordered
// by onset. Notes starting before from (in sixteenths) are dropped and the
// rest shifted so that from is time zero.
func Schedule(s *song.Song, bpm, from int) []Cue {
	var cues []Cue
	for i, events := range s.AllEvents() {
		vel := Velocity(s.Tracks[i].Volume)
		for _, e := range events {
			on := e.Time.InSixteenths()
			if on < from {
				continue
			}
			on -= from
			off := on + e.Sixteenths()
			cues = append(cues, Cue{
				Track:    i,
				Name:     e.Name,
				Channel:  Channel(i),
				Key:      e.Key(),
				Velocity: vel,
				On:       notation.TransportTime(on).Offset(bpm),
				Off:      notation.TransportTime(off).Offset(bpm),
				OnTick:   notation.TransportTime(on).Ticks(PPQ),
				OffTick:  notation.TransportTime(off).Ticks(PPQ),
			})
		}
	}
	slices.SortStableFunc(cues, func(a, b Cue) int {
		if a.On != b.On {
			return cmp.Compare(a.On, b.On)
		}
		return cmp.Compare(a.Track, b.Track)
	})
	return cues
}

// message is a single on or off derived from a cue.
type message struct {
	at   time.Duration
	tick uint32
	on   bool
	cue  Cue
}

// messages flattens cues into time-ordered on/off messages. At equal times
// offs come first so a repeated key is released before it sounds again.
func messages(cues []Cue) []message {
	ms := make([]message, 0, 2*len(cues))
	for _, c := range cues {
		ms = append(ms, message{at: c.On, tick: c.OnTick, on: true, cue: c}, message{at: c.Off, tick: c.OffTick, cue: c})
	}
	slices.SortStableFunc(ms, func(a, b message) int {
		if a.tick != b.tick {
			return cmp.Compare(a.tick, b.tick)
		}
		switch {
		case !a.on && b.on:
			return -1
		case a.on && !b.on:
			return 1
		}
		return 0
	})
	return ms
}
