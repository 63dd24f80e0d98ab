package playback

import (
	"context"
	"log/slog"
	"time"

	"github.com/icco/genstaff/internal/song"
)

// Output is anything that can sound notes: the built-in synthesizer or a
// MIDI port.
type Output interface {
	NoteOn(channel, key, velocity uint8)
	NoteOff(channel, key uint8)
	Program(channel, program uint8)
	AllNotesOff()
}

// Player plays songs on an Output. One Player plays one song at a time.
type Player struct {
	out   Output
	log   *slog.Logger
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPlayer(out Output, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{out: out, log: log, now: time.Now, sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Play sounds the song from the given sixteenth at the song's tempo and
// returns when it ends or ctx is cancelled. On cancellation every sounding
// note is released and ctx's error is returned.
func (p *Player) Play(ctx context.Context, s *song.Song, from int) error {
	for i, t := range s.Tracks {
		if in, ok := song.LookupInstrument(t.Instrument); ok {
			p.out.Program(Channel(i), in.Program)
		}
	}
	cues := Schedule(s, s.BPM, from)
	p.log.Debug("playing", "song", s.Name, "bpm", s.BPM, "cues", len(cues), "from", from)

	// Waits are measured from start, not from the previous message.
	start := p.now()
	for _, m := range messages(cues) {
		if err := p.sleep(ctx, start.Add(m.at).Sub(p.now())); err != nil {
			p.out.AllNotesOff()
			return err
		}
		if m.on {
			p.out.NoteOn(m.cue.Channel, m.cue.Key, m.cue.Velocity)
		} else {
			p.out.NoteOff(m.cue.Channel, m.cue.Key)
		}
	}
	return nil
}
