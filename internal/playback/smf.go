package playback

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/icco/genstaff/internal/notation"
	"github.com/icco/genstaff/internal/song"
)

// WriteSMF writes the song as a type 1 Standard MIDI File: a tempo track
// followed by one track per unmuted song track.
func WriteSMF(s *song.Song, w io.Writer) error {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(PPQ)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(float64(s.BPM)))
	tempo.Close(0)
	if err := sm.Add(tempo); err != nil {
		return fmt.Errorf("error adding tempo track: %w", err)
	}

	byTrack := make(map[int][]Cue)
	for _, c := range Schedule(s, s.BPM, 0) {
		byTrack[c.Track] = append(byTrack[c.Track], c)
	}

	for i, t := range s.Tracks {
		if t.Muted {
			continue
		}
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(t.Name))
		if in, ok := song.LookupInstrument(t.Instrument); ok {
			track.Add(0, midi.ProgramChange(Channel(i), in.Program))
		}
		var last uint32
		for _, m := range messages(byTrack[i]) {
			if m.on {
				track.Add(m.tick-last, midi.NoteOn(m.cue.Channel, m.cue.Key, m.cue.Velocity))
			} else {
				track.Add(m.tick-last, midi.NoteOff(m.cue.Channel, m.cue.Key))
			}
			last = m.tick
		}
		end := notation.TransportTime(t.Notes.TotalSixteenths()).Ticks(PPQ)
		if end < last {
			end = last
		}
		track.Close(end - last)
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("error adding track %d: %w", i, err)
		}
	}

	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}
