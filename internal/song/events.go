package song

import "github.com/icco/genstaff/internal/notation"

// Event is one sounding note ready for playback. Name is the resolved name,
// with the track's key signature and the note's own accidental applied.
type Event struct {
	Name     string
	Pitch    notation.Pitch
	Duration notation.Duration
	Time     notation.Transport
}

// Key is the MIDI key number of the event.
func (e Event) Key() uint8 { return e.Pitch.Key() }

// Sixteenths is the event's length.
func (e Event) Sixteenths() int { return e.Duration.Sixteenths() }

// Events lists the sounding notes of a track in order. Rests are skipped and
// split notes play once for their full duration.
func (s *Song) Events(i int) ([]Event, error) {
	t, err := s.Track(i)
	if err != nil {
		return nil, err
	}
	return t.Events(), nil
}

func (t *Track) Events() []Event {
	var ret []Event
	onset := 0
	for _, n := range t.Notes.Notes() {
		if !n.IsRest() {
			p := notation.ResolvePitch(n.Pitch(), n.Accidental(), t.Sharps, t.Flats)
			ret = append(ret, Event{
				Name:     p.String(),
				Pitch:    p,
				Duration: n.Duration(),
				Time:     notation.TransportTime(onset),
			})
		}
		onset += n.Sixteenths()
	}
	return ret
}

// AllEvents returns the events of every track, indexed like Tracks. Muted
// tracks get no events.
func (s *Song) AllEvents() [][]Event {
	ret := make([][]Event, len(s.Tracks))
	for i, t := range s.Tracks {
		if !t.Muted {
			ret[i] = t.Events()
		}
	}
	return ret
}

// Length is the duration of the longest track, in sixteenths.
func (s *Song) Length() int {
	longest := 0
	for _, t := range s.Tracks {
		longest = max(longest, t.Notes.TotalSixteenths())
	}
	return longest
}
