package notation

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(t *testing.T, capacity int, notes ...string) *Sequence {
	t.Helper()
	var ns []*Note
	for i := 0; i < len(notes); i += 2 {
		n, err := NewNote(notes[i], notes[i+1])
		require.NoError(t, err)
		ns = append(ns, n)
	}
	return NewSequence(capacity, ns...)
}

func barSixteenths(bars []*Bar) []int {
	var ret []int
	for _, b := range bars {
		ret = append(ret, b.Sixteenths())
	}
	return ret
}

func TestBarsExactFit(t *testing.T) {
	s := seq(t, 16, "C4", "4n", "D4", "4n", "E4", "2n", "F4", "1n")
	bars := s.Bars()
	require.Len(t, bars, 2)
	assert.Equal(t, []int{16, 16}, barSixteenths(bars))
	for _, n := range s.Notes() {
		assert.False(t, n.IsRepresentedAsTie())
	}
}

func TestBarsSplitHalfNote(t *testing.T) {
	s := seq(t, 16, "C4", "2n.", "G4", "2n")
	bars := s.Bars()
	require.Len(t, bars, 2)

	half := s.Note(1)
	require.True(t, half.IsRepresentedAsTie())
	require.Len(t, half.StartTies(), 1)
	require.Len(t, half.EndTies(), 1)

	total := 0
	for _, tie := range append(half.StartTies(), half.EndTies()...) {
		total += tie.Sixteenths()
		assert.Equal(t, half.Pitch(), tie.Pitch())
		assert.Equal(t, 1, tie.NoteIndex())
	}
	assert.Equal(t, 8, total)
	assert.Equal(t, []Item{s.Note(0), half.StartTies()[0]}, bars[0].Items())
	assert.Equal(t, []Item{half.EndTies()[0]}, bars[1].Items())
}

func TestBarsSplitIntoUnrepresentableRemainder(t *testing.T) {
	// 11 sixteenths leave 5 in the bar: quarter + sixteenth tied, then 3 more.
	s := seq(t, 16, "C4", "2n", "D4", "8n.", "E4", "2n")
	bars := s.Bars()
	n := s.Note(2)
	require.Len(t, n.StartTies(), 2)
	assert.Equal(t, Quarter, n.StartTies()[0].Duration())
	assert.Equal(t, Sixteenth, n.StartTies()[1].Duration())
	require.Len(t, n.EndTies(), 1)
	assert.Equal(t, MustDuration("8n."), n.EndTies()[0].Duration())
	assert.Equal(t, []int{16, 3}, barSixteenths(bars))
}

func TestBarsMultiBarTie(t *testing.T) {
	s := seq(t, 4, "C4", "8n", "D4", "1n")
	bars := s.Bars()
	assert.Equal(t, []int{4, 4, 4, 4, 2}, barSixteenths(bars))
	assert.Len(t, s.Note(1).StartTies(), 1)
	assert.Len(t, s.Note(1).EndTies(), 4)
}

func TestBarsNeverExceedCapacity(t *testing.T) {
	codes := []string{"1n", "2n.", "2n", "4n.", "4n", "8n.", "8n", "16n"}
	for capacity := 1; capacity <= 24; capacity++ {
		var names []string
		for i := 0; i < 30; i++ {
			names = append(names, "C4", codes[(i*5+capacity)%len(codes)])
		}
		s := seq(t, capacity, names...)
		bars := s.Bars()
		sum := 0
		for i, b := range bars {
			assert.LessOrEqual(t, b.Sixteenths(), capacity)
			if i < len(bars)-1 {
				assert.Equal(t, capacity, b.Sixteenths(), "only the last bar may be short")
			}
			sum += b.Sixteenths()
		}
		assert.Equal(t, s.TotalSixteenths(), sum)
	}
}

func TestBarsIsRepeatable(t *testing.T) {
	s := seq(t, 16, "C4", "2n.", "G4", "2n")
	first := barSixteenths(s.Bars())
	second := barSixteenths(s.Bars())
	assert.Equal(t, first, second)
	assert.Len(t, s.Note(1).StartTies(), 1)
}

func TestAllNotesKeepsFragments(t *testing.T) {
	s := seq(t, 16, "C4", "2n.", "G4", "2n", "A4", "4n")
	all := s.AllNotes()
	require.Len(t, all, 4)
	assert.Equal(t, s.Note(0), all[0])
	assert.IsType(t, &Tie{}, all[1])
	assert.IsType(t, &Tie{}, all[2])
	assert.Equal(t, s.Note(2), all[3])
	assert.Equal(t, 1, s.ItemIndex(all[2]))
}

func TestNormalize(t *testing.T) {
	s := seq(t, 16, "C4", "4n")
	s.Normalize()
	assert.Equal(t, 16, s.TotalSixteenths())
	assert.True(t, s.Note(1).IsRest())

	s.Note(0).SetDuration(Whole)
	s.Normalize()
	assert.Equal(t, 16, s.TotalSixteenths(), "trailing rest bar is trimmed")

	s.Note(0).SetDuration(Quarter)
	s.Normalize()
	assert.Equal(t, 16, s.TotalSixteenths())

	empty := NewSequence(0)
	empty.Normalize()
	assert.Equal(t, 16, empty.TotalSixteenths())
}

func TestInsertDeleteSelect(t *testing.T) {
	s := seq(t, 16, "C4", "4n", "D4", "4n", "E4", "4n", "F4", "4n")
	s.Insert(1, MustNote("G4"))
	assert.Equal(t, "G4", s.Note(1).Name())
	assert.Equal(t, 32, s.TotalSixteenths())

	assert.True(t, s.Delete(1))
	assert.Equal(t, "D4", s.Note(1).Name())
	assert.False(t, s.Delete(99))

	s.Select(2)
	i, n := s.Selected()
	assert.Equal(t, 2, i)
	assert.Equal(t, "E4", n.Name())
	s.Select(0)
	i, _ = s.Selected()
	assert.Equal(t, 0, i)

	one := seq(t, 16, "C4", "1n")
	assert.False(t, one.Delete(0))
}

func TestClickHitNote(t *testing.T) {
	s := seq(t, 16, "C4", "4n", "D4", "4n", "E4", "2n")
	Layout([]*Sequence{s})

	d := s.Note(1)
	slot, ok := d.Position()
	require.True(t, ok)

	assert.False(t, s.ClickHitNote(image.Pt(0, 0)))
	assert.True(t, s.ClickHitNote(image.Pt(X(slot), Y(d.Pitch()))))
	assert.True(t, d.IsRest())
}

func TestClickHitTiedNote(t *testing.T) {
	s := seq(t, 16, "C4", "2n.", "G4", "2n")
	Layout([]*Sequence{s})
	g := s.Note(1)
	end, ok := g.EndTies()[0].Position()
	require.True(t, ok)

	assert.True(t, s.ClickHitNote(image.Pt(X(end), Y(g.Pitch()))))
	assert.True(t, g.IsRest())
	for _, tie := range g.EndTies() {
		assert.True(t, tie.IsRest())
	}
}

func TestSplitFragmentsMatchOriginal(t *testing.T) {
	s := seq(t, 16, "C4", "2n.", "A3", "2n")
	s.Bars()
	half := s.Note(1)
	sum := 0
	for _, tie := range append(half.StartTies(), half.EndTies()...) {
		sum += tie.Sixteenths()
		assert.Equal(t, "A3", tie.Name())
	}
	assert.Equal(t, 8, sum)
}
