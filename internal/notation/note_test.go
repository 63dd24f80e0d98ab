package notation

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteDefaults(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Quarter, MustNote("F3").Duration())
	assert.Equal(4, MustNote("F3", "4n").Sixteenths())
	assert.Equal(6, MustNote("F3", "4n.").Sixteenths())
	assert.Equal(2, MustNote("F3", "4n.").SixteenthsInTheDot())
	assert.Equal(1, MustNote("F3", "8n.").SixteenthsInTheDot())
}

func TestNewNoteErrors(t *testing.T) {
	n, err := NewNote("F3", "5n")
	assert.ErrorIs(t, err, ErrInvalidDurationCode)
	assert.Nil(t, n)

	n, err = NewNote("H3")
	assert.ErrorIs(t, err, ErrInvalidPitch)
	assert.Nil(t, n)
}

func TestIsHigherOrEqual(t *testing.T) {
	assert := assert.New(t)
	assert.True(MustNote("F3").Pitch().IsHigherOrEqual(MustPitch("E3")))
	assert.False(MustNote("F3").Pitch().IsHigherOrEqual(MustPitch("G3")))
	assert.True(MustNote("F4").Pitch().IsHigherOrEqual(MustPitch("G3")))
	assert.False(MustNote("F3").Pitch().IsHigherOrEqual(MustPitch("E4")))
	assert.True(MustPitch("F#3").IsHigherOrEqual(MustPitch("F3")))
	assert.True(MustPitch("F3").IsHigherOrEqual(MustPitch("F#3")))
}

func TestIncrementDecrement(t *testing.T) {
	tests := []struct {
		name string
		from string
		up   bool
		want string
	}{
		{"bumps up", "C4", true, "D4"},
		{"increments octave", "B4", true, "C5"},
		{"bumps down", "D4", false, "C4"},
		{"decrements octave", "C4", false, "B3"},
		{"ignores going below lowest note", "E2", false, "E2"},
		{"ignores going above highest note", "A5", true, "A5"},
		{"keeps mark", "F#3", true, "G#3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := MustNote(tt.from)
			if tt.up {
				n.Increment()
			} else {
				n.Decrement()
			}
			assert.Equal(t, tt.want, n.Name())
		})
	}
}

func TestIncrementDecrementAreInverse(t *testing.T) {
	for p := LowestPitch; ; p = p.Increment() {
		if p != HighestPitch {
			assert.Equal(t, p, p.Increment().Decrement(), p.String())
		}
		if p != LowestPitch {
			assert.Equal(t, p, p.Decrement().Increment(), p.String())
		}
		if p == HighestPitch {
			break
		}
	}
}

func TestPitchKey(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint8(60), MustPitch("C4").Key())
	assert.Equal(uint8(69), MustPitch("A4").Key())
	assert.Equal(uint8(66), MustPitch("F#4").Key())
	assert.Equal(uint8(58), MustPitch("Bb3").Key())
	assert.Equal(uint8(40), LowestPitch.Key())
}

func TestToJSON(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Wire{Name: "F3", Duration: "8n", IsNote: true}, MustNote("F3", "8n").ToJSON())

	n := MustNote("F3", "4n.")
	n.RestToggle()
	assert.Equal(Wire{Name: "F3", Duration: "4n.", IsNote: false}, n.ToJSON())
}

func TestWireRoundTrip(t *testing.T) {
	notes := []*Note{MustNote("C4"), MustNote("Bb2", "2n."), Rest(Eighth), MustNote("A5", "16n")}
	notes[0].SetAccidental(Natural)
	for _, n := range notes {
		back, err := FromWire(n.ToJSON())
		require.NoError(t, err)
		assert.Equal(t, n.Name(), back.Name())
		assert.Equal(t, n.Duration(), back.Duration())
		assert.Equal(t, n.IsRest(), back.IsRest())
		assert.Equal(t, n.Accidental(), back.Accidental())
	}
}

func TestFromWireRejectsBadInput(t *testing.T) {
	_, err := FromWire(Wire{Name: "C4", Duration: "4#n", IsNote: true})
	assert.ErrorIs(t, err, ErrInvalidDurationCode)
	_, err = FromWire(Wire{Name: "C4", Duration: "4n", Accidental: "x"})
	assert.ErrorIs(t, err, ErrInvalidPitch)
}

func TestNewNoteClampsToRange(t *testing.T) {
	tests := map[string]string{
		"C8":  "A5",
		"B5":  "A5",
		"C1":  "E2",
		"D2":  "E2",
		"F#9": "A#5",
		"Bb0": "Eb2",
		"E2":  "E2",
	}
	for name, want := range tests {
		n, err := NewNote(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, n.Name(), name)
	}

	high := MustNote("C8")
	assert.Equal(t, "A5", high.Increment().Name())
	assert.Equal(t, "G5", high.Decrement().Name())
	assert.Equal(t, "F2", MustNote("C1").Increment().Name())

	n, err := FromWire(Wire{Name: "C8", Duration: "4n", IsNote: true})
	require.NoError(t, err)
	assert.Equal(t, "A5", n.Name())
	assert.GreaterOrEqual(t, Y(n.Pitch()), TopMargin)
}

func TestDottedNotes(t *testing.T) {
	assert := assert.New(t)
	assert.False(MustNote("F2", "4n").IsDotted())
	assert.True(MustNote("F2", "4n.").IsDotted())

	n := MustNote("F2", "4n")
	n.ToggleDot()
	assert.Equal("4n.", n.Duration().String())

	n = MustNote("F2", "2n.")
	n.ToggleDot()
	assert.Equal("2n", n.Duration().String())

	n = MustNote("G4", "1n")
	n.ToggleDot()
	assert.Equal("1n", n.Duration().String())

	n = MustNote("G4", "16n")
	n.ToggleDot()
	assert.Equal("16n", n.Duration().String())
}

func TestHitTesting(t *testing.T) {
	t.Run("miss", func(t *testing.T) {
		n := MustNote("D4")
		n.SetPosition(0)
		assert.False(t, n.IsHit(image.Pt(X(0)+1000, Y(n.Pitch()))))
	})

	t.Run("hit", func(t *testing.T) {
		n := MustNote("D4")
		n.SetPosition(0)
		assert.True(t, n.IsHit(image.Pt(X(0), Y(n.Pitch()))))
		assert.True(t, n.IsHit(image.Pt(X(0)+NoteHitSize/2, Y(n.Pitch())-NoteHitSize/2)))
		assert.False(t, n.IsHit(image.Pt(X(0)+NoteHitSize, Y(n.Pitch()))))
	})

	t.Run("unplaced note is never hit", func(t *testing.T) {
		n := MustNote("D4")
		assert.False(t, n.IsHit(image.Pt(X(0), Y(n.Pitch()))))
	})

	t.Run("tie span", func(t *testing.T) {
		start := NewTie("D4")
		start.SetPosition(0)
		end := NewTie("D4")
		end.SetPosition(1)
		n := MustNote("D4", "2n")
		n.SetTies([]*Tie{start}, []*Tie{end})
		n.SetPosition(0)

		assert.True(t, n.IsHit(image.Pt(X(1), Y(n.Pitch()))))
		assert.True(t, n.IsHit(image.Pt((X(0)+X(1))/2, Y(n.Pitch()))))
		assert.False(t, n.IsHit(image.Pt(X(2), Y(n.Pitch()))))
	})

	t.Run("rest in highlight band", func(t *testing.T) {
		n := MustNote("C4")
		n.SetPosition(0)
		n.RestToggle()
		assert.True(t, n.IsHit(image.Pt(X(0), RestRectangleTop+1)))
		assert.False(t, n.IsHit(image.Pt(X(0), RestRectangleTop-1)))
		assert.False(t, n.IsHit(image.Pt(X(1), RestRectangleTop+1)))
	})
}

func TestTies(t *testing.T) {
	newTied := func() *Note {
		n := MustNote("G4", "2n")
		n.SetTies([]*Tie{NewTie("G4")}, []*Tie{NewTie("G4")})
		return n
	}

	t.Run("represented as tie", func(t *testing.T) {
		n := newTied()
		assert.True(t, n.IsRepresentedAsTie())
		n.ClearTie()
		assert.False(t, n.IsRepresentedAsTie())
	})

	t.Run("increment moves ties", func(t *testing.T) {
		n := newTied()
		n.Increment()
		assert.Equal(t, "A4", n.Name())
		for _, tie := range append(n.StartTies(), n.EndTies()...) {
			assert.Equal(t, "A4", tie.Name())
		}
	})

	t.Run("decrement moves ties", func(t *testing.T) {
		n := newTied()
		n.Decrement()
		assert.Equal(t, "F4", n.Name())
		for _, tie := range append(n.StartTies(), n.EndTies()...) {
			assert.Equal(t, "F4", tie.Name())
		}
	})

	t.Run("rest toggle moves ties", func(t *testing.T) {
		n := newTied()
		n.RestToggle()
		for _, tie := range append(n.StartTies(), n.EndTies()...) {
			assert.True(t, tie.IsRest())
		}
	})
}

func TestRest(t *testing.T) {
	assert := assert.New(t)
	assert.False(MustNote("D5").IsRest())

	n := MustNote("D5")
	n.RestToggle()
	assert.True(n.IsRest())

	r := Rest(Half)
	assert.True(r.IsRest())
	assert.Equal(Half, r.Duration())
	assert.Equal(Quarter, Rest().Duration())

	r.RestToggle()
	assert.False(r.IsRest())
}

func TestSelectCascadesToTies(t *testing.T) {
	n := MustNote("E4", "2n")
	n.SetTies([]*Tie{NewTie("E4"), NewTie("F5")}, []*Tie{NewTie("E4")})

	n.Select()
	assert.True(t, n.IsSelected())
	for _, tie := range append(n.StartTies(), n.EndTies()...) {
		assert.True(t, tie.IsSelected())
	}

	n.Deselect()
	assert.False(t, n.IsSelected())
	for _, tie := range append(n.StartTies(), n.EndTies()...) {
		assert.False(t, tie.IsSelected())
	}
}

func TestSelectCascadesThroughMultiBarTies(t *testing.T) {
	n := MustNote("C4", "1n")
	n.SetDuration(Whole)
	seq := NewSequence(4, MustNote("D4"), n)
	seq.Bars()
	require.Len(t, n.EndTies(), 3)

	seq.Select(1)
	for _, tie := range append(n.StartTies(), n.EndTies()...) {
		assert.True(t, tie.IsSelected())
	}
	seq.Select(0)
	for _, tie := range append(n.StartTies(), n.EndTies()...) {
		assert.False(t, tie.IsSelected())
	}
}

func TestToggleAccidental(t *testing.T) {
	n := MustNote("F4")
	n.ToggleAccidental(Sharp)
	assert.Equal(t, Sharp, n.Accidental())
	n.ToggleAccidental(Flat)
	assert.Equal(t, Flat, n.Accidental())
	n.ToggleAccidental(Flat)
	assert.Equal(t, NoMark, n.Accidental())
}
