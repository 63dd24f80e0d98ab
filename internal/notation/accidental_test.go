package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrecedence(t *testing.T) {
	sharps := Accidentals{F, C}
	flats := Accidentals{B, E}

	tests := []struct {
		name     string
		note     string
		explicit Mark
		want     string
	}{
		{"plain", "G4", NoMark, "G4"},
		{"from sharps", "F4", NoMark, "F#4"},
		{"from flats", "B3", NoMark, "Bb3"},
		{"explicit sharp beats flats list", "E4", Sharp, "E#4"},
		{"explicit flat beats sharps list", "C5", Flat, "Cb5"},
		{"explicit natural suppresses list", "F4", Natural, "F4"},
		{"explicit natural suppresses own mark", "F#4", Natural, "F4"},
		{"own mark kept when nothing applies", "G#4", NoMark, "G#4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := MustNote(tt.note)
			n.SetAccidental(tt.explicit)
			assert.Equal(t, tt.want, Resolve(n, sharps, flats))
		})
	}
}

func TestToggleSharpAndFlat(t *testing.T) {
	assert := assert.New(t)
	var sharps, flats Accidentals

	sharps, flats = ToggleSharp(sharps, flats, F)
	assert.Equal(Accidentals{F}, sharps)
	assert.Empty(flats)

	sharps, flats = ToggleFlat(sharps, flats, F)
	assert.Empty(sharps)
	assert.Equal(Accidentals{F}, flats)

	sharps, flats = ToggleSharp(sharps, flats, C)
	sharps, flats = ToggleSharp(sharps, flats, G)
	assert.Equal(Accidentals{C, G}, sharps)

	sharps, flats = ToggleSharp(sharps, flats, C)
	assert.Equal(Accidentals{G}, sharps)
	assert.Equal(Accidentals{F}, flats)
}

func TestToggleDoesNotAliasInput(t *testing.T) {
	sharps := make(Accidentals, 2, 8)
	sharps[0], sharps[1] = F, C
	grown, _ := ToggleSharp(sharps, nil, G)
	shrunk, _ := ToggleSharp(sharps, nil, F)
	assert.Equal(t, Accidentals{F, C}, sharps)
	assert.Equal(t, Accidentals{F, C, G}, grown)
	assert.Equal(t, Accidentals{C}, shrunk)
}

func TestParseAccidentals(t *testing.T) {
	a, err := ParseAccidentals([]string{"F5", "C", "F3"})
	require.NoError(t, err)
	assert.Equal(t, Accidentals{F, C}, a)
	assert.Equal(t, []string{"F", "C"}, a.Strings())

	_, err = ParseAccidentals([]string{"X"})
	assert.ErrorIs(t, err, ErrInvalidPitch)
}
