package notation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		code       string
		sixteenths int
		dot        int
	}{
		{"1n", 16, 0},
		{"2n", 8, 0},
		{"2n.", 12, 4},
		{"4n", 4, 0},
		{"4n.", 6, 2},
		{"8n", 2, 0},
		{"8n.", 3, 1},
		{"16n", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			d, err := ParseDuration(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.sixteenths, d.Sixteenths())
			assert.Equal(t, tt.dot, d.SixteenthsInTheDot())
			assert.Equal(t, tt.code, d.String())
		})
	}
}

func TestParseDurationRejectsUnknownCodes(t *testing.T) {
	for _, code := range []string{"", "n", "4", "3n", "32n", "1n.", "16n.", "4#n", "4n..", "q"} {
		_, err := ParseDuration(code)
		assert.ErrorIs(t, err, ErrInvalidDurationCode, code)
	}
}

func TestToggleDot(t *testing.T) {
	assert := assert.New(t)
	for _, d := range []Duration{Half, Quarter, Eighth} {
		dotted := d.ToggleDot()
		assert.True(dotted.IsDotted())
		assert.Equal(d.Sixteenths()*3/2, dotted.Sixteenths())
		assert.Equal(d, dotted.ToggleDot())
	}
	assert.Equal(Whole, Whole.ToggleDot())
	assert.Equal(Sixteenth, Sixteenth.ToggleDot())
}

func TestFromSixteenths(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(FromSixteenths(0))
	for n := 1; n <= 40; n++ {
		total := 0
		prev := 17
		for _, d := range FromSixteenths(n) {
			assert.LessOrEqual(d.Sixteenths(), prev, "durations must be longest first")
			prev = d.Sixteenths()
			total += d.Sixteenths()
		}
		assert.Equal(n, total)
	}
	assert.Equal([]Duration{MustDuration("4n"), MustDuration("16n")}, FromSixteenths(5))
}

func TestTransportTime(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("0:0:0", TransportTime(0).String())
	assert.Equal("0:1:2", TransportTime(6).String())
	assert.Equal("2:3:3", TransportTime(47).String())
	assert.Equal(47, TransportTime(47).InSixteenths())

	// 120 bpm: a sixteenth is 125ms. A long song must not drift.
	assert.Equal(125*time.Millisecond, TransportTime(1).Offset(120))
	assert.Equal(time.Duration(100000)*125*time.Millisecond, TransportTime(100000).Offset(120))
	assert.Equal(uint32(240*6), TransportTime(6).Ticks(960))

	prev := time.Duration(-1)
	for s := 0; s < 1000; s++ {
		off := TransportTime(s).Offset(97)
		assert.Greater(off, prev)
		prev = off
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("8n.")))
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "8n.", string(b))
	assert.ErrorIs(t, d.UnmarshalText([]byte("7n")), ErrInvalidDurationCode)
}
