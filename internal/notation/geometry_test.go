package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXY(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(LeftMargin, X(0))
	assert.Equal(LeftMargin+3*NoteDistance, X(3))

	assert.Equal(TopMargin, Y(HighestPitch))
	assert.Equal(TopMargin+StepHeight, Y(MustPitch("G5")))
	assert.Equal(Y(MustPitch("F4")), Y(MustPitch("F#4")), "marks do not move the note head")
	assert.Equal(TopLineY+StaffHeight, Y(MustPitch("E4")), "bottom line of the treble staff")
}

func TestNearestPitch(t *testing.T) {
	p := LowestPitch
	for {
		assert.Equal(t, p, NearestPitch(Y(p)), p.String())
		assert.Equal(t, p, NearestPitch(Y(p)+StepHeight/2-1), p.String())
		if p == HighestPitch {
			break
		}
		p = p.Increment()
	}
	assert.Equal(t, HighestPitch, NearestPitch(-100))
	assert.Equal(t, LowestPitch, NearestPitch(Y(LowestPitch)+100))
}

func TestAccidentalsRect(t *testing.T) {
	assert.True(t, AccidentalsRect.Max.X <= LeftMargin)
	assert.Equal(t, TopMargin, AccidentalsRect.Min.Y)
}
