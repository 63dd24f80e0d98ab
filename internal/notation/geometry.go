package notation

import "image"

// Geometry shared by the model and whatever surface draws it. Units are
// abstract points; a renderer scales them as it likes.
const (
	LineHeight   = 10             // distance between two staff lines
	StepHeight   = LineHeight / 2 // one diatonic step
	NoteDistance = 30             // horizontal distance between layout slots
	LeftMargin   = 100            // clef and key signature area
	TopMargin    = 20
	NoteHitSize  = 10

	// StaffHeight spans the five lines of one staff.
	StaffHeight         = 4 * LineHeight
	RestRectangleHeight = StaffHeight

	AccidentalsLeft  = 40
	AccidentalsWidth = LeftMargin - AccidentalsLeft - 10
)

var (
	// HighestPitchHeight is the height of the highest editable pitch.
	HighestPitchHeight = HighestPitch.Height()

	// TopLineY is the y of the top line of the treble staff (F5).
	TopLineY         = Y(Pitch{Letter: F, Octave: 5})
	RestRectangleTop = TopLineY
)

// AccidentalsRect is the key signature area; clicking inside it in sharps or
// flats mode toggles an accidental for the nearest pitch.
var AccidentalsRect = image.Rect(AccidentalsLeft, TopMargin, AccidentalsLeft+AccidentalsWidth, Y(LowestPitch)+1)

// X is the horizontal center of a layout slot.
func X(position int) int {
	return LeftMargin + position*NoteDistance
}

// Y is the vertical center of a note head for p.
func Y(p Pitch) int {
	return TopMargin + (HighestPitchHeight-p.Height())*StepHeight
}

// NearestPitch is the in-range pitch whose note head is closest to y.
func NearestPitch(y int) Pitch {
	steps := (y - TopMargin + StepHeight/2) / StepHeight
	if y < TopMargin {
		steps = 0
	}
	return pitchAtHeight(max(HighestPitchHeight-steps, 0), NoMark).Clamp()
}

func centeredRect(x, y, w, h int) image.Rectangle {
	return image.Rect(x-w/2, y-h/2, x+w/2+1, y+h/2+1)
}
