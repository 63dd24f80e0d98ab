package notation

// BarsAndNotes lays out one track's bars against the bars of every other
// track and returns what to draw, in order: the items of each bar followed by
// the bar itself (its bar line).
//
// For each measure index the slot count is the maximum PositionsRequired of
// that measure across all tracks, so every track's bar lines share an x.
// Notes inside a measure are spread by onset, which lines up simultaneous
// notes in simple cases but not across arbitrary mixed rhythms. Positions are
// written to the items and bars.
func BarsAndNotes(bars []*Bar, others [][]*Bar) []Drawable {
	var ret []Drawable
	barPosition := 0
	for i, bar := range bars {
		positions := bar.PositionsRequired()
		for _, o := range others {
			if i < len(o) {
				positions = max(positions, o[i].PositionsRequired())
			}
		}
		for _, l := range bar.Layouts(positions) {
			l.Item.SetPosition(barPosition + l.Position)
			ret = append(ret, l.Item)
		}
		barPosition += positions
		bar.SetPosition(barPosition)
		barPosition++
		bar.TopLineY = TopLineY
		bar.StaffHeight = StaffHeight
		ret = append(ret, bar)
	}
	return ret
}

// Layout segments and lays out every sequence of a composition together. It
// must be run again after any change to any of the sequences, as the
// alignment of one track depends on all the others.
func Layout(seqs []*Sequence) [][]Drawable {
	all := make([][]*Bar, len(seqs))
	for i, s := range seqs {
		all[i] = s.Bars()
	}
	ret := make([][]Drawable, len(seqs))
	for i := range seqs {
		others := make([][]*Bar, 0, len(seqs)-1)
		for j := range all {
			if j != i {
				others = append(others, all[j])
			}
		}
		ret[i] = BarsAndNotes(all[i], others)
	}
	return ret
}
