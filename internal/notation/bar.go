package notation

// Bar is one measure: notes and tie fragments whose durations add up to at
// most the bar's capacity.
type Bar struct {
	position
	capacity int
	items    []Item
	onsets   []int

	// Geometry hints for the renderer, set during layout.
	TopLineY    int
	StaffHeight int
}

// Placement is an item and the slot it occupies within its bar.
type Placement struct {
	Item     Item
	Position int
}

func newBar(capacity int) *Bar {
	return &Bar{capacity: capacity}
}

func (b *Bar) add(item Item) {
	b.onsets = append(b.onsets, b.Sixteenths())
	b.items = append(b.items, item)
}

func (b *Bar) Capacity() int { return b.capacity }

func (b *Bar) Items() []Item { return b.items }

// Onset is the offset of the i-th item from the start of the bar, in
// sixteenths.
func (b *Bar) Onset(i int) int { return b.onsets[i] }

// Sixteenths is the total duration of the bar's contents.
func (b *Bar) Sixteenths() int {
	total := 0
	for _, it := range b.items {
		total += it.Sixteenths()
	}
	return total
}

func (b *Bar) Remaining() int {
	return b.capacity - b.Sixteenths()
}

// PositionsRequired is the number of slots the bar needs on its own: one per
// note, rest or tie, regardless of duration.
func (b *Bar) PositionsRequired() int {
	return len(b.items)
}

// Layouts assigns each item a slot in [0, positions). Items are placed
// proportionally to their onset. Slots are strictly increasing, and positions
// smaller than PositionsRequired is raised to it. Two bars with the same slot
// count only line up notes that start together when one bar's onsets fall on
// the other's slot grid; a dense run of short notes pushes later items right.
func (b *Bar) Layouts(positions int) []Placement {
	n := len(b.items)
	positions = max(positions, n)
	ret := make([]Placement, n)
	prev := -1
	for i, it := range b.items {
		slot := 0
		if b.capacity > 0 {
			slot = b.onsets[i] * positions / b.capacity
		}
		slot = min(max(slot, prev+1), positions-(n-i))
		ret[i] = Placement{Item: it, Position: slot}
		prev = slot
	}
	return ret
}
