package domain

// Box dimensions in meters: L along the truck length, W across it, H up.
type Size struct {
	L float64
	W float64
	H float64
}

// Centroid position in meters: X from the front wall, Y above the floor,
// Z lateral offset from the left side wall.
type Position struct {
	X float64
	Y float64
	Z float64
}

// A crate with its computed centroid and normalized dimensions.
type PlacedCrate struct {
	Crate
	Size     Size
	Position Position
}

// Unordered pair of crate labels whose bounding boxes intersect.
type OverlapPair struct {
	A string
	B string
}

// Represents the complete outcome of one layout computation.
// A LayoutResult is immutable planning data and contains no side effects:
// every input crate id appears in exactly one of Placed or OverflowIDs,
// Overlaps is diagnostic only, and the capacity flag never removes crates.
type LayoutResult struct {
	Placed           []PlacedCrate
	OverflowIDs      []string
	Overlaps         []OverlapPair
	TotalWeight      float64
	CapacityExceeded bool
}
