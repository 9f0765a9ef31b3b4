package domain

// Represents a single cargo item as maintained by the upstream editor.
// Each axis carries its own unit; inputs may mix units freely. Weight is
// kilograms. StackTargetID is a weak reference by id ("this crate rests on
// top of that one"): the target is looked up at planning time and may be
// missing or unplaced, so it must never be held as a direct pointer.
type Crate struct {
	ID            string
	Label         string
	Length        float64
	LengthUnit    Unit
	Width         float64
	WidthUnit     Unit
	Height        float64
	HeightUnit    Unit
	Weight        float64
	Stackable     bool
	StackTargetID string
}

// A crate without a stack target sits directly on the truck bed.
func (c Crate) IsFloor() bool { return c.StackTargetID == "" }

// SizeMeters returns the crate's dimensions normalized to meters.
func (c Crate) SizeMeters() Size {
	return Size{
		L: ToMeters(c.Length, c.LengthUnit),
		W: ToMeters(c.Width, c.WidthUnit),
		H: ToMeters(c.Height, c.HeightUnit),
	}
}
