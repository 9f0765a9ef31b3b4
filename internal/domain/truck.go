package domain

// Describes the transport volume crates are arranged in. All three
// dimensions share one unit. MaxLoad is an optional total-weight threshold
// in kilograms; nil means the truck has no declared capacity.
type Truck struct {
	Length  float64
	Width   float64
	Height  float64
	Unit    Unit
	MaxLoad *float64
}

// SizeMeters returns the truck bed dimensions normalized to meters.
func (t Truck) SizeMeters() Size {
	return Size{
		L: ToMeters(t.Length, t.Unit),
		W: ToMeters(t.Width, t.Unit),
		H: ToMeters(t.Height, t.Unit),
	}
}
