package services

import "cargo-layout-service/internal/domain"

// resolveStacks positions every crate with a stack target directly above
// its base's footprint, centered on the base's x/z.
//
// Only placed floor crates are valid bases: a target that is missing,
// overflowed, self-referential, or itself stacked fails the lookup and the
// crate overflows. Stacking is single-level. Several crates may declare the
// same base; they end up coincident and are surfaced downstream by the
// overlap detector rather than prevented here.
func resolveStacks(bed domain.Size, floor []domain.PlacedCrate, stacked []domain.Crate) ([]domain.PlacedCrate, []string) {
	baseByID := make(map[string]domain.PlacedCrate, len(floor))
	for _, p := range floor {
		baseByID[p.ID] = p
	}

	placed := make([]domain.PlacedCrate, 0, len(stacked))
	overflow := make([]string, 0)

	for _, c := range stacked {
		base, ok := baseByID[c.StackTargetID]
		if !ok {
			overflow = append(overflow, c.ID)
			continue
		}

		size := c.SizeMeters()
		y := base.Position.Y + base.Size.H/2 + size.H/2

		if y+size.H/2 > bed.H {
			overflow = append(overflow, c.ID)
			continue
		}

		placed = append(placed, domain.PlacedCrate{
			Crate: c,
			Size:  size,
			Position: domain.Position{
				X: base.Position.X,
				Y: y,
				Z: base.Position.Z,
			},
		})
	}

	return placed, overflow
}
