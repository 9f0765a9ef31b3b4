package services

import (
	"cargo-layout-service/internal/domain"
	"slices"
)

// placeFloorCrates assigns a position to every floor crate using a greedy,
// weight-ordered, two-lane algorithm, or classifies it as overflow.
//
// Heaviest crates go first and each crate takes the lane that is currently
// less filled, which approximates left/right axle-load balance without
// combinatorial optimization. The design prioritizes determinism and
// simplicity over optimality.
func placeFloorCrates(bed domain.Size, crates []domain.Crate) ([]domain.PlacedCrate, []string) {
	ordered := slices.Clone(crates)

	// Stable sort: equal-weight crates keep their input order, which is
	// what makes layouts reproducible across runs.
	slices.SortStableFunc(ordered, func(a, b domain.Crate) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})

	// The two lane cursors track how far each lane is filled along the
	// truck's length axis. Two scalars are the whole accumulator state.
	var cursorL, cursorR float64

	placed := make([]domain.PlacedCrate, 0, len(ordered))
	overflow := make([]string, 0)

	for _, c := range ordered {
		size := c.SizeMeters()

		useLeft := cursorL <= cursorR
		x0 := cursorR
		if useLeft {
			x0 = cursorL
		}

		if size.H > bed.H || x0+size.L > bed.L || size.W > bed.W {
			overflow = append(overflow, c.ID)
			continue
		}

		z := size.W / 2
		if !useLeft {
			z = bed.W - size.W/2
		}

		placed = append(placed, domain.PlacedCrate{
			Crate: c,
			Size:  size,
			Position: domain.Position{
				X: x0 + size.L/2,
				Y: size.H / 2,
				Z: z,
			},
		})

		if useLeft {
			cursorL += size.L
		} else {
			cursorR += size.L
		}
	}

	return placed, overflow
}
