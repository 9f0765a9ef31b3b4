package services

import "cargo-layout-service/internal/domain"

// classifyCapacity sums declared crate weight and compares it against the
// truck's optional maximum load. The boundary is inclusive: a total equal
// to the limit already counts as exceeded.
func classifyCapacity(truck domain.Truck, crates []domain.Crate, overflowIDs []string, opts LayoutOptions) (float64, bool) {
	excluded := map[string]struct{}{}
	if opts.PlacedWeightOnly {
		for _, id := range overflowIDs {
			excluded[id] = struct{}{}
		}
	}

	var total float64
	for _, c := range crates {
		if _, ok := excluded[c.ID]; ok {
			continue
		}
		total += c.Weight
	}

	exceeded := truck.MaxLoad != nil && total >= *truck.MaxLoad
	return total, exceeded
}
