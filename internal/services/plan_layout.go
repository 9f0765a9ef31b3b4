package services

import (
	"cargo-layout-service/internal/domain"
	"math"
)

// LayoutOptions tunes policy knobs of the layout computation.
type LayoutOptions struct {
	// PlacedWeightOnly excludes overflowed crates from the capacity total.
	// The default counts every declared crate: removing an overweight crate
	// from the plan is a conscious user action, not an automatic one.
	PlacedWeightOnly bool
}

// PlanLayout computes a complete 3-D layout for the given truck and crate
// snapshot using default options.
//
// The pipeline is a pure function recomputed from scratch on every call:
// unit normalization, weight-balanced two-lane floor placement, vertical
// stack resolution, pairwise overlap detection, and capacity
// classification. It raises no errors; every constraint violation becomes
// data (an overflow id or an overlap pair) and a result is returned for
// any well-formed input.
func PlanLayout(truck domain.Truck, crates []domain.Crate) domain.LayoutResult {
	return PlanLayoutWithOptions(truck, crates, LayoutOptions{})
}

// Compute a layout with explicit options. Identical input always yields an
// identical result.
func PlanLayoutWithOptions(truck domain.Truck, crates []domain.Crate, opts LayoutOptions) domain.LayoutResult {
	bed := truck.SizeMeters()

	floor := make([]domain.Crate, 0, len(crates))
	stacked := make([]domain.Crate, 0)
	overflowIDs := make([]string, 0)

	for _, c := range crates {
		if !placeable(c) {
			overflowIDs = append(overflowIDs, c.ID)
			continue
		}
		if c.IsFloor() {
			floor = append(floor, c)
		} else {
			stacked = append(stacked, c)
		}
	}

	placed, laneOverflow := placeFloorCrates(bed, floor)
	overflowIDs = append(overflowIDs, laneOverflow...)

	stackedPlaced, stackOverflow := resolveStacks(bed, placed, stacked)
	placed = append(placed, stackedPlaced...)
	overflowIDs = append(overflowIDs, stackOverflow...)

	total, exceeded := classifyCapacity(truck, crates, overflowIDs, opts)

	return domain.LayoutResult{
		Placed:           placed,
		OverflowIDs:      overflowIDs,
		Overlaps:         detectOverlaps(placed),
		TotalWeight:      total,
		CapacityExceeded: exceeded,
	}
}

// placeable is the defensive gate for inputs the contract leaves
// unvalidated: a crate with a non-positive or non-finite dimension, or a
// non-finite weight, goes straight to overflow instead of poisoning the
// lane cursors.
func placeable(c domain.Crate) bool {
	for _, v := range []float64{c.Length, c.Width, c.Height} {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return !math.IsInf(c.Weight, 0) && !math.IsNaN(c.Weight)
}
