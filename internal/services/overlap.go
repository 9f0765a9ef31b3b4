package services

import (
	"cargo-layout-service/internal/domain"
	"math"
)

// detectOverlaps reports every unordered pair of placed crates whose
// bounding boxes intersect on all three axes.
//
// A declared base/stacked pair touches by construction and is skipped as
// intentional vertical adjacency. The check is a diagnostic: it never
// alters placement. O(n^2) over the placed set, which is fine at
// interactive scale (tens to low hundreds of crates).
func detectOverlaps(placed []domain.PlacedCrate) []domain.OverlapPair {
	overlaps := make([]domain.OverlapPair, 0)

	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			a, b := placed[i], placed[j]

			if a.StackTargetID == b.ID || b.StackTargetID == a.ID {
				continue
			}

			if boxesIntersect(a, b) {
				overlaps = append(overlaps, domain.OverlapPair{A: a.Label, B: b.Label})
			}
		}
	}

	return overlaps
}

// Axis-aligned box test: intersection requires overlap on all three axes.
// Strict inequality, so boxes that merely touch do not count.
func boxesIntersect(a, b domain.PlacedCrate) bool {
	return axisOverlap(a.Position.X, b.Position.X, a.Size.L, b.Size.L) &&
		axisOverlap(a.Position.Y, b.Position.Y, a.Size.H, b.Size.H) &&
		axisOverlap(a.Position.Z, b.Position.Z, a.Size.W, b.Size.W)
}

func axisOverlap(centerA, centerB, extentA, extentB float64) bool {
	return math.Abs(centerA-centerB) < extentA/2+extentB/2
}
