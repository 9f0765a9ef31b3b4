package services

import (
	"testing"

	"cargo-layout-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTruck() domain.Truck {
	maxLoad := 1000.0
	return domain.Truck{Length: 10, Width: 2.5, Height: 2.6, Unit: domain.Meters, MaxLoad: &maxLoad}
}

func cube(id, label string, weight float64) domain.Crate {
	return domain.Crate{
		ID: id, Label: label,
		Length: 1, LengthUnit: domain.Meters,
		Width: 1, WidthUnit: domain.Meters,
		Height: 1, HeightUnit: domain.Meters,
		Weight: weight,
	}
}

func TestPlanLayoutSingleCrate(t *testing.T) {
	result := PlanLayout(testTruck(), []domain.Crate{cube("c1", "Crate 1", 100)})

	require.Len(t, result.Placed, 1)
	assert.Equal(t, domain.Position{X: 0.5, Y: 0.5, Z: 0.5}, result.Placed[0].Position)
	assert.Empty(t, result.OverflowIDs)
	assert.Empty(t, result.Overlaps)
	assert.Equal(t, 100.0, result.TotalWeight)
	assert.False(t, result.CapacityExceeded)
}

func TestPlanLayoutLaneAlternation(t *testing.T) {
	result := PlanLayout(testTruck(), []domain.Crate{
		cube("c1", "Heavy", 100),
		cube("c2", "Light", 90),
	})

	require.Len(t, result.Placed, 2)
	assert.Empty(t, result.Overlaps)

	byID := map[string]domain.PlacedCrate{}
	for _, p := range result.Placed {
		byID[p.ID] = p
	}

	// Heaviest goes first and takes the left lane; the next crate finds the
	// right lane emptier and hugs the far wall.
	assert.Equal(t, domain.Position{X: 0.5, Y: 0.5, Z: 0.5}, byID["c1"].Position)
	assert.Equal(t, domain.Position{X: 0.5, Y: 0.5, Z: 2.0}, byID["c2"].Position)
}

func TestPlanLayoutOversizedCrateOverflows(t *testing.T) {
	long := cube("c1", "Too long", 50)
	long.Length = 11

	result := PlanLayout(testTruck(), []domain.Crate{long})

	assert.Empty(t, result.Placed)
	assert.Equal(t, []string{"c1"}, result.OverflowIDs)
}

func TestPlanLayoutOverflowChecks(t *testing.T) {
	tall := cube("tall", "Tall", 10)
	tall.Height = 3

	wide := cube("wide", "Wide", 10)
	wide.Width = 2.6

	result := PlanLayout(testTruck(), []domain.Crate{tall, wide})

	assert.Empty(t, result.Placed)
	assert.ElementsMatch(t, []string{"tall", "wide"}, result.OverflowIDs)
}

func TestPlanLayoutStackedCrate(t *testing.T) {
	base := cube("a", "Base", 200)
	top := cube("b", "Top", 50)
	top.Height = 0.5
	top.Stackable = true
	top.StackTargetID = "a"

	result := PlanLayout(testTruck(), []domain.Crate{base, top})

	require.Len(t, result.Placed, 2)
	assert.Empty(t, result.Overlaps, "declared stack pair must not be reported")

	byID := map[string]domain.PlacedCrate{}
	for _, p := range result.Placed {
		byID[p.ID] = p
	}

	require.Contains(t, byID, "b")
	assert.Equal(t, 1.25, byID["b"].Position.Y)
	assert.Equal(t, byID["a"].Position.X, byID["b"].Position.X)
	assert.Equal(t, byID["a"].Position.Z, byID["b"].Position.Z)
}

func TestPlanLayoutStackOverflow(t *testing.T) {
	tests := []struct {
		name string
		top  func() domain.Crate
	}{
		{
			name: "missing stack target",
			top: func() domain.Crate {
				c := cube("b", "Top", 10)
				c.StackTargetID = "missing"
				return c
			},
		},
		{
			name: "self-referential target",
			top: func() domain.Crate {
				c := cube("b", "Top", 10)
				c.StackTargetID = "b"
				return c
			},
		},
		{
			name: "stack exceeds truck height",
			top: func() domain.Crate {
				c := cube("b", "Top", 10)
				c.Height = 2
				c.StackTargetID = "a"
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PlanLayout(testTruck(), []domain.Crate{cube("a", "Base", 100), tt.top()})

			require.Len(t, result.Placed, 1)
			assert.Equal(t, "a", result.Placed[0].ID)
			assert.Equal(t, []string{"b"}, result.OverflowIDs)
		})
	}
}

func TestPlanLayoutStackOnStackedCrateOverflows(t *testing.T) {
	base := cube("a", "Base", 300)
	mid := cube("b", "Mid", 100)
	mid.StackTargetID = "a"
	top := cube("c", "Top", 50)
	top.StackTargetID = "b"

	result := PlanLayout(testTruck(), []domain.Crate{base, mid, top})

	// Single-level stacking: only floor crates are valid bases.
	require.Len(t, result.Placed, 2)
	assert.Equal(t, []string{"c"}, result.OverflowIDs)
}

func TestPlanLayoutSameLaneWeightOrdering(t *testing.T) {
	crates := []domain.Crate{
		cube("c1", "W400", 400),
		cube("c2", "W300", 300),
		cube("c3", "W200", 200),
		cube("c4", "W100", 100),
	}

	result := PlanLayout(testTruck(), crates)
	require.Len(t, result.Placed, 4)

	// Within each lane, x must grow while weight shrinks.
	lanes := map[float64][]domain.PlacedCrate{}
	for _, p := range result.Placed {
		lanes[p.Position.Z] = append(lanes[p.Position.Z], p)
	}
	require.Len(t, lanes, 2)

	for z, lane := range lanes {
		for i := 1; i < len(lane); i++ {
			assert.Greater(t, lane[i].Position.X, lane[i-1].Position.X, "lane z=%v", z)
			assert.LessOrEqual(t, lane[i].Weight, lane[i-1].Weight, "lane z=%v", z)
		}
	}
}

func TestPlanLayoutEqualWeightsKeepInputOrder(t *testing.T) {
	crates := []domain.Crate{
		cube("c1", "First", 100),
		cube("c2", "Second", 100),
		cube("c3", "Third", 100),
	}

	first := PlanLayout(testTruck(), crates)
	require.Len(t, first.Placed, 3)

	// c1 left, c2 right, c3 back to left behind c1.
	assert.Equal(t, "c1", first.Placed[0].ID)
	assert.Equal(t, 0.5, first.Placed[0].Position.X)
	assert.Equal(t, "c2", first.Placed[1].ID)
	assert.Equal(t, 2.0, first.Placed[1].Position.Z)
	assert.Equal(t, "c3", first.Placed[2].ID)
	assert.Equal(t, 1.5, first.Placed[2].Position.X)
}

func TestPlanLayoutDeterministic(t *testing.T) {
	crates := []domain.Crate{
		cube("c1", "A", 100),
		cube("c2", "B", 100),
		cube("c3", "C", 250),
	}
	crates[1].StackTargetID = "c3"

	first := PlanLayout(testTruck(), crates)
	second := PlanLayout(testTruck(), crates)

	assert.Equal(t, first, second)
}

func TestPlanLayoutContainment(t *testing.T) {
	crates := []domain.Crate{
		cube("c1", "A", 500),
		cube("c2", "B", 300),
		cube("c3", "C", 300),
		cube("c4", "D", 100),
	}
	crates[1].Width = 240
	crates[1].WidthUnit = domain.Centimeters
	crates[3].StackTargetID = "c1"

	truck := testTruck()
	bed := truck.SizeMeters()
	result := PlanLayout(truck, crates)

	overflowed := map[string]struct{}{}
	for _, id := range result.OverflowIDs {
		overflowed[id] = struct{}{}
	}

	seen := map[string]struct{}{}
	for _, p := range result.Placed {
		_, dup := seen[p.ID]
		require.False(t, dup, "crate %s placed twice", p.ID)
		seen[p.ID] = struct{}{}

		_, also := overflowed[p.ID]
		require.False(t, also, "crate %s both placed and overflowed", p.ID)

		assert.GreaterOrEqual(t, p.Position.X-p.Size.L/2, 0.0)
		assert.LessOrEqual(t, p.Position.X+p.Size.L/2, bed.L)
		assert.GreaterOrEqual(t, p.Position.Y-p.Size.H/2, 0.0)
		assert.LessOrEqual(t, p.Position.Y+p.Size.H/2, bed.H)
		assert.GreaterOrEqual(t, p.Position.Z-p.Size.W/2, 0.0)
		assert.LessOrEqual(t, p.Position.Z+p.Size.W/2, bed.W)
	}

	assert.Equal(t, len(crates), len(result.Placed)+len(result.OverflowIDs))
}

func TestPlanLayoutCapacityBoundaryInclusive(t *testing.T) {
	maxLoad := 300.0
	truck := domain.Truck{Length: 10, Width: 2.5, Height: 2.6, Unit: domain.Meters, MaxLoad: &maxLoad}

	result := PlanLayout(truck, []domain.Crate{
		cube("c1", "A", 200),
		cube("c2", "B", 100),
	})

	assert.Equal(t, 300.0, result.TotalWeight)
	assert.True(t, result.CapacityExceeded, "equality must count as exceeded")
}

func TestPlanLayoutNoMaxLoadNeverExceeds(t *testing.T) {
	truck := domain.Truck{Length: 10, Width: 2.5, Height: 2.6, Unit: domain.Meters}

	result := PlanLayout(truck, []domain.Crate{cube("c1", "A", 99999)})

	assert.False(t, result.CapacityExceeded)
}

func TestPlanLayoutOverflowedWeightCounts(t *testing.T) {
	maxLoad := 500.0
	truck := domain.Truck{Length: 10, Width: 2.5, Height: 2.6, Unit: domain.Meters, MaxLoad: &maxLoad}

	huge := cube("c1", "Huge", 600)
	huge.Length = 20

	// Default policy: the overflowed crate still counts.
	result := PlanLayout(truck, []domain.Crate{huge})
	assert.Equal(t, 600.0, result.TotalWeight)
	assert.True(t, result.CapacityExceeded)

	// Alternate policy: only placed crates count.
	result = PlanLayoutWithOptions(truck, []domain.Crate{huge}, LayoutOptions{PlacedWeightOnly: true})
	assert.Equal(t, 0.0, result.TotalWeight)
	assert.False(t, result.CapacityExceeded)
}

func TestPlanLayoutMalformedCrateOverflows(t *testing.T) {
	bad := cube("c1", "Zero width", 50)
	bad.Width = 0

	result := PlanLayout(testTruck(), []domain.Crate{bad, cube("c2", "Fine", 100)})

	require.Len(t, result.Placed, 1)
	assert.Equal(t, "c2", result.Placed[0].ID)
	assert.Equal(t, []string{"c1"}, result.OverflowIDs)
	assert.Equal(t, 150.0, result.TotalWeight)
}

func TestPlanLayoutCentimeterTruck(t *testing.T) {
	truck := domain.Truck{Length: 1000, Width: 250, Height: 260, Unit: domain.Centimeters}

	result := PlanLayout(truck, []domain.Crate{cube("c1", "A", 100)})

	require.Len(t, result.Placed, 1)
	assert.Equal(t, domain.Position{X: 0.5, Y: 0.5, Z: 0.5}, result.Placed[0].Position)
}
