package dto

import (
	"fmt"

	"cargo-layout-service/internal/domain"
)

type TruckRequest struct {
	Length  float64  `json:"length"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Unit    string   `json:"unit"`
	MaxLoad *float64 `json:"max_load"`
}

func (r TruckRequest) ToDomain() (domain.Truck, error) {
	for name, v := range map[string]float64{
		"length": r.Length,
		"width":  r.Width,
		"height": r.Height,
	} {
		if v <= 0 {
			return domain.Truck{}, fmt.Errorf("truck %s must be positive", name)
		}
	}

	unit, err := domain.ParseUnit(r.Unit)
	if err != nil {
		return domain.Truck{}, err
	}

	return domain.Truck{
		Length:  r.Length,
		Width:   r.Width,
		Height:  r.Height,
		Unit:    unit,
		MaxLoad: r.MaxLoad,
	}, nil
}

type LayoutRequest struct {
	Truck TruckRequest `json:"truck"`
	// PlacedWeightOnly switches the capacity total to placed crates only.
	PlacedWeightOnly bool `json:"placed_weight_only"`
}

type PositionResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type SizeResponse struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PlacedCrateResponse struct {
	CrateID  string           `json:"crate_id"`
	Label    string           `json:"label"`
	Position PositionResponse `json:"position"`
	Size     SizeResponse     `json:"size"`
}

type OverlapResponse struct {
	A string `json:"a"`
	B string `json:"b"`
}

type LayoutResponse struct {
	Placed           []PlacedCrateResponse `json:"placed"`
	OverflowIDs      []string              `json:"overflow_ids"`
	Overlaps         []OverlapResponse     `json:"overlaps"`
	TotalWeight      float64               `json:"total_weight"`
	CapacityExceeded bool                  `json:"capacity_exceeded"`
	Cached           bool                  `json:"cached"`
}

func NewLayoutResponse(result domain.LayoutResult, cached bool) LayoutResponse {
	res := LayoutResponse{
		Placed:           make([]PlacedCrateResponse, 0, len(result.Placed)),
		OverflowIDs:      result.OverflowIDs,
		Overlaps:         make([]OverlapResponse, 0, len(result.Overlaps)),
		TotalWeight:      result.TotalWeight,
		CapacityExceeded: result.CapacityExceeded,
		Cached:           cached,
	}

	for _, p := range result.Placed {
		res.Placed = append(res.Placed, PlacedCrateResponse{
			CrateID: p.ID,
			Label:   p.Label,
			Position: PositionResponse{
				X: p.Position.X,
				Y: p.Position.Y,
				Z: p.Position.Z,
			},
			Size: SizeResponse{
				Length: p.Size.L,
				Width:  p.Size.W,
				Height: p.Size.H,
			},
		})
	}

	for _, o := range result.Overlaps {
		res.Overlaps = append(res.Overlaps, OverlapResponse{A: o.A, B: o.B})
	}

	if res.OverflowIDs == nil {
		res.OverflowIDs = []string{}
	}

	return res
}
