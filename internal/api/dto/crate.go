package dto

import (
	"errors"
	"fmt"
	"strings"

	"cargo-layout-service/internal/domain"
)

type CrateRequest struct {
	Label         string  `json:"label"`
	Length        float64 `json:"length"`
	LengthUnit    string  `json:"length_unit"`
	Width         float64 `json:"width"`
	WidthUnit     string  `json:"width_unit"`
	Height        float64 `json:"height"`
	HeightUnit    string  `json:"height_unit"`
	Weight        float64 `json:"weight"`
	Stackable     bool    `json:"stackable"`
	StackTargetID string  `json:"stack_target_id"`
}

// ToDomain validates the editor-side constraints (the layout engine
// assumes well-formed crates) and maps the request onto a domain crate.
func (r CrateRequest) ToDomain() (domain.Crate, error) {
	if strings.TrimSpace(r.Label) == "" {
		return domain.Crate{}, errors.New("label is required")
	}

	for name, v := range map[string]float64{
		"length": r.Length,
		"width":  r.Width,
		"height": r.Height,
	} {
		if v <= 0 {
			return domain.Crate{}, fmt.Errorf("%s must be positive", name)
		}
	}

	if r.Weight < 0 {
		return domain.Crate{}, errors.New("weight must not be negative")
	}

	lu, err := domain.ParseUnit(r.LengthUnit)
	if err != nil {
		return domain.Crate{}, err
	}
	wu, err := domain.ParseUnit(r.WidthUnit)
	if err != nil {
		return domain.Crate{}, err
	}
	hu, err := domain.ParseUnit(r.HeightUnit)
	if err != nil {
		return domain.Crate{}, err
	}

	return domain.Crate{
		Label:         strings.TrimSpace(r.Label),
		Length:        r.Length,
		LengthUnit:    lu,
		Width:         r.Width,
		WidthUnit:     wu,
		Height:        r.Height,
		HeightUnit:    hu,
		Weight:        r.Weight,
		Stackable:     r.Stackable,
		StackTargetID: strings.TrimSpace(r.StackTargetID),
	}, nil
}

type CrateResponse struct {
	CrateID       string  `json:"crate_id"`
	Label         string  `json:"label"`
	Length        float64 `json:"length"`
	LengthUnit    string  `json:"length_unit"`
	Width         float64 `json:"width"`
	WidthUnit     string  `json:"width_unit"`
	Height        float64 `json:"height"`
	HeightUnit    string  `json:"height_unit"`
	Weight        float64 `json:"weight"`
	Stackable     bool    `json:"stackable"`
	StackTargetID string  `json:"stack_target_id,omitempty"`
}

func NewCrateResponse(c domain.Crate) CrateResponse {
	return CrateResponse{
		CrateID:       c.ID,
		Label:         c.Label,
		Length:        c.Length,
		LengthUnit:    string(c.LengthUnit),
		Width:         c.Width,
		WidthUnit:     string(c.WidthUnit),
		Height:        c.Height,
		HeightUnit:    string(c.HeightUnit),
		Weight:        c.Weight,
		Stackable:     c.Stackable,
		StackTargetID: c.StackTargetID,
	}
}

type ListCratesResponse struct {
	Crates []CrateResponse `json:"crates"`
}

type SkippedRowResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ImportResponse struct {
	Imported int                  `json:"imported"`
	Crates   []CrateResponse      `json:"crates"`
	Skipped  []SkippedRowResponse `json:"skipped"`
}
