package domain

import (
	"fmt"
	"strings"
)

// Length unit accepted on input. All computed positions are meters.
type Unit string

const (
	Meters      Unit = "m"
	Centimeters Unit = "cm"
)

// ToMeters normalizes a length value to canonical meters.
// Centimeters divide by 100, meters pass through. The function is total:
// sign and magnitude are the caller's responsibility.
func ToMeters(value float64, unit Unit) float64 {
	if unit == Centimeters {
		return value / 100
	}
	return value
}

// ParseUnit maps external spellings ("m", "cm", "meter", "centimeter") to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "meter", "meters":
		return Meters, nil
	case "cm", "centimeter", "centimeters":
		return Centimeters, nil
	}
	return "", fmt.Errorf("parse unit: unknown unit %q", s)
}
