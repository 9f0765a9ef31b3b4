// Package importer maps external tabular crate data onto domain values.
//
// Rows are validated here so malformed input never reaches the layout
// engine: the engine's contract assumes well-formed crates and pushes
// sanitization onto this upstream boundary.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cargo-layout-service/internal/domain"
)

// SkippedRow records one rejected input row and the reason.
type SkippedRow struct {
	Line   int
	Reason string
}

// ImportResult carries the accepted crates (ids unassigned; the editor's
// store assigns them on insert) and the rows filtered out.
type ImportResult struct {
	Crates  []domain.Crate
	Skipped []SkippedRow
}

var requiredColumns = []string{"label", "length", "width", "height", "weight"}

// ParseCrates reads CSV rows into crates. Header names are matched
// case-insensitively; label, length, width, height and weight are
// required, unit (applied to all axes), stackable and stack_target are
// optional. Rows missing a label or holding a non-numeric value are
// skipped with a reason rather than failing the import.
//
// A stack_target names another row's *label*; consumers translate it to
// the assigned crate id once the store hands ids out. Rows whose target
// matches no other accepted row are skipped here, so downstream
// translation is total.
func ParseCrates(r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ImportResult{}, errors.New("parse crates: input is empty")
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse crates: read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return ImportResult{}, fmt.Errorf("parse crates: missing required column %q", name)
		}
	}

	result := ImportResult{
		Crates:  make([]domain.Crate, 0, 64),
		Skipped: make([]SkippedRow, 0),
	}

	accepted := make([]domain.Crate, 0, 64)
	lines := make([]int, 0, 64)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRow{Line: line, Reason: "malformed csv row"})
			continue
		}

		crate, reason := mapRow(cols, record)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{Line: line, Reason: reason})
			continue
		}
		accepted = append(accepted, crate)
		lines = append(lines, line)
	}

	// Second pass: a stack_target must name another accepted row's label.
	// Targets may point forward in the file, so this runs after all rows
	// are read.
	labels := make(map[string]int, len(accepted))
	for _, c := range accepted {
		labels[c.Label]++
	}

	for i, c := range accepted {
		if c.StackTargetID != "" {
			if c.StackTargetID == c.Label && labels[c.Label] == 1 {
				result.Skipped = append(result.Skipped, SkippedRow{Line: lines[i], Reason: "stack_target refers to itself"})
				continue
			}
			if labels[c.StackTargetID] == 0 {
				result.Skipped = append(result.Skipped, SkippedRow{
					Line:   lines[i],
					Reason: fmt.Sprintf("unknown stack_target %q", c.StackTargetID),
				})
				continue
			}
		}
		result.Crates = append(result.Crates, c)
	}

	return result, nil
}

func mapRow(cols map[string]int, record []string) (domain.Crate, string) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	label := field("label")
	if label == "" {
		return domain.Crate{}, "missing label"
	}

	unit := domain.Meters
	if raw := field("unit"); raw != "" {
		parsed, err := domain.ParseUnit(raw)
		if err != nil {
			return domain.Crate{}, fmt.Sprintf("unknown unit %q", raw)
		}
		unit = parsed
	}

	dims := make(map[string]float64, 4)
	for _, name := range []string{"length", "width", "height", "weight"} {
		raw := field(name)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Crate{}, fmt.Sprintf("non-numeric %s %q", name, raw)
		}
		dims[name] = v
	}

	stackable := false
	if raw := field("stackable"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.Crate{}, fmt.Sprintf("invalid stackable flag %q", raw)
		}
		stackable = v
	}

	return domain.Crate{
		Label:         label,
		Length:        dims["length"],
		LengthUnit:    unit,
		Width:         dims["width"],
		WidthUnit:     unit,
		Height:        dims["height"],
		HeightUnit:    unit,
		Weight:        dims["weight"],
		Stackable:     stackable,
		StackTargetID: field("stack_target"),
	}, ""
}
