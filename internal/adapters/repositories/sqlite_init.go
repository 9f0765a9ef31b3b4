package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cargo-layout-service/internal/domain"
)

// Initialize the crate store schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCratesQuery := `
	CREATE TABLE IF NOT EXISTS crates (
		crate_id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		length REAL NOT NULL,
		length_unit TEXT NOT NULL,
		width REAL NOT NULL,
		width_unit TEXT NOT NULL,
		height REAL NOT NULL,
		height_unit TEXT NOT NULL,
		weight REAL NOT NULL,
		stackable INTEGER NOT NULL DEFAULT 0,
		stack_target_id TEXT NOT NULL DEFAULT ''
	);
	`

	createSnapshotsQuery := `
	CREATE TABLE IF NOT EXISTS crate_snapshots (
		snapshot_id INTEGER PRIMARY KEY,
		taken_at TEXT NOT NULL,
		payload TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_crates_stack_target
	ON crates(stack_target_id);
	`

	statements := []string{
		createCratesQuery,
		createSnapshotsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CrateSeed struct {
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
	StackTargetID string  `json:"stack_target_id"`
}

// Populate the crate store from a JSON file for local/demo runs.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed crates: read %q: %w", jsonPath, err)
	}

	var data []CrateSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed crates: parse json: %w", err)
	}

	rows := make([]CrateSeed, 0, len(data))
	for i, item := range data {
		if strings.TrimSpace(item.CrateID) == "" {
			return fmt.Errorf("seed crates: missing crate_id at index %d", i+1)
		}

		if strings.TrimSpace(item.Label) == "" {
			return fmt.Errorf("seed crates: crate_id=%s: label cannot be empty", item.CrateID)
		}

		for _, u := range []string{item.LengthUnit, item.WidthUnit, item.HeightUnit} {
			if _, err := domain.ParseUnit(u); err != nil {
				return fmt.Errorf("seed crates: crate_id=%s: %w", item.CrateID, err)
			}
		}
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed crates: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO crates (
		crate_id,
		label,
		length, length_unit,
		width, width_unit,
		height, height_unit,
		weight,
		stackable,
		stack_target_id
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed crates: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range rows {
		lu, _ := domain.ParseUnit(c.LengthUnit)
		wu, _ := domain.ParseUnit(c.WidthUnit)
		hu, _ := domain.ParseUnit(c.HeightUnit)

		_, err := stmt.Exec(
			c.CrateID, c.Label,
			c.Length, string(lu),
			c.Width, string(wu),
			c.Height, string(hu),
			c.Weight, boolToInt(c.Stackable), c.StackTargetID,
		)
		if err != nil {
			return fmt.Errorf("seed crates: insert crate_id=%s: %w", c.CrateID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed crates: commit tx: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
