package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cargo-layout-service/internal/domain"
	"cargo-layout-service/internal/ports"

	"github.com/google/uuid"
)

// SQLite-backed implementation of the CrateRepository port.
//
// This is the persistence half of the crate editor: it assigns stable ids
// on create and snapshots the full crate list before every mutation so a
// single Undo can restore the previous state. Deleting a crate orphans any
// crate stacked on it back to the floor (the layout engine never mutates
// its input, so the cascade policy lives here).
type SqliteCrateRepository struct{ DB *sql.DB }

func NewSqliteCrateRepository(db *sql.DB) *SqliteCrateRepository {
	return &SqliteCrateRepository{DB: db}
}

const crateColumns = `
	crate_id,
	label,
	length, length_unit,
	width, width_unit,
	height, height_unit,
	weight,
	stackable,
	stack_target_id
`

// Return all crates in creation order.
func (s *SqliteCrateRepository) ListCrates(ctx context.Context) ([]domain.Crate, error) {
	if s.DB == nil {
		return nil, errors.New("crate repository: DB is nil")
	}

	// rowid grows with insertion and is untouched by UPDATE, so it gives
	// the stable ordering the layout engine's determinism relies on.
	query := `SELECT ` + crateColumns + ` FROM crates ORDER BY rowid;`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list crates: query crates table: %w", err)
	}
	defer rows.Close()

	crates := make([]domain.Crate, 0, 64)
	for rows.Next() {
		c, err := scanCrate(rows)
		if err != nil {
			return nil, fmt.Errorf("list crates: %w", err)
		}
		crates = append(crates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list crates: row iteration: %w", err)
	}

	return crates, nil
}

// Fetch a single crate by id.
func (s *SqliteCrateRepository) GetCrate(ctx context.Context, id string) (domain.Crate, error) {
	if s.DB == nil {
		return domain.Crate{}, errors.New("crate repository: DB is nil")
	}

	query := `SELECT ` + crateColumns + ` FROM crates WHERE crate_id = ?;`

	c, err := scanCrate(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Crate{}, fmt.Errorf("get crate %q: %w", id, ports.ErrCrateNotFound)
	}
	if err != nil {
		return domain.Crate{}, fmt.Errorf("get crate %q: %w", id, err)
	}

	return c, nil
}

// Insert a crate, assigning a fresh opaque id.
func (s *SqliteCrateRepository) CreateCrate(ctx context.Context, crate domain.Crate) (domain.Crate, error) {
	if s.DB == nil {
		return domain.Crate{}, errors.New("crate repository: DB is nil")
	}

	crate.ID = uuid.NewString()

	err := s.inSnapshotTx(ctx, func(tx *sql.Tx) error {
		query := `
		INSERT INTO crates (` + crateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`
		_, err := tx.ExecContext(ctx, query,
			crate.ID, crate.Label,
			crate.Length, string(crate.LengthUnit),
			crate.Width, string(crate.WidthUnit),
			crate.Height, string(crate.HeightUnit),
			crate.Weight, boolToInt(crate.Stackable), crate.StackTargetID,
		)
		return err
	})
	if err != nil {
		return domain.Crate{}, fmt.Errorf("create crate: %w", err)
	}

	return crate, nil
}

// Rewrite an existing crate in place.
func (s *SqliteCrateRepository) UpdateCrate(ctx context.Context, crate domain.Crate) error {
	if s.DB == nil {
		return errors.New("crate repository: DB is nil")
	}

	err := s.inSnapshotTx(ctx, func(tx *sql.Tx) error {
		query := `
		UPDATE crates SET
			label = ?,
			length = ?, length_unit = ?,
			width = ?, width_unit = ?,
			height = ?, height_unit = ?,
			weight = ?,
			stackable = ?,
			stack_target_id = ?
		WHERE crate_id = ?;
		`
		res, err := tx.ExecContext(ctx, query,
			crate.Label,
			crate.Length, string(crate.LengthUnit),
			crate.Width, string(crate.WidthUnit),
			crate.Height, string(crate.HeightUnit),
			crate.Weight, boolToInt(crate.Stackable), crate.StackTargetID,
			crate.ID,
		)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ports.ErrCrateNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update crate %q: %w", crate.ID, err)
	}

	return nil
}

// Remove a crate and orphan its stacked children back to the floor.
func (s *SqliteCrateRepository) DeleteCrate(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("crate repository: DB is nil")
	}

	err := s.inSnapshotTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM crates WHERE crate_id = ?;`, id)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ports.ErrCrateNotFound
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE crates SET stack_target_id = '' WHERE stack_target_id = ?;`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete crate %q: %w", id, err)
	}

	return nil
}

// Restore the most recent pre-mutation snapshot and pop it.
func (s *SqliteCrateRepository) Undo(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("crate repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("undo: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var snapshotID int64
	var payload string
	row := tx.QueryRowContext(ctx,
		`SELECT snapshot_id, payload FROM crate_snapshots ORDER BY snapshot_id DESC LIMIT 1;`)
	if err := row.Scan(&snapshotID, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.ErrNoSnapshot
		}
		return fmt.Errorf("undo: read snapshot: %w", err)
	}

	var crates []CrateSeed
	if err := json.Unmarshal([]byte(payload), &crates); err != nil {
		return fmt.Errorf("undo: parse snapshot %d: %w", snapshotID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM crates;`); err != nil {
		return fmt.Errorf("undo: clear crates: %w", err)
	}

	insert := `
	INSERT INTO crates (` + crateColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	for _, c := range crates {
		_, err := tx.ExecContext(ctx, insert,
			c.CrateID, c.Label,
			c.Length, c.LengthUnit,
			c.Width, c.WidthUnit,
			c.Height, c.HeightUnit,
			c.Weight, boolToInt(c.Stackable), c.StackTargetID,
		)
		if err != nil {
			return fmt.Errorf("undo: restore crate_id=%s: %w", c.CrateID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM crate_snapshots WHERE snapshot_id = ?;`, snapshotID); err != nil {
		return fmt.Errorf("undo: pop snapshot %d: %w", snapshotID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("undo: commit tx: %w", err)
	}

	return nil
}

// inSnapshotTx snapshots the current crate list, runs the mutation, and
// commits both atomically.
func (s *SqliteCrateRepository) inSnapshotTx(ctx context.Context, mutate func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := takeSnapshot(ctx, tx); err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}

	if err := mutate(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func takeSnapshot(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `SELECT `+crateColumns+` FROM crates ORDER BY rowid;`)
	if err != nil {
		return fmt.Errorf("query crates: %w", err)
	}
	defer rows.Close()

	seeds := make([]CrateSeed, 0, 64)
	for rows.Next() {
		c, err := scanCrate(rows)
		if err != nil {
			return err
		}
		seeds = append(seeds, CrateSeed{
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
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration: %w", err)
	}

	payload, err := json.Marshal(seeds)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO crate_snapshots (taken_at, payload) VALUES (?, ?);`,
		time.Now().UTC().Format(time.RFC3339), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCrate(row rowScanner) (domain.Crate, error) {
	var c domain.Crate
	var lu, wu, hu string
	var stackable int

	err := row.Scan(
		&c.ID, &c.Label,
		&c.Length, &lu,
		&c.Width, &wu,
		&c.Height, &hu,
		&c.Weight, &stackable, &c.StackTargetID,
	)
	if err != nil {
		return domain.Crate{}, err
	}

	c.LengthUnit = domain.Unit(lu)
	c.WidthUnit = domain.Unit(wu)
	c.HeightUnit = domain.Unit(hu)
	c.Stackable = stackable != 0
	return c, nil
}
