package repositories

import (
	"context"
	"database/sql"
	"testing"

	"cargo-layout-service/internal/domain"
	"cargo-layout-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *SqliteCrateRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	require.NoError(t, InitSchema(db))
	return NewSqliteCrateRepository(db)
}

func testCrate(label string) domain.Crate {
	return domain.Crate{
		Label:  label,
		Length: 1, LengthUnit: domain.Meters,
		Width: 1, WidthUnit: domain.Meters,
		Height: 1, HeightUnit: domain.Meters,
		Weight: 100,
	}
}

func TestCrateRepositoryCreateAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.CreateCrate(ctx, testCrate("First"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := repo.CreateCrate(ctx, testCrate("Second"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	crates, err := repo.ListCrates(ctx)
	require.NoError(t, err)
	require.Len(t, crates, 2)

	// Creation order is preserved for deterministic layouts.
	assert.Equal(t, "First", crates[0].Label)
	assert.Equal(t, "Second", crates[1].Label)
}

func TestCrateRepositoryGetAndUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateCrate(ctx, testCrate("Original"))
	require.NoError(t, err)

	created.Label = "Renamed"
	created.Length = 250
	created.LengthUnit = domain.Centimeters
	require.NoError(t, repo.UpdateCrate(ctx, created))

	got, err := repo.GetCrate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Label)
	assert.Equal(t, 250.0, got.Length)
	assert.Equal(t, domain.Centimeters, got.LengthUnit)

	_, err = repo.GetCrate(ctx, "no-such-id")
	assert.ErrorIs(t, err, ports.ErrCrateNotFound)

	missing := testCrate("Ghost")
	missing.ID = "no-such-id"
	assert.ErrorIs(t, repo.UpdateCrate(ctx, missing), ports.ErrCrateNotFound)
}

func TestCrateRepositoryDeleteOrphansStackedChildren(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base, err := repo.CreateCrate(ctx, testCrate("Base"))
	require.NoError(t, err)

	top := testCrate("Top")
	top.StackTargetID = base.ID
	topStored, err := repo.CreateCrate(ctx, top)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCrate(ctx, base.ID))

	got, err := repo.GetCrate(ctx, topStored.ID)
	require.NoError(t, err)
	assert.Empty(t, got.StackTargetID, "child must fall back to the floor")

	assert.ErrorIs(t, repo.DeleteCrate(ctx, base.ID), ports.ErrCrateNotFound)
}

func TestCrateRepositoryUndo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateCrate(ctx, testCrate("Keep me"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCrate(ctx, created.ID))

	crates, err := repo.ListCrates(ctx)
	require.NoError(t, err)
	require.Empty(t, crates)

	// First undo reverts the delete, second the create.
	require.NoError(t, repo.Undo(ctx))
	crates, err = repo.ListCrates(ctx)
	require.NoError(t, err)
	require.Len(t, crates, 1)
	assert.Equal(t, created.ID, crates[0].ID)

	require.NoError(t, repo.Undo(ctx))
	crates, err = repo.ListCrates(ctx)
	require.NoError(t, err)
	assert.Empty(t, crates)

	assert.ErrorIs(t, repo.Undo(ctx), ports.ErrNoSnapshot)
}

func TestCrateRepositoryUndoAfterInterleavedWrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Popping a snapshot frees its id for the next write. Undo must still
	// restore strictly latest-first across the reuse.
	a, err := repo.CreateCrate(ctx, testCrate("A"))
	require.NoError(t, err)
	_, err = repo.CreateCrate(ctx, testCrate("B"))
	require.NoError(t, err)

	require.NoError(t, repo.Undo(ctx))

	_, err = repo.CreateCrate(ctx, testCrate("C"))
	require.NoError(t, err)

	require.NoError(t, repo.Undo(ctx))
	crates, err := repo.ListCrates(ctx)
	require.NoError(t, err)
	require.Len(t, crates, 1)
	assert.Equal(t, a.ID, crates[0].ID)

	require.NoError(t, repo.Undo(ctx))
	crates, err = repo.ListCrates(ctx)
	require.NoError(t, err)
	assert.Empty(t, crates)
}
