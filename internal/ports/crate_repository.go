package ports

import (
	"cargo-layout-service/internal/domain"
	"context"
	"errors"
)

// ErrCrateNotFound is returned when a crate id does not exist in the store.
var ErrCrateNotFound = errors.New("crate not found")

// ErrNoSnapshot is returned by Undo when there is no history to restore.
var ErrNoSnapshot = errors.New("no snapshot to restore")

// Port: a boundary for the crate editor's persistence. Implementations own
// id assignment (ids are opaque, stable keys to the layout engine) and the
// undo history, which snapshots the full crate list before every mutation.
type CrateRepository interface {
	// List all crates in stable creation order.
	ListCrates(ctx context.Context) ([]domain.Crate, error)
	// Fetch one crate by id.
	GetCrate(ctx context.Context, id string) (domain.Crate, error)
	// Insert a crate, assigning its id; the stored crate is returned.
	CreateCrate(ctx context.Context, crate domain.Crate) (domain.Crate, error)
	// Rewrite an existing crate identified by crate.ID.
	UpdateCrate(ctx context.Context, crate domain.Crate) error
	// Remove a crate. Crates stacked on it are orphaned back to the floor.
	DeleteCrate(ctx context.Context, id string) error
	// Restore the crate list to the most recent pre-mutation snapshot.
	Undo(ctx context.Context) error
}
