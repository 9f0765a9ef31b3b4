package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"cargo-layout-service/internal/domain"

	"github.com/cespare/xxhash/v2"
)

// SnapshotKey derives a stable digest of the full planning input, used by
// the serving layer to memoize layouts. JSON encoding is canonical enough
// here: struct field order is fixed and the crate list arrives in stable
// store order, so identical snapshots hash identically.
func SnapshotKey(truck domain.Truck, crates []domain.Crate) (string, error) {
	h := xxhash.New()

	enc := json.NewEncoder(h)
	if err := enc.Encode(truck); err != nil {
		return "", fmt.Errorf("snapshot key: encode truck: %w", err)
	}
	if err := enc.Encode(crates); err != nil {
		return "", fmt.Errorf("snapshot key: encode crates: %w", err)
	}

	return strconv.FormatUint(h.Sum64(), 16), nil
}
