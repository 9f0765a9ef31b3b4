package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"cargo-layout-service/internal/api/dto"
	"cargo-layout-service/internal/platform/obs"
	"cargo-layout-service/internal/ports"
	"cargo-layout-service/internal/services"
)

// LayoutHandler computes a layout for the stored crate snapshot and the
// truck described in the request. The handler owns the memoization policy:
// when a cache is wired, unchanged snapshots are served from it and the
// engine is only invoked on a miss. Cache failures degrade to
// recomputation, never to an error response.
type LayoutHandler struct {
	Repo  ports.CrateRepository
	Cache ports.LayoutCache // optional; nil disables memoization
}

func (h *LayoutHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.LayoutRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	truck, err := req.Truck.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	crates, err := h.Repo.ListCrates(r.Context())
	if err != nil {
		log.Printf("list crates failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	defer obs.Time(r.Context(), "plan_layout")(nil)

	// Memoization covers the default policy only; the engine itself stays
	// cache-free.
	var key string
	if h.Cache != nil && !req.PlacedWeightOnly {
		k, keyErr := services.SnapshotKey(truck, crates)
		if keyErr != nil {
			log.Printf("snapshot key failed: %v", keyErr)
		} else if cached, ok, cacheErr := h.Cache.GetLayout(r.Context(), k); cacheErr != nil {
			log.Printf("layout cache get failed: %v", cacheErr)
			key = k
		} else if ok {
			writeJSON(w, r, http.StatusOK, dto.NewLayoutResponse(cached, true))
			return
		} else {
			key = k
		}
	}

	result := services.PlanLayoutWithOptions(truck, crates, services.LayoutOptions{
		PlacedWeightOnly: req.PlacedWeightOnly,
	})

	if h.Cache != nil && key != "" {
		if cacheErr := h.Cache.SetLayout(r.Context(), key, result); cacheErr != nil {
			log.Printf("layout cache set failed: %v", cacheErr)
		}
	}

	writeJSON(w, r, http.StatusOK, dto.NewLayoutResponse(result, false))
}
