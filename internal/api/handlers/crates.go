package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"cargo-layout-service/internal/api/dto"
	"cargo-layout-service/internal/ports"
)

// CrateHandler exposes the crate editor over HTTP: list, create, update,
// delete, and a single-step undo over the store's snapshot history.
type CrateHandler struct {
	Repo ports.CrateRepository
}

// Collection serves /crates: GET lists all crates, POST creates one.
func (h *CrateHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodPost}, ", "))
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Item serves /crates/{id}: PUT updates, DELETE removes.
func (h *CrateHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/crates/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodPut, http.MethodDelete}, ", "))
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Undo restores the crate list to its state before the last mutation.
func (h *CrateHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.Repo.Undo(r.Context()); err != nil {
		if errors.Is(err, ports.ErrNoSnapshot) {
			writeError(w, r, http.StatusConflict, "nothing to undo")
			return
		}
		log.Printf("undo failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.list(w, r)
}

func (h *CrateHandler) list(w http.ResponseWriter, r *http.Request) {
	crates, err := h.Repo.ListCrates(r.Context())
	if err != nil {
		log.Printf("list crates failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCratesResponse{
		Crates: make([]dto.CrateResponse, 0, len(crates)),
	}
	for _, c := range crates {
		res.Crates = append(res.Crates, dto.NewCrateResponse(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *CrateHandler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCrate(w, r)
	if !ok {
		return
	}

	crate, err := req.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.Repo.CreateCrate(r.Context(), crate)
	if err != nil {
		log.Printf("create crate failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewCrateResponse(stored))
}

func (h *CrateHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	req, ok := decodeCrate(w, r)
	if !ok {
		return
	}

	crate, err := req.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	crate.ID = id

	if err := h.Repo.UpdateCrate(r.Context(), crate); err != nil {
		if errors.Is(err, ports.ErrCrateNotFound) {
			writeError(w, r, http.StatusNotFound, "crate not found")
			return
		}
		log.Printf("update crate failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewCrateResponse(crate))
}

func (h *CrateHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Repo.DeleteCrate(r.Context(), id); err != nil {
		if errors.Is(err, ports.ErrCrateNotFound) {
			writeError(w, r, http.StatusNotFound, "crate not found")
			return
		}
		log.Printf("delete crate failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeCrate(w http.ResponseWriter, r *http.Request) (dto.CrateRequest, bool) {
	var req dto.CrateRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return dto.CrateRequest{}, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return dto.CrateRequest{}, false
	}

	return req, true
}
