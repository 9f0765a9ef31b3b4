package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"cargo-layout-service/internal/adapters/importer"
	"cargo-layout-service/internal/api/dto"
	"cargo-layout-service/internal/domain"
	"cargo-layout-service/internal/ports"
)

var errMissingImportFile = errors.New(`multipart form must include a "file" part`)

// ImportHandler accepts spreadsheet exports and feeds the valid rows into
// the crate store. Malformed rows never reach the store; they come back in
// the response with line numbers.
type ImportHandler struct {
	Repo ports.CrateRepository
}

func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := importBody(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	result, err := importer.ParseCrates(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := dto.ImportResponse{
		Crates:  make([]dto.CrateResponse, 0, len(result.Crates)),
		Skipped: make([]dto.SkippedRowResponse, 0, len(result.Skipped)),
	}

	// The importer's stack_target carries a label; the store assigns ids
	// only on insert. Create everything as floor crates first, then point
	// stacked crates at their base's assigned id.
	stored := make([]domain.Crate, 0, len(result.Crates))
	targets := make([]string, 0, len(result.Crates))
	idByLabel := make(map[string]string, len(result.Crates))

	for _, c := range result.Crates {
		target := c.StackTargetID
		c.StackTargetID = ""

		s, err := h.Repo.CreateCrate(r.Context(), c)
		if err != nil {
			log.Printf("import crate failed: label=%q err=%v", c.Label, err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		stored = append(stored, s)
		targets = append(targets, target)
		idByLabel[s.Label] = s.ID
	}

	for i := range stored {
		if targets[i] == "" {
			continue
		}

		// The importer guarantees the target label exists in the batch;
		// a failed lookup leaves the crate on the floor.
		id, ok := idByLabel[targets[i]]
		if !ok {
			continue
		}

		stored[i].StackTargetID = id
		if err := h.Repo.UpdateCrate(r.Context(), stored[i]); err != nil {
			log.Printf("import crate stack target failed: label=%q err=%v", stored[i].Label, err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	for _, c := range stored {
		res.Crates = append(res.Crates, dto.NewCrateResponse(c))
	}

	for _, s := range result.Skipped {
		res.Skipped = append(res.Skipped, dto.SkippedRowResponse{Line: s.Line, Reason: s.Reason})
	}
	res.Imported = len(res.Crates)

	writeJSON(w, r, http.StatusOK, res)
}

// importBody returns the CSV payload: the "file" part of a multipart form,
// or the raw request body for direct text uploads.
func importBody(r *http.Request) (io.ReadCloser, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errMissingImportFile
		}
		return file, nil
	}
	return r.Body, nil
}
