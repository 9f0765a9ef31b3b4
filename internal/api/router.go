package api

import (
	"net/http"

	"cargo-layout-service/internal/api/handlers"
	"cargo-layout-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// layoutCache may be nil; the layout endpoint then recomputes on every call.
func NewRouter(repo ports.CrateRepository, layoutCache ports.LayoutCache) http.Handler {
	mux := http.NewServeMux()

	crateHandler := &handlers.CrateHandler{Repo: repo}
	importHandler := &handlers.ImportHandler{Repo: repo}
	layoutHandler := &handlers.LayoutHandler{
		Repo:  repo,
		Cache: layoutCache,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/crates", crateHandler.Collection)
	mux.HandleFunc("/crates/undo", crateHandler.Undo)
	mux.HandleFunc("/crates/", crateHandler.Item)
	mux.HandleFunc("/imports", importHandler.Import)
	mux.HandleFunc("/layout", layoutHandler.Plan)

	return loggingMiddleware(mux)
}
