// Package site serves the embedded live scoreboard page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the scoreboard to mux. Only "/" and its assets are
// served; every other unmatched path is a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewRootHandler())
}

// RootHandler serves the embedded scoreboard files.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// ServeHTTP handles GET / and GET /board.js.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	switch r.URL.Path {
	case "/", "/board.js", "/board.css":
		h.files.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}
