package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/themxtr/idealab2.1-sub000/internal/store"
)

// handleQuote serves GET /api/quotes/{id} from the quote ledger.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	if s.deps.Store == nil {
		writeError(w, http.StatusNotFound, "Quote recording is disabled")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/quotes/"), "/")
	if id == "" {
		recent, err := s.deps.Store.Recent(r.Context(), 20)
		if err != nil {
			writeInternal(w, "Failed to list quotes", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "quotes": recent})
		return
	}

	rec, err := s.deps.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Quote not found")
		return
	}
	if err != nil {
		writeInternal(w, "Failed to load quote", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "quote": rec})
}
