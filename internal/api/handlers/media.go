package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/audiocorpus/speechapi/internal/media"
)

type MediaHandler struct {
	store *media.Store
}

func NewMediaHandler(store *media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// Get serves the first stored audio file whose name starts with the requested
// name.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "fileName")

	path, err := h.store.Find(name)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Audio file not found"})
			return
		}
		slog.Error("media lookup failed", "name", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "media lookup failed"})
		return
	}

	http.ServeFile(w, r, path)
}
