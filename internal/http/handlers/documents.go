package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"docforge/internal/domain"
)

// DownloadDocument streams a previously composed artifact by filename.
func (a *App) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := a.Store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no such document")
			return
		}
		a.Log.Error().Err(err).Str("name", name).Msg("open artifact")
		a.error(w, http.StatusInternalServerError, "internal", "failed to open document")
		return
	}
	defer f.Close()

	switch path.Ext(name) {
	case ".png":
		w.Header().Set("Content-Type", "image/png")
	case ".pdf":
		w.Header().Set("Content-Type", "application/pdf")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(name)+`"`)
	if _, err := io.Copy(w, f); err != nil {
		a.Log.Warn().Err(err).Str("name", name).Msg("stream artifact")
	}
}
