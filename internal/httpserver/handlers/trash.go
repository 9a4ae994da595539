package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/logger"
)

// ListTrash returns the trash ledger in deletion order.
func ListTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, d.Collection.Trash())
	}
}

// RestoreFromTrash re-admits the trashed video at the given position.
func RestoreFromTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid trash position"})
			return
		}

		v, err := d.Collection.RestoreFromTrash(r.Context(), index)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		d.Logger.Info("video restored from trash", logger.String("id", v.ID))
		respondJSON(w, http.StatusOK, v)
	}
}

// RestoreAllFromTrash re-admits every trashed video.
func RestoreAllFromTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := d.Collection.RestoreAll(r.Context())
		respondJSON(w, http.StatusOK, map[string]int{"restored": n})
	}
}

// PurgeFromTrash drops one ledger entry for good.
func PurgeFromTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid trash position"})
			return
		}

		if err := d.Collection.PurgeTrash(r.Context(), index); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PurgeAllTrash empties the ledger. Irreversible, so the caller must
// pass confirm=true explicitly.
func PurgeAllTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "confirm=true required to empty the trash"})
			return
		}

		d.Collection.PurgeAllTrash(r.Context())
		d.Logger.Info("trash emptied")
		w.WriteHeader(http.StatusNoContent)
	}
}
