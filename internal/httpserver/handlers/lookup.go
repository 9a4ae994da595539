package handlers

import (
	"net/http"
	"strings"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
)

// VimeoLookup proxies a Vimeo title/thumbnail lookup through the
// remote store, which holds the API credentials.
func VimeoLookup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		if id == "" {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing id"})
			return
		}

		info, err := d.Channel.FetchVimeoInfo(r.Context(), id)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, info)
	}
}

// OGPLookup fetches Open Graph metadata for an external URL through
// the remote store.
func OGPLookup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageURL := strings.TrimSpace(r.URL.Query().Get("url"))
		if pageURL == "" {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing url"})
			return
		}

		info, err := d.Channel.FetchOGP(r.Context(), pageURL)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, info)
	}
}
