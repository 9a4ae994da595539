package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/domain"
	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
)

// ListBookmarks derives the bookmarks page: snapshots of bookmarked
// videos, filtered by bookmark category and search query.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	type response struct {
		Videos     []domain.Video `json:"videos"`
		Categories []string       `json:"categories"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		videos := d.Engine.BookmarkView(
			d.Collection.Bookmarks(),
			params.Get("category"),
			strings.TrimSpace(params.Get("q")),
			domain.ParseOrder(params.Get("sort")),
		)
		respondJSON(w, http.StatusOK, response{
			Videos:     videos,
			Categories: d.Collection.BookmarkCategories(),
		})
	}
}

// ListBookmarkCategories returns the bookmark category list.
func ListBookmarkCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, d.Collection.BookmarkCategories())
	}
}

// CreateBookmarkCategory adds a bookmark category.
func CreateBookmarkCategory(d deps.Deps) http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Collection.AddBookmarkCategory(r.Context(), req.Name); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
	}
}

// RenameBookmarkCategory renames a bookmark category, cascading
// through every bookmark entry.
func RenameBookmarkCategory(d deps.Deps) http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		oldName := chi.URLParam(r, "name")
		if err := d.Collection.RenameBookmarkCategory(r.Context(), oldName, req.Name); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"name": req.Name})
	}
}

// DeleteBookmarkCategory removes a bookmark category, dropping
// bookmark entries left without any category.
func DeleteBookmarkCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Collection.DeleteBookmarkCategory(r.Context(), chi.URLParam(r, "name")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
