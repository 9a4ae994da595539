package handlers

import (
	"net/http"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
)

// ListCategories returns the gallery category list.
func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, d.Collection.Categories())
	}
}

// CreateCategory adds a gallery category.
func CreateCategory(d deps.Deps) http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Collection.AddCategory(r.Context(), req.Name); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
	}
}
