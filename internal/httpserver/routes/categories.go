package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/httpserver/handlers"
	"github.com/scenegallery/scenegallery/internal/httpserver/mw"
)

func init() { Register(registerCategories) }

func registerCategories(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Route("/categories", func(r chi.Router) {
		r.Get("/", handlers.ListCategories(d))
		r.Post("/", handlers.CreateCategory(d))
	})
}
