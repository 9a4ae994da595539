package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/httpserver/handlers"
	"github.com/scenegallery/scenegallery/internal/httpserver/mw"
)

func init() { Register(registerTrash) }

func registerTrash(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Route("/trash", func(r chi.Router) {
		r.Get("/", handlers.ListTrash(d))
		r.Post("/restore-all", handlers.RestoreAllFromTrash(d))
		r.Post("/{index}/restore", handlers.RestoreFromTrash(d))
		r.Delete("/{index}", handlers.PurgeFromTrash(d))
		r.Delete("/", handlers.PurgeAllTrash(d))
	})
}
