package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/httpserver/handlers"
	"github.com/scenegallery/scenegallery/internal/httpserver/mw"
)

func init() { Register(registerLookup) }

func registerLookup(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Route("/lookup", func(r chi.Router) {
		r.Get("/vimeo", handlers.VimeoLookup(d))
		r.Get("/ogp", handlers.OGPLookup(d))
	})
}
