package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/httpserver/handlers"
	"github.com/scenegallery/scenegallery/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	host := mw.EnforceHost(d.AllowedHosts, d.Logger)

	r.With(host).Get("/bookmarks", handlers.ListBookmarks(d))

	r.With(host).Route("/bookmark-categories", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarkCategories(d))
		r.Post("/", handlers.CreateBookmarkCategory(d))
		r.Put("/{name}", handlers.RenameBookmarkCategory(d))
		r.Delete("/{name}", handlers.DeleteBookmarkCategory(d))
	})
}
