package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/httpserver/handlers"
	"github.com/scenegallery/scenegallery/internal/httpserver/mw"
)

func init() { Register(registerVideos) }

func registerVideos(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Route("/videos", func(r chi.Router) {
		r.Get("/", handlers.ListVideos(d))
		r.Post("/", handlers.CreateVideo(d))
		r.Post("/upload", handlers.UploadVideo(d))
		r.Post("/delete", handlers.DeleteVideos(d))
		r.Post("/bookmark", handlers.BookmarkVideos(d))
		r.Put("/{id}", handlers.UpdateVideo(d))
		r.Delete("/{id}", handlers.DeleteVideo(d))
		r.Get("/{id}/download", handlers.DownloadVideo(d))
		r.Put("/{id}/bookmarks", handlers.SetBookmarks(d))
	})
}
