package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/httpserver/handlers"
	"github.com/scenegallery/scenegallery/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	cidrs := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)

	r.With(cidrs).Get("/healthz", handlers.Healthz(d))
	r.With(cidrs).Get("/readyz", handlers.Readyz(d))
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/status", handlers.Status(d))
	r.With(cidrs, mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
}
