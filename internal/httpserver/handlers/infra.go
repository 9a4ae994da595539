package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/logger"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Version       string  `json:"version,omitempty"`
	Commit        string  `json:"commit,omitempty"`
	BuildDate     string  `json:"build_date,omitempty"`
	GoVersion     string  `json:"go_version,omitempty"`
}

func Healthz(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(healthzResponse{
			Status:        "ok",
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
			UptimeSeconds: time.Since(start).Seconds(),
		})
	}
}

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports readiness: the collection must have something to
// serve, fresh or stale.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := d.Collection.Ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, readyzResponse{Ready: ready})
	}
}

type galleryStatus struct {
	Status             string `json:"status"`
	Message            string `json:"message,omitempty"`
	Videos             int    `json:"videos"`
	Categories         int    `json:"categories"`
	BookmarkCategories int    `json:"bookmark_categories"`
	Trash              int    `json:"trash"`
	Redis              bool   `json:"redis"`
}

// Status is the machine-readable equivalent of the gallery's status
// indicator: what is being served and where it came from.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, message := d.Collection.Status()
		respondJSON(w, http.StatusOK, galleryStatus{
			Status:             string(status),
			Message:            message,
			Videos:             len(d.Collection.Videos()),
			Categories:         len(d.Collection.Categories()),
			BookmarkCategories: len(d.Collection.BookmarkCategories()),
			Trash:              len(d.Collection.Trash()),
			Redis:              checkRedis(d),
		})
	}
}

func checkRedis(d deps.Deps) bool {
	if d.RedisClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.RedisClient.Ping(ctx).Err() == nil
}

// Reload triggers a manual reconcile against the remote store.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("reload triggered\n"))
		default:
			d.Logger.Warn("reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("reload already in progress\n"))
		}
	}
}
