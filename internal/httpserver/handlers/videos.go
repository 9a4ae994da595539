package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/scenegallery/scenegallery/internal/domain"
	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/logger"
	"github.com/scenegallery/scenegallery/internal/query"
	"github.com/scenegallery/scenegallery/internal/remote"
	"github.com/scenegallery/scenegallery/internal/utils"
)

type videoPage struct {
	Videos  []domain.Video `json:"videos"`
	Total   int            `json:"total"`
	Visible int            `json:"visible"`
	HasMore bool           `json:"hasMore"`
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
}

// ListVideos derives a gallery page. The visible window is monotonic
// across requests with the same filter, grows by one page when
// grow=true, and resets whenever filter, search or sort change.
func ListVideos(d deps.Deps) http.HandlerFunc {
	pager := query.NewPager(d.PageSize)
	var mu sync.Mutex
	var last query.Filter

	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		f := query.Filter{
			Category: params.Get("category"),
			Search:   strings.TrimSpace(params.Get("q")),
			Order:    domain.ParseOrder(params.Get("sort")),
		}

		results := d.Engine.Apply(d.Collection.Videos(), d.Collection.IsBookmarked, f)

		mu.Lock()
		if f != last {
			pager.Reset()
			last = f
		}
		mu.Unlock()

		if params.Get("grow") == "true" {
			pager.Grow(len(results))
		}
		visible := pager.Visible(len(results))

		status, message := d.Collection.Status()
		respondJSON(w, http.StatusOK, videoPage{
			Videos:  results[:visible],
			Total:   len(results),
			Visible: visible,
			HasMore: visible < len(results),
			Status:  string(status),
			Message: message,
		})
	}
}

// CreateVideo saves a new video draft.
func CreateVideo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft domain.Video
		if !decodeBody(w, r, &draft) {
			return
		}

		saved, err := d.Collection.SaveVideo(r.Context(), draft)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		d.Logger.Info("video saved",
			logger.String("id", saved.ID),
			logger.String("category", saved.Category))
		respondJSON(w, http.StatusCreated, saved)
	}
}

// UploadVideo accepts a multipart upload and dispatches it to the
// remote store as a base64 payload.
func UploadVideo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(domain.MaxUploadBytes); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file"})
			return
		}
		defer utils.Close(file)

		data, err := io.ReadAll(io.LimitReader(file, domain.MaxUploadBytes+1))
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		req := remote.UploadRequest{
			FileBase64:  base64.StdEncoding.EncodeToString(data),
			FileName:    header.Filename,
			MimeType:    header.Header.Get("Content-Type"),
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
			Thumbnail:   r.FormValue("thumbnail"),
		}
		if err := d.Collection.Upload(r.Context(), req, int64(len(data))); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		d.Logger.Info("upload dispatched",
			logger.String("filename", header.Filename),
			logger.Int("bytes", len(data)))
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "dispatched"})
	}
}

// UpdateVideo edits an existing video.
func UpdateVideo(d deps.Deps) http.HandlerFunc {
	type request struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}

		updated, err := d.Collection.UpdateVideo(r.Context(), chi.URLParam(r, "id"), req.Title, req.Description, req.Category)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

// DeleteVideo moves one video to the trash.
func DeleteVideo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Collection.DeleteVideo(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type bulkRequest struct {
	IDs []string `json:"ids"`
}

// DeleteVideos trashes a selection of videos in one call.
func DeleteVideos(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.IDs) == 0 {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "no ids given"})
			return
		}

		if err := d.Collection.DeleteMany(r.Context(), req.IDs); err != nil {
			respondError(w, d.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int{"deleted": len(req.IDs)})
	}
}

// BookmarkVideos bookmarks a selection of videos into the first
// bookmark category.
func BookmarkVideos(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.IDs) == 0 {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "no ids given"})
			return
		}

		n := d.Collection.BookmarkMany(r.Context(), req.IDs)
		respondJSON(w, http.StatusOK, map[string]int{"bookmarked": n})
	}
}

// DownloadVideo streams the stored file bytes of a downloadable video.
func DownloadVideo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := d.Collection.Video(chi.URLParam(r, "id"))
		if !ok {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: "video not found"})
			return
		}
		if !v.Source.CanDownload() {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "source does not support download"})
			return
		}

		dl, err := d.Channel.DownloadFile(r.Context(), v.VideoURL, v.Title)
		if err != nil {
			respondError(w, d.Logger, err)
			return
		}

		contentType := dl.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		filename := dl.Filename
		if filename == "" {
			filename = v.Title
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(dl.Data)
	}
}

// SetBookmarks replaces the desired bookmark category set of a video.
func SetBookmarks(d deps.Deps) http.HandlerFunc {
	type request struct {
		Categories []string `json:"categories"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}

		id := chi.URLParam(r, "id")
		if err := d.Collection.ApplyBookmarkChange(r.Context(), id, req.Categories); err != nil {
			respondError(w, d.Logger, err)
			return
		}

		entry, ok := d.Collection.BookmarkEntry(id)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		respondJSON(w, http.StatusOK, entry)
	}
}
