package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/scenegallery/scenegallery/internal/domain"
)

// Typed wrappers over Query/Command for every endpoint the remote store
// exposes.

// FetchVideos retrieves the full video collection (the default action).
func (c *Channel) FetchVideos(ctx context.Context) ([]domain.Video, error) {
	raw, err := c.Query(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	var videos []domain.Video
	if err := json.Unmarshal(raw, &videos); err != nil {
		return nil, fmt.Errorf("failed to decode video list: %w", err)
	}
	return videos, nil
}

// FetchCategories retrieves the known gallery categories.
func (c *Channel) FetchCategories(ctx context.Context) ([]string, error) {
	raw, err := c.Query(ctx, "getCategories", nil)
	if err != nil {
		return nil, err
	}
	var categories []string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// FetchBookmarkCategories retrieves the managed bookmark-category names.
func (c *Channel) FetchBookmarkCategories(ctx context.Context) ([]string, error) {
	raw, err := c.Query(ctx, "getBookmarkCategories", nil)
	if err != nil {
		return nil, err
	}
	var categories []string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode bookmark categories: %w", err)
	}
	return categories, nil
}

// BookmarkedVideo is a video snapshot inside a getBookmarks response,
// carrying the owning video's original gallery category.
type BookmarkedVideo struct {
	Video            domain.Video
	OriginalCategory string
}

func (b *BookmarkedVideo) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &b.Video); err != nil {
		return err
	}
	var aux struct {
		OriginalCategory string `json:"originalCategory"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.OriginalCategory = aux.OriginalCategory
	return nil
}

// FetchBookmarks retrieves the bookmark-category → video-snapshots map.
func (c *Channel) FetchBookmarks(ctx context.Context) (map[string][]BookmarkedVideo, error) {
	raw, err := c.Query(ctx, "getBookmarks", nil)
	if err != nil {
		return nil, err
	}
	var bookmarks map[string][]BookmarkedVideo
	if err := json.Unmarshal(raw, &bookmarks); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	return bookmarks, nil
}

// VimeoInfo is the metadata lookup result for a Vimeo video ID.
type VimeoInfo struct {
	Success   bool   `json:"success"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// FetchVimeoInfo looks up title and thumbnail for a Vimeo video.
func (c *Channel) FetchVimeoInfo(ctx context.Context, videoID string) (VimeoInfo, error) {
	params := url.Values{"videoId": {videoID}}
	raw, err := c.Query(ctx, "getVimeoInfo", params)
	if err != nil {
		return VimeoInfo{}, err
	}
	var info VimeoInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return VimeoInfo{}, fmt.Errorf("failed to decode vimeo info: %w", err)
	}
	return info, nil
}

// OGPInfo is a best-effort title/thumbnail scrape for an arbitrary URL.
type OGPInfo struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// FetchOGP scrapes open-graph metadata for a URL through the remote store.
func (c *Channel) FetchOGP(ctx context.Context, pageURL string) (OGPInfo, error) {
	params := url.Values{"url": {pageURL}}
	raw, err := c.Query(ctx, "fetchOgp", params)
	if err != nil {
		return OGPInfo{}, err
	}
	var info OGPInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return OGPInfo{}, fmt.Errorf("failed to decode ogp info: %w", err)
	}
	return info, nil
}

// FileDownload is a decoded downloadFile response.
type FileDownload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DownloadFile retrieves raw bytes for a source URL. The remote store
// base64-encodes the content; this decodes it before returning.
func (c *Channel) DownloadFile(ctx context.Context, fileURL, filename string) (FileDownload, error) {
	params := url.Values{"url": {fileURL}, "filename": {filename}}
	raw, err := c.Query(ctx, "downloadFile", params)
	if err != nil {
		return FileDownload{}, err
	}
	var payload struct {
		Data        string `json:"data"`
		ContentType string `json:"contentType"`
		Filename    string `json:"filename"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return FileDownload{}, fmt.Errorf("failed to decode download payload: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		return FileDownload{}, fmt.Errorf("failed to decode file content: %w", err)
	}
	name := payload.Filename
	if name == "" {
		name = filename
	}
	return FileDownload{Data: data, ContentType: payload.ContentType, Filename: name}, nil
}

// videoPayload flattens a video into the wire shape save/bookmark
// commands expect.
func videoPayload(v domain.Video) map[string]any {
	return map[string]any{
		"id":          v.ID,
		"title":       v.Title,
		"description": v.Description,
		"date":        v.Date,
		"category":    v.Category,
		"thumbnail":   v.Thumbnail,
		"videoUrl":    v.VideoURL,
		"source":      string(v.Source),
	}
}

// SaveVideo dispatches a saveVideo command. Used both for new entries
// and for trash restores (which carry the original id).
func (c *Channel) SaveVideo(ctx context.Context, v domain.Video) Result {
	return c.Command(ctx, "saveVideo", videoPayload(v))
}

// UpdateVideo dispatches an updateVideo command. The remote store needs
// the old category to locate the row.
func (c *Channel) UpdateVideo(ctx context.Context, id, oldCategory, newCategory, title, description string) Result {
	return c.Command(ctx, "updateVideo", map[string]any{
		"id":          id,
		"oldCategory": oldCategory,
		"newCategory": newCategory,
		"title":       title,
		"description": description,
	})
}

// DeleteVideo dispatches a deleteVideo command.
func (c *Channel) DeleteVideo(ctx context.Context, id, category string) Result {
	return c.Command(ctx, "deleteVideo", map[string]any{
		"id":       id,
		"category": category,
	})
}

// AddCategory dispatches an addCategory command.
func (c *Channel) AddCategory(ctx context.Context, name string) Result {
	return c.Command(ctx, "addCategory", map[string]any{"name": name})
}

// AddBookmark dispatches an addBookmark command with the full video
// snapshot, so the bookmarks sheet stays denormalized.
func (c *Channel) AddBookmark(ctx context.Context, bookmarkCategory string, v domain.Video) Result {
	return c.Command(ctx, "addBookmark", map[string]any{
		"bookmarkCategory": bookmarkCategory,
		"video":            videoPayload(v),
	})
}

// RemoveBookmark dispatches a removeBookmark command.
func (c *Channel) RemoveBookmark(ctx context.Context, bookmarkCategory, videoID string) Result {
	return c.Command(ctx, "removeBookmark", map[string]any{
		"bookmarkCategory": bookmarkCategory,
		"videoId":          videoID,
	})
}

// AddBookmarkCategory dispatches an addBookmarkCategory command.
func (c *Channel) AddBookmarkCategory(ctx context.Context, name string) Result {
	return c.Command(ctx, "addBookmarkCategory", map[string]any{"name": name})
}

// RenameBookmarkCategory dispatches a renameBookmarkCategory command.
func (c *Channel) RenameBookmarkCategory(ctx context.Context, oldName, newName string) Result {
	return c.Command(ctx, "renameBookmarkCategory", map[string]any{
		"oldName": oldName,
		"newName": newName,
	})
}

// DeleteBookmarkCategory dispatches a deleteBookmarkCategory command.
func (c *Channel) DeleteBookmarkCategory(ctx context.Context, name string) Result {
	return c.Command(ctx, "deleteBookmarkCategory", map[string]any{"name": name})
}

// UploadRequest carries a binary upload plus its metadata for
// uploadAndSave.
type UploadRequest struct {
	FileBase64  string
	FileName    string
	MimeType    string
	Title       string
	Description string
	Category    string
	Thumbnail   string
}

// UploadAndSave dispatches an uploadAndSave command (binary upload and
// row creation in one call).
func (c *Channel) UploadAndSave(ctx context.Context, req UploadRequest) Result {
	return c.Command(ctx, "uploadAndSave", map[string]any{
		"fileBase64":  req.FileBase64,
		"fileName":    req.FileName,
		"mimeType":    req.MimeType,
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"thumbnail":   req.Thumbnail,
	})
}
