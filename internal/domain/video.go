package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Source identifies where a video is hosted.
type Source string

const (
	SourceYouTube   Source = "youtube"
	SourceVimeo     Source = "vimeo"
	SourceInstagram Source = "instagram"
	SourceDropbox   Source = "dropbox"
	SourceExternal  Source = "external"
	SourceUnknown   Source = "unknown"
)

// Label returns the display label for a source.
func (s Source) Label() string {
	switch s {
	case SourceYouTube:
		return "YouTube"
	case SourceVimeo:
		return "Vimeo"
	case SourceInstagram:
		return "Instagram"
	case SourceDropbox:
		return "Dropbox"
	case SourceExternal:
		return "External"
	default:
		return "Other"
	}
}

// CanDownload reports whether the source supports direct byte retrieval.
// Only Dropbox-hosted files can be fetched through the download endpoint;
// platform embeds (YouTube, Vimeo, Instagram) cannot.
func (s Source) CanDownload() bool {
	return s == SourceDropbox
}

// Video represents a single gallery entry.
//
// It is the canonical in-memory form of a remote spreadsheet row. The
// collection store owns the authoritative copies; the local cache and the
// trash ledger only hold persisted snapshots of it.
type Video struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the stable identifier assigned by the remote store.
	// Legacy rows may arrive without one; EnsureID synthesizes a
	// content-hash identifier once at ingestion so identity never
	// falls back to array position.
	ID string `json:"id"`

	// ─────────────────────────────
	// Display fields (mutable via edit)
	// ─────────────────────────────

	Title       string `json:"title"`
	Description string `json:"description"`

	// Category must belong to the known category set; empty means
	// "Uncategorized" for display purposes.
	Category string `json:"category"`

	// Date is a free-form string as entered in the spreadsheet.
	// It is not reliably parseable; sorting is string-based only.
	Date string `json:"date"`

	// ─────────────────────────────
	// Media
	// ─────────────────────────────

	Source    Source `json:"source"`
	VideoURL  string `json:"videoUrl"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// UnmarshalJSON tolerates numeric identifiers, which legacy spreadsheet
// rows produce.
func (v *Video) UnmarshalJSON(data []byte) error {
	type alias Video
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.ID) > 0 && string(aux.ID) != "null" {
		var s string
		if err := json.Unmarshal(aux.ID, &s); err == nil {
			v.ID = s
		} else {
			var n json.Number
			if err := json.Unmarshal(aux.ID, &n); err != nil {
				return fmt.Errorf("invalid video id %s: %w", aux.ID, err)
			}
			v.ID = n.String()
		}
	}
	if v.Source == "" {
		v.Source = SourceUnknown
	}
	return nil
}

// EnsureID stamps a synthesized content-hash identifier on a video that
// arrived without one. The hash covers the fields that survive an edit
// round-trip, so the identifier stays stable across re-fetches.
func (v *Video) EnsureID() {
	if v.ID != "" {
		return
	}
	h := xxhash.New()
	_, _ = h.WriteString(v.Title)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(v.VideoURL)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(v.Date)
	v.ID = fmt.Sprintf("v%016x", h.Sum64())
}

// DisplayCategory returns the category, or "Uncategorized" when unset.
func (v *Video) DisplayCategory() string {
	if v.Category == "" {
		return "Uncategorized"
	}
	return v.Category
}

// PlayableURL rewrites share links into directly playable ones.
// Dropbox share URLs need the dl=0 parameter flipped to raw=1.
func (v *Video) PlayableURL() string {
	url := v.VideoURL
	if url == "" {
		return url
	}
	if v.Source == SourceDropbox || strings.Contains(url, "dropbox.com") {
		url = strings.ReplaceAll(url, "&dl=0", "&raw=1")
		url = strings.ReplaceAll(url, "?dl=0", "?raw=1")
	}
	return url
}

// DefaultThumbnail derives a thumbnail URL for videos that have none.
// YouTube entries get the platform's generated still; everything else
// falls back to a neutral placeholder.
func (v *Video) DefaultThumbnail() string {
	if v.Thumbnail != "" {
		return v.Thumbnail
	}
	if strings.Contains(v.VideoURL, "youtube.com") || strings.Contains(v.VideoURL, "youtu.be") {
		if id := ExtractYouTubeID(v.VideoURL); id != "" {
			return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
		}
	}
	return "https://via.placeholder.com/640x360/1a1a1a/333?text=Video"
}

// TrashItem is a deleted video snapshot held in the trash ledger.
type TrashItem struct {
	Video     Video     `json:"video"`
	DeletedAt time.Time `json:"deletedAt"`
}
