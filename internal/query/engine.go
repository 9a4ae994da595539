package query

import (
	"github.com/scenegallery/scenegallery/internal/domain"
)

const (
	// FilterAll matches every category.
	FilterAll = "All"
	// FilterBookmarks is the pseudo-category matching bookmarked videos.
	FilterBookmarks = "Bookmarks"
)

// Filter is one gallery view request. Composition is fixed:
// category filter, then text search, then sort.
type Filter struct {
	Category string
	Search   string
	Order    domain.Order
}

// Engine derives gallery views from a collection snapshot. It holds no
// state beyond the synonym table, so one engine serves all requests.
type Engine struct {
	synonyms domain.SynonymTable
}

// NewEngine creates an Engine. A nil synonym table disables synonym
// expansion but not script normalization.
func NewEngine(synonyms domain.SynonymTable) *Engine {
	return &Engine{synonyms: synonyms}
}

// Apply runs the filter pipeline over a snapshot. isBookmarked decides
// membership for the Bookmarks pseudo-category and may be nil when the
// filter does not use it.
func (e *Engine) Apply(videos []domain.Video, isBookmarked func(id string) bool, f Filter) []domain.Video {
	out := make([]domain.Video, 0, len(videos))
	for _, v := range videos {
		if !matchesCategory(&v, f.Category, isBookmarked) {
			continue
		}
		out = append(out, v)
	}

	if f.Search != "" {
		variants := e.synonyms.Expand(f.Search)
		filtered := out[:0]
		for _, v := range out {
			if domain.MatchesQuery(&v, variants) {
				filtered = append(filtered, v)
			}
		}
		out = filtered
	}

	domain.SortVideos(out, f.Order)
	return out
}

// BookmarkView derives the bookmarks page: snapshots of bookmarked
// videos, optionally restricted to one bookmark category and a search
// query, in the requested order.
func (e *Engine) BookmarkView(bookmarks map[string]domain.BookmarkEntry, category, search string, order domain.Order) []domain.Video {
	out := make([]domain.Video, 0, len(bookmarks))
	var variants []string
	if search != "" {
		variants = e.synonyms.Expand(search)
	}
	for _, entry := range bookmarks {
		if len(entry.Categories) == 0 {
			continue
		}
		if category != "" && category != FilterAll && !entry.HasCategory(category) {
			continue
		}
		v := entry.Snapshot
		if search != "" && !domain.MatchesQuery(&v, variants) {
			continue
		}
		out = append(out, v)
	}

	domain.SortVideos(out, order)
	return out
}

func matchesCategory(v *domain.Video, category string, isBookmarked func(id string) bool) bool {
	switch category {
	case "", FilterAll:
		return true
	case FilterBookmarks:
		return isBookmarked != nil && isBookmarked(v.ID)
	default:
		return v.Category == category
	}
}
