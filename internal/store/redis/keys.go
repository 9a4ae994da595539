package redis

const (
	// KeyVideos holds the cached video collection envelope.
	KeyVideos = "gallery:videos"
	// KeyCategories holds the cached category list envelope.
	KeyCategories = "gallery:categories"
	// KeyBookmarks holds the cached bookmark index envelope.
	KeyBookmarks = "gallery:bookmarks"
	// KeyBookmarkCategories holds the cached bookmark category list envelope.
	KeyBookmarkCategories = "gallery:bookmark-categories"
	// KeyTrash holds the trash ledger envelope.
	KeyTrash = "gallery:trash"
)

// allKeys lists every key the cache owns, for Flush.
func allKeys() []string {
	return []string{KeyVideos, KeyCategories, KeyBookmarks, KeyBookmarkCategories, KeyTrash}
}
