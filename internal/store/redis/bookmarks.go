package redis

import (
	"context"
	"time"

	"github.com/scenegallery/scenegallery/internal/domain"
)

// SaveBookmarks stores the bookmark index keyed by video ID.
func (s *Store) SaveBookmarks(ctx context.Context, bookmarks map[string]domain.BookmarkEntry) error {
	return s.save(ctx, KeyBookmarks, bookmarks)
}

// LoadBookmarks retrieves the cached bookmark index and its age.
func (s *Store) LoadBookmarks(ctx context.Context) (map[string]domain.BookmarkEntry, time.Duration, bool, error) {
	var bookmarks map[string]domain.BookmarkEntry
	age, ok, err := s.load(ctx, KeyBookmarks, &bookmarks)
	if err != nil || !ok {
		return nil, 0, false, err
	}
	if bookmarks == nil {
		bookmarks = map[string]domain.BookmarkEntry{}
	}
	return bookmarks, age, true, nil
}

// SaveBookmarkCategories stores the bookmark category list snapshot.
func (s *Store) SaveBookmarkCategories(ctx context.Context, categories []string) error {
	return s.save(ctx, KeyBookmarkCategories, categories)
}

// LoadBookmarkCategories retrieves the cached bookmark category list and its age.
func (s *Store) LoadBookmarkCategories(ctx context.Context) ([]string, time.Duration, bool, error) {
	var categories []string
	age, ok, err := s.load(ctx, KeyBookmarkCategories, &categories)
	if err != nil || !ok {
		return nil, 0, false, err
	}
	return categories, age, true, nil
}
