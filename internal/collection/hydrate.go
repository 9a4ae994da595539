package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/scenegallery/scenegallery/internal/domain"
	"github.com/scenegallery/scenegallery/internal/logger"
)

// Hydrate loads the video collection. Unless forced, a cached snapshot
// younger than the freshness window is adopted immediately and the
// remote store is only consulted in the background. A forced or
// cache-stale hydration queries the remote store in the foreground,
// falling back to the cached snapshot at any age when the query fails.
// Hydrate errors only when the remote store is unreachable and nothing
// is cached.
func (s *Store) Hydrate(ctx context.Context, force bool) error {
	gen := s.beginHydration()

	if !force && s.cache != nil {
		videos, age, ok, err := s.cache.LoadVideos(ctx)
		if err != nil && s.log != nil {
			s.log.Warn("cache read failed", logger.Error(err))
		}
		if ok && age <= s.freshness {
			s.commitVideos(gen, videos, StatusReady, "")
			go s.Reconcile(context.WithoutCancel(ctx))
			return nil
		}
	}

	videos, err := s.remote.FetchVideos(ctx)
	if err == nil {
		for i := range videos {
			videos[i].EnsureID()
		}
		if s.commitVideos(gen, videos, StatusReady, "") {
			s.persistVideos(ctx, videos)
		}
		return nil
	}

	if s.log != nil {
		s.log.Warn("video fetch failed, trying cached snapshot", logger.Error(err))
	}
	if s.cache != nil {
		cached, age, ok, cacheErr := s.cache.LoadVideos(ctx)
		if cacheErr == nil && ok {
			msg := fmt.Sprintf("remote store unreachable, serving snapshot from %s ago", age.Round(time.Second))
			s.commitVideos(gen, cached, StatusOffline, msg)
			return nil
		}
	}

	s.mu.Lock()
	if gen == s.generation {
		s.status = StatusError
		s.statusMessage = "remote store unreachable and nothing cached"
	}
	s.mu.Unlock()
	s.notify()
	return fmt.Errorf("hydrate: %w", err)
}

// Reconcile re-queries the remote store and replaces the active set
// only when the result structurally differs from what is being served.
// A foreground hydration started after this reconcile wins: the result
// is discarded when the generation has moved on.
func (s *Store) Reconcile(ctx context.Context) error {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	videos, err := s.remote.FetchVideos(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Warn("background reconcile failed", logger.Error(err))
		}
		return err
	}
	for i := range videos {
		videos[i].EnsureID()
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	if equalJSON(s.videos, videos) {
		s.lastHydrated = time.Now()
		s.status = StatusReady
		s.statusMessage = ""
		s.mu.Unlock()
		return nil
	}
	s.videos = videos
	s.status = StatusReady
	s.statusMessage = ""
	s.lastHydrated = time.Now()
	s.mu.Unlock()

	s.notify()
	s.persistVideos(ctx, videos)
	return nil
}

// LoadCategories fetches the category list, falling back to the cached
// list and finally to the built-in defaults. It never errors: the
// gallery is usable with default categories.
func (s *Store) LoadCategories(ctx context.Context) []string {
	categories, err := s.remote.FetchCategories(ctx)
	if err == nil && len(categories) > 0 {
		s.setCategories(categories)
		if s.cache != nil {
			if err := s.cache.SaveCategories(ctx, categories); err != nil && s.log != nil {
				s.log.Warn("failed to cache categories", logger.Error(err))
			}
		}
		return categories
	}

	if s.log != nil && err != nil {
		s.log.Warn("category fetch failed", logger.Error(err))
	}
	if s.cache != nil {
		if cached, _, ok, cacheErr := s.cache.LoadCategories(ctx); cacheErr == nil && ok && len(cached) > 0 {
			s.setCategories(cached)
			return cached
		}
	}

	defaults := make([]string, len(defaultCategories))
	copy(defaults, defaultCategories)
	s.setCategories(defaults)
	return defaults
}

// LoadBookmarks hydrates the bookmark index: the bookmark category
// list first (cached list as offline fallback), then the per-category
// bookmark map folded into entries keyed by video ID. Rows that cannot
// produce a stable video ID are skipped.
func (s *Store) LoadBookmarks(ctx context.Context) error {
	categories, err := s.remote.FetchBookmarkCategories(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Warn("bookmark category fetch failed", logger.Error(err))
		}
		if s.cache != nil {
			if cached, _, ok, cacheErr := s.cache.LoadBookmarkCategories(ctx); cacheErr == nil && ok {
				categories = cached
			}
		}
	}

	byCategory, err := s.remote.FetchBookmarks(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Warn("bookmark fetch failed", logger.Error(err))
		}
		if s.cache != nil {
			if cached, _, ok, cacheErr := s.cache.LoadBookmarks(ctx); cacheErr == nil && ok {
				s.mu.Lock()
				s.bookmarks = cached
				s.bookmarkCategories = categories
				s.mu.Unlock()
				s.notify()
				return nil
			}
		}
		return fmt.Errorf("load bookmarks: %w", err)
	}

	index := make(map[string]domain.BookmarkEntry)
	for category, entries := range byCategory {
		for _, bv := range entries {
			v := bv.Video
			v.EnsureID()
			if v.ID == "" {
				continue
			}
			entry, ok := index[v.ID]
			if !ok {
				entry = domain.BookmarkEntry{
					OriginalCategory: bv.OriginalCategory,
					Snapshot:         v,
				}
			}
			entry.AddCategory(category)
			index[v.ID] = entry
		}
		if !contains(categories, category) {
			categories = append(categories, category)
		}
	}

	s.mu.Lock()
	s.bookmarks = index
	s.bookmarkCategories = categories
	s.mu.Unlock()

	s.notify()
	s.persistBookmarks(ctx)
	return nil
}

func (s *Store) beginHydration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// commitVideos installs a hydration result unless a newer hydration
// has been issued since gen was taken.
func (s *Store) commitVideos(gen uint64, videos []domain.Video, status Status, message string) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.videos = videos
	s.status = status
	s.statusMessage = message
	s.lastHydrated = time.Now()
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *Store) setCategories(categories []string) {
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	s.notify()
}

func (s *Store) persistVideos(ctx context.Context, videos []domain.Video) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveVideos(ctx, videos); err != nil && s.log != nil {
		s.log.Warn("failed to cache videos", logger.Error(err))
	}
}

func (s *Store) persistBookmarks(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveBookmarks(ctx, s.Bookmarks()); err != nil && s.log != nil {
		s.log.Warn("failed to cache bookmarks", logger.Error(err))
	}
	if err := s.cache.SaveBookmarkCategories(ctx, s.BookmarkCategories()); err != nil && s.log != nil {
		s.log.Warn("failed to cache bookmark categories", logger.Error(err))
	}
}

func equalJSON(a, b []domain.Video) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
