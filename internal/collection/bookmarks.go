package collection

import (
	"context"
	"fmt"

	"github.com/scenegallery/scenegallery/internal/domain"
)

// ApplyBookmarkChange reconciles a video's bookmark membership against
// the desired category set. Only the symmetric difference is
// dispatched, adds before removes, and the local entry is updated once
// the dispatches are initiated; bookmark state is never rolled back on
// a failed dispatch. Saving an identical set is a no-op.
func (s *Store) ApplyBookmarkChange(ctx context.Context, videoID string, desired []string) error {
	s.mu.RLock()
	var current *domain.BookmarkEntry
	if entry, ok := s.bookmarks[videoID]; ok {
		c := copyEntry(entry)
		current = &c
	}
	s.mu.RUnlock()

	added, removed := domain.DiffCategories(current, desired)
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	v, ok := s.Video(videoID)
	if !ok {
		if current == nil {
			return fmt.Errorf("video not found %s: %w", videoID, ErrNotFound)
		}
		v = current.Snapshot
	}

	for _, category := range added {
		s.ensureBookmarkCategory(ctx, category)
		s.logResult("addBookmark", s.remote.AddBookmark(ctx, category, v))
	}
	for _, category := range removed {
		s.logResult("removeBookmark", s.remote.RemoveBookmark(ctx, category, videoID))
	}

	s.mu.Lock()
	if len(desired) == 0 {
		delete(s.bookmarks, videoID)
	} else {
		entry := domain.BookmarkEntry{
			OriginalCategory: v.Category,
			Snapshot:         v,
		}
		if current != nil && current.OriginalCategory != "" {
			entry.OriginalCategory = current.OriginalCategory
		}
		for _, category := range desired {
			entry.AddCategory(category)
		}
		s.bookmarks[videoID] = entry
	}
	s.mu.Unlock()

	s.notify()
	s.persistBookmarks(ctx)
	return nil
}

// BookmarkMany adds every listed video to the first bookmark category,
// creating the default one when none exists. Videos already bookmarked
// are skipped.
func (s *Store) BookmarkMany(ctx context.Context, ids []string) int {
	target := ""
	if categories := s.BookmarkCategories(); len(categories) > 0 {
		target = categories[0]
	} else {
		target = DefaultBookmarkCategory
	}

	bookmarked := 0
	for _, id := range ids {
		if s.IsBookmarked(id) {
			continue
		}
		if err := s.ApplyBookmarkChange(ctx, id, []string{target}); err != nil {
			if s.log != nil {
				s.log.Warnf("bulk bookmark skipped %s: %v", id, err)
			}
			continue
		}
		bookmarked++
	}
	return bookmarked
}

// AddBookmarkCategory appends a bookmark category after dispatching it.
func (s *Store) AddBookmarkCategory(ctx context.Context, name string) error {
	if name == "" {
		return &domain.ValidationError{Field: "bookmarkCategory", Reason: "must not be empty"}
	}
	if contains(s.BookmarkCategories(), name) {
		return &domain.ValidationError{Field: "bookmarkCategory", Reason: "already exists"}
	}

	s.logResult("addBookmarkCategory", s.remote.AddBookmarkCategory(ctx, name))

	s.mu.Lock()
	s.bookmarkCategories = append(s.bookmarkCategories, name)
	s.mu.Unlock()

	s.notify()
	s.persistBookmarks(ctx)
	return nil
}

// RenameBookmarkCategory renames a bookmark category and rewrites the
// name through every bookmark entry that carries it.
func (s *Store) RenameBookmarkCategory(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return &domain.ValidationError{Field: "bookmarkCategory", Reason: "must not be empty"}
	}
	categories := s.BookmarkCategories()
	if !contains(categories, oldName) {
		return fmt.Errorf("bookmark category not found %s: %w", oldName, ErrNotFound)
	}
	if contains(categories, newName) {
		return &domain.ValidationError{Field: "bookmarkCategory", Reason: "already exists"}
	}

	s.logResult("renameBookmarkCategory", s.remote.RenameBookmarkCategory(ctx, oldName, newName))

	s.mu.Lock()
	for i := range s.bookmarkCategories {
		if s.bookmarkCategories[i] == oldName {
			s.bookmarkCategories[i] = newName
		}
	}
	for id, entry := range s.bookmarks {
		entry.RenameCategory(oldName, newName)
		s.bookmarks[id] = entry
	}
	s.mu.Unlock()

	s.notify()
	s.persistBookmarks(ctx)
	return nil
}

// DeleteBookmarkCategory removes a bookmark category, strips it from
// every entry and drops entries left with no categories at all.
func (s *Store) DeleteBookmarkCategory(ctx context.Context, name string) error {
	if !contains(s.BookmarkCategories(), name) {
		return fmt.Errorf("bookmark category not found %s: %w", name, ErrNotFound)
	}

	s.logResult("deleteBookmarkCategory", s.remote.DeleteBookmarkCategory(ctx, name))

	s.mu.Lock()
	kept := s.bookmarkCategories[:0]
	for _, category := range s.bookmarkCategories {
		if category != name {
			kept = append(kept, category)
		}
	}
	s.bookmarkCategories = kept

	for id, entry := range s.bookmarks {
		if entry.RemoveCategory(name) {
			delete(s.bookmarks, id)
			continue
		}
		s.bookmarks[id] = entry
	}
	s.mu.Unlock()

	s.notify()
	s.persistBookmarks(ctx)
	return nil
}

// ensureBookmarkCategory makes sure the target category exists before
// a bookmark lands in it.
func (s *Store) ensureBookmarkCategory(ctx context.Context, name string) {
	if contains(s.BookmarkCategories(), name) {
		return
	}
	s.logResult("addBookmarkCategory", s.remote.AddBookmarkCategory(ctx, name))

	s.mu.Lock()
	s.bookmarkCategories = append(s.bookmarkCategories, name)
	s.mu.Unlock()
}
