package collection

import (
	"context"
	"fmt"

	"github.com/scenegallery/scenegallery/internal/domain"
	"github.com/scenegallery/scenegallery/internal/remote"
)

// SaveVideo validates a draft, fills in platform-derived fields, then
// dispatches the save and applies it locally without waiting for the
// remote store to confirm.
func (s *Store) SaveVideo(ctx context.Context, draft domain.Video) (domain.Video, error) {
	if err := domain.ValidateDraft(&draft, s.Videos()); err != nil {
		return domain.Video{}, err
	}

	if p := domain.DetectPlatform(draft.VideoURL); p != nil {
		draft.Source = p.Source
		if draft.Thumbnail == "" {
			draft.Thumbnail = p.Thumbnail
		}
	} else if draft.Source == "" {
		draft.Source = domain.SourceUnknown
	}
	draft.EnsureID()

	s.logResult("saveVideo", s.remote.SaveVideo(ctx, draft))

	s.mu.Lock()
	s.videos = append(s.videos, draft)
	videos := make([]domain.Video, len(s.videos))
	copy(videos, s.videos)
	s.mu.Unlock()

	s.notify()
	s.persistVideos(ctx, videos)
	return draft, nil
}

// UpdateVideo edits title, description and category of an existing
// video. Validation failure blocks both the dispatch and the local
// change.
func (s *Store) UpdateVideo(ctx context.Context, id, title, description, category string) (domain.Video, error) {
	if err := domain.ValidateEdit(title, category); err != nil {
		return domain.Video{}, err
	}

	current, ok := s.Video(id)
	if !ok {
		return domain.Video{}, fmt.Errorf("video not found %s: %w", id, ErrNotFound)
	}

	s.logResult("updateVideo",
		s.remote.UpdateVideo(ctx, id, current.Category, category, title, description))

	s.mu.Lock()
	var updated domain.Video
	for i := range s.videos {
		if s.videos[i].ID == id {
			s.videos[i].Title = title
			s.videos[i].Description = description
			s.videos[i].Category = category
			updated = s.videos[i]
			break
		}
	}
	videos := make([]domain.Video, len(s.videos))
	copy(videos, s.videos)
	s.mu.Unlock()

	s.notify()
	s.persistVideos(ctx, videos)
	return updated, nil
}

// DeleteVideo dispatches the delete, then unconditionally moves the
// video from the active set to the trash ledger. A failed dispatch
// does not keep the video: the reconciler settles any divergence from
// remote truth later.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	v, ok := s.Video(id)
	if !ok {
		return fmt.Errorf("video not found %s: %w", id, ErrNotFound)
	}

	s.logResult("deleteVideo", s.remote.DeleteVideo(ctx, id, v.Category))

	s.mu.Lock()
	for i := range s.videos {
		if s.videos[i].ID == id {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			break
		}
	}
	videos := make([]domain.Video, len(s.videos))
	copy(videos, s.videos)
	s.mu.Unlock()

	if s.ledger != nil {
		s.ledger.Add(ctx, v)
	}

	s.notify()
	s.persistVideos(ctx, videos)
	return nil
}

// DeleteMany trashes every listed video, continuing past individual
// failures. The first error is reported after all IDs were attempted.
func (s *Store) DeleteMany(ctx context.Context, ids []string) error {
	var firstErr error
	for _, id := range ids {
		if err := s.DeleteVideo(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// AddCategory appends a new category locally after dispatching it.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	if name == "" {
		return &domain.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if contains(s.Categories(), name) {
		return &domain.ValidationError{Field: "category", Reason: "already exists"}
	}

	s.logResult("addCategory", s.remote.AddCategory(ctx, name))

	s.mu.Lock()
	s.categories = append(s.categories, name)
	categories := make([]string, len(s.categories))
	copy(categories, s.categories)
	s.mu.Unlock()

	s.notify()
	if s.cache != nil {
		_ = s.cache.SaveCategories(ctx, categories)
	}
	return nil
}

// Upload validates an upload request and dispatches it. size is the
// decoded byte count of the file. The remote store owns file
// ingestion, so no optimistic video is admitted; the next reconcile
// picks up the stored row.
func (s *Store) Upload(ctx context.Context, req remote.UploadRequest, size int64) error {
	if err := domain.ValidateUpload(req.FileName, req.MimeType, size, s.Videos()); err != nil {
		return err
	}

	res := s.remote.UploadAndSave(ctx, req)
	if !res.Success {
		return fmt.Errorf("upload not dispatched: %s", res.Error)
	}
	return nil
}

// RestoreFromTrash re-admits the trashed video at the given ledger
// position. The re-save command is best effort: the video returns to
// the active set even when the dispatch fails.
func (s *Store) RestoreFromTrash(ctx context.Context, index int) (domain.Video, error) {
	if s.ledger == nil {
		return domain.Video{}, fmt.Errorf("trash is not available")
	}
	items := s.ledger.Items()
	if index < 0 || index >= len(items) {
		return domain.Video{}, fmt.Errorf("no trash entry at position %d: %w", index, ErrNotFound)
	}

	v, ok := s.ledger.Take(ctx, items[index].Video.ID)
	if !ok {
		return domain.Video{}, fmt.Errorf("no trash entry at position %d: %w", index, ErrNotFound)
	}

	s.logResult("saveVideo", s.remote.SaveVideo(ctx, v))
	s.readmit(ctx, v)
	return v, nil
}

// RestoreAll re-admits every trashed video.
func (s *Store) RestoreAll(ctx context.Context) int {
	if s.ledger == nil {
		return 0
	}
	videos := s.ledger.TakeAll(ctx)
	for _, v := range videos {
		s.logResult("saveVideo", s.remote.SaveVideo(ctx, v))
		s.readmit(ctx, v)
	}
	return len(videos)
}

// PurgeTrash drops the ledger entry at the given position without
// restoring it. Local-only and irreversible.
func (s *Store) PurgeTrash(ctx context.Context, index int) error {
	if s.ledger == nil {
		return fmt.Errorf("trash is not available")
	}
	items := s.ledger.Items()
	if index < 0 || index >= len(items) {
		return fmt.Errorf("no trash entry at position %d: %w", index, ErrNotFound)
	}
	s.ledger.Purge(ctx, items[index].Video.ID)
	return nil
}

// PurgeAllTrash empties the ledger without restoring anything.
func (s *Store) PurgeAllTrash(ctx context.Context) {
	if s.ledger == nil {
		return
	}
	s.ledger.PurgeAll(ctx)
}

func (s *Store) readmit(ctx context.Context, v domain.Video) {
	s.mu.Lock()
	present := false
	for i := range s.videos {
		if s.videos[i].ID == v.ID {
			present = true
			break
		}
	}
	if !present {
		s.videos = append(s.videos, v)
	}
	videos := make([]domain.Video, len(s.videos))
	copy(videos, s.videos)
	s.mu.Unlock()

	s.notify()
	s.persistVideos(ctx, videos)
}
