package collection

import (
	"context"
	"sync"
	"time"

	"github.com/scenegallery/scenegallery/internal/domain"
	"github.com/scenegallery/scenegallery/internal/logger"
	"github.com/scenegallery/scenegallery/internal/remote"
)

// DefaultBookmarkCategory is created on demand when a bookmark is saved
// before any category exists.
const DefaultBookmarkCategory = "お気に入り"

// defaultCategories is served when the remote category list cannot be
// fetched and nothing is cached.
var defaultCategories = []string{"CM", "WEB CM", "MV"}

// Remote is the slice of the remote channel the store depends on.
type Remote interface {
	FetchVideos(ctx context.Context) ([]domain.Video, error)
	FetchCategories(ctx context.Context) ([]string, error)
	FetchBookmarkCategories(ctx context.Context) ([]string, error)
	FetchBookmarks(ctx context.Context) (map[string][]remote.BookmarkedVideo, error)

	SaveVideo(ctx context.Context, v domain.Video) remote.Result
	UpdateVideo(ctx context.Context, id, oldCategory, newCategory, title, description string) remote.Result
	DeleteVideo(ctx context.Context, id, category string) remote.Result
	AddCategory(ctx context.Context, name string) remote.Result
	AddBookmark(ctx context.Context, bookmarkCategory string, v domain.Video) remote.Result
	RemoveBookmark(ctx context.Context, bookmarkCategory, videoID string) remote.Result
	AddBookmarkCategory(ctx context.Context, name string) remote.Result
	RenameBookmarkCategory(ctx context.Context, oldName, newName string) remote.Result
	DeleteBookmarkCategory(ctx context.Context, name string) remote.Result
	UploadAndSave(ctx context.Context, req remote.UploadRequest) remote.Result
}

// Cache is the slice of the Redis store the collection depends on.
// A nil Cache degrades to a memory-only collection.
type Cache interface {
	SaveVideos(ctx context.Context, videos []domain.Video) error
	LoadVideos(ctx context.Context) ([]domain.Video, time.Duration, bool, error)
	SaveCategories(ctx context.Context, categories []string) error
	LoadCategories(ctx context.Context) ([]string, time.Duration, bool, error)
	SaveBookmarks(ctx context.Context, bookmarks map[string]domain.BookmarkEntry) error
	LoadBookmarks(ctx context.Context) (map[string]domain.BookmarkEntry, time.Duration, bool, error)
	SaveBookmarkCategories(ctx context.Context, categories []string) error
	LoadBookmarkCategories(ctx context.Context) ([]string, time.Duration, bool, error)
}

// Ledger is the trash ledger surface the store mutates through.
type Ledger interface {
	Add(ctx context.Context, v domain.Video)
	Items() []domain.TrashItem
	Take(ctx context.Context, id string) (domain.Video, bool)
	TakeAll(ctx context.Context) []domain.Video
	Purge(ctx context.Context, id string) bool
	PurgeAll(ctx context.Context)
}

// Status describes what the store is currently serving.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	// StatusOffline means the remote store is unreachable and the
	// collection is serving a stale cached snapshot.
	StatusOffline Status = "offline"
	StatusError   Status = "error"
)

// Store is the single authoritative owner of the gallery state: videos,
// categories, the bookmark index and the bookmark category list. All
// reads hand out copies; all mutations are optimistic, applying locally
// as soon as the matching remote command has been dispatched.
type Store struct {
	mu sync.RWMutex

	videos             []domain.Video
	categories         []string
	bookmarks          map[string]domain.BookmarkEntry
	bookmarkCategories []string

	status        Status
	statusMessage string
	lastHydrated  time.Time

	// generation is bumped each time a foreground hydration starts;
	// a fetch result is discarded unless its generation is still the
	// latest, so a slow stale fetch can never overwrite a newer one.
	generation uint64

	remote    Remote
	cache     Cache
	ledger    Ledger
	freshness time.Duration
	log       logger.Logger

	subMu sync.Mutex
	subs  []func()
}

// Options configures a Store.
type Options struct {
	Remote    Remote
	Cache     Cache
	Ledger    Ledger
	Freshness time.Duration // cache freshness window (0 = 5 minutes)
	Logger    logger.Logger
}

// New creates an empty Store in the loading state.
func New(opts Options) *Store {
	freshness := opts.Freshness
	if freshness <= 0 {
		freshness = 5 * time.Minute
	}
	return &Store{
		bookmarks: make(map[string]domain.BookmarkEntry),
		status:    StatusLoading,
		remote:    opts.Remote,
		cache:     opts.Cache,
		ledger:    opts.Ledger,
		freshness: freshness,
		log:       opts.Logger,
	}
}

// Subscribe registers a callback invoked after every state change.
// Callbacks run outside the store lock and must not block.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Status returns the current serving state and a human-readable message.
func (s *Store) Status() (Status, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.statusMessage
}

// Ready reports whether the store has a usable collection.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == StatusReady || s.status == StatusOffline
}

// Videos returns a copy of the active video set.
func (s *Store) Videos() []domain.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Video, len(s.videos))
	copy(out, s.videos)
	return out
}

// Video looks up a video by ID.
func (s *Store) Video(id string) (domain.Video, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.videos {
		if s.videos[i].ID == id {
			return s.videos[i], true
		}
	}
	return domain.Video{}, false
}

// Categories returns a copy of the category list.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// BookmarkCategories returns a copy of the bookmark category list.
func (s *Store) BookmarkCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.bookmarkCategories))
	copy(out, s.bookmarkCategories)
	return out
}

// Bookmarks returns a copy of the bookmark index keyed by video ID.
func (s *Store) Bookmarks() map[string]domain.BookmarkEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.BookmarkEntry, len(s.bookmarks))
	for id, entry := range s.bookmarks {
		out[id] = copyEntry(entry)
	}
	return out
}

// BookmarkEntry looks up the bookmark entry for a video.
func (s *Store) BookmarkEntry(id string) (domain.BookmarkEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.bookmarks[id]
	if !ok {
		return domain.BookmarkEntry{}, false
	}
	return copyEntry(entry), true
}

// IsBookmarked reports whether a video belongs to at least one bookmark
// category. An entry with an empty category set does not count.
func (s *Store) IsBookmarked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.bookmarks[id]
	return ok && len(entry.Categories) > 0
}

// Trash returns the trash ledger contents in deletion order.
func (s *Store) Trash() []domain.TrashItem {
	if s.ledger == nil {
		return nil
	}
	return s.ledger.Items()
}

func copyEntry(e domain.BookmarkEntry) domain.BookmarkEntry {
	cats := make([]string, len(e.Categories))
	copy(cats, e.Categories)
	e.Categories = cats
	return e
}

func (s *Store) logResult(op string, res remote.Result) {
	if res.Success || s.log == nil {
		return
	}
	s.log.Warn("remote command not dispatched",
		logger.String("op", op),
		logger.String("error", res.Error))
}
