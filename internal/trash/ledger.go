package trash

import (
	"context"
	"sync"
	"time"

	"github.com/scenegallery/scenegallery/internal/domain"
	"github.com/scenegallery/scenegallery/internal/logger"
)

// Persister saves and restores the ledger across restarts. Persistence
// is best effort: a failing persister never blocks a trash operation.
type Persister interface {
	SaveTrash(ctx context.Context, items []domain.TrashItem) error
	LoadTrash(ctx context.Context) ([]domain.TrashItem, error)
}

// Ledger collects deleted videos so they can be restored later. It is
// strictly local state: nothing here is ever pushed to the remote
// store, and entries only leave through an explicit restore or purge.
type Ledger struct {
	mu    sync.RWMutex
	items []domain.TrashItem

	store Persister
	log   logger.Logger
}

// NewLedger creates a Ledger. store may be nil for a memory-only ledger.
func NewLedger(store Persister, log logger.Logger) *Ledger {
	return &Ledger{
		store: store,
		log:   log,
	}
}

// Load restores the persisted ledger. Called once at startup.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	items, err := l.store.LoadTrash(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Add appends a deleted video to the ledger. A video already present
// keeps its place but gets a fresh snapshot and deletion time.
func (l *Ledger) Add(ctx context.Context, v domain.Video) {
	l.mu.Lock()
	item := domain.TrashItem{Video: v, DeletedAt: time.Now()}
	replaced := false
	for i := range l.items {
		if l.items[i].Video.ID == v.ID {
			l.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		l.items = append(l.items, item)
	}
	l.mu.Unlock()

	l.persist(ctx)
}

// Items returns a copy of the ledger in deletion order.
func (l *Ledger) Items() []domain.TrashItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.TrashItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of trashed videos.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Take removes the entry for id and returns its video snapshot, for
// restoring into the collection.
func (l *Ledger) Take(ctx context.Context, id string) (domain.Video, bool) {
	l.mu.Lock()
	var (
		video domain.Video
		found bool
	)
	for i := range l.items {
		if l.items[i].Video.ID == id {
			video = l.items[i].Video
			l.items = append(l.items[:i], l.items[i+1:]...)
			found = true
			break
		}
	}
	l.mu.Unlock()

	if found {
		l.persist(ctx)
	}
	return video, found
}

// TakeAll empties the ledger and returns every video snapshot.
func (l *Ledger) TakeAll(ctx context.Context) []domain.Video {
	l.mu.Lock()
	videos := make([]domain.Video, len(l.items))
	for i := range l.items {
		videos[i] = l.items[i].Video
	}
	l.items = nil
	l.mu.Unlock()

	l.persist(ctx)
	return videos
}

// Purge removes the entry for id without restoring it anywhere.
func (l *Ledger) Purge(ctx context.Context, id string) bool {
	l.mu.Lock()
	found := false
	for i := range l.items {
		if l.items[i].Video.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			found = true
			break
		}
	}
	l.mu.Unlock()

	if found {
		l.persist(ctx)
	}
	return found
}

// PurgeAll empties the ledger without restoring anything.
func (l *Ledger) PurgeAll(ctx context.Context) {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()

	l.persist(ctx)
}

func (l *Ledger) persist(ctx context.Context) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveTrash(ctx, l.Items()); err != nil && l.log != nil {
		l.log.Warn("failed to persist trash ledger", logger.Error(err))
	}
}
