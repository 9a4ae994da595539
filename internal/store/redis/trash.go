package redis

import (
	"context"

	"github.com/scenegallery/scenegallery/internal/domain"
)

// SaveTrash stores the trash ledger. The ledger is local-only state:
// it is never pushed to the remote store, so Redis is its single home.
func (s *Store) SaveTrash(ctx context.Context, items []domain.TrashItem) error {
	return s.save(ctx, KeyTrash, items)
}

// LoadTrash retrieves the trash ledger. Age is irrelevant for the
// ledger; a miss simply means an empty trash.
func (s *Store) LoadTrash(ctx context.Context) ([]domain.TrashItem, error) {
	var items []domain.TrashItem
	_, ok, err := s.load(ctx, KeyTrash, &items)
	if err != nil || !ok {
		return nil, err
	}
	return items, nil
}
