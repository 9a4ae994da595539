package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scenegallery/scenegallery/internal/domain"
)

// Store persists gallery snapshots in Redis. Entries never expire:
// a stale snapshot is still worth serving when the remote store is
// unreachable, so freshness is the caller's call, decided from the
// age returned by the load helpers.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// envelope wraps every cached payload with its write time so readers
// can tell fresh snapshots from fallback-only ones.
type envelope struct {
	SavedAt time.Time       `json:"savedAt"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", key, err)
	}

	data, err := json.Marshal(envelope{SavedAt: time.Now(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope for %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// load reads a cached envelope into out. A missing key or an
// undecodable entry both report a miss; a corrupt entry is deleted
// on the way out so it cannot poison later reads.
func (s *Store) load(ctx context.Context, key string, out any) (time.Duration, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		_ = s.client.Del(ctx, key).Err()
		return 0, false, nil
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		_ = s.client.Del(ctx, key).Err()
		return 0, false, nil
	}

	return time.Since(env.SavedAt), true, nil
}

// SaveVideos stores the video collection snapshot.
func (s *Store) SaveVideos(ctx context.Context, videos []domain.Video) error {
	return s.save(ctx, KeyVideos, videos)
}

// LoadVideos retrieves the cached video collection and its age.
// ok is false on a miss or a corrupt entry.
func (s *Store) LoadVideos(ctx context.Context) ([]domain.Video, time.Duration, bool, error) {
	var videos []domain.Video
	age, ok, err := s.load(ctx, KeyVideos, &videos)
	if err != nil || !ok {
		return nil, 0, false, err
	}
	return videos, age, true, nil
}

// SaveCategories stores the category list snapshot.
func (s *Store) SaveCategories(ctx context.Context, categories []string) error {
	return s.save(ctx, KeyCategories, categories)
}

// LoadCategories retrieves the cached category list and its age.
func (s *Store) LoadCategories(ctx context.Context) ([]string, time.Duration, bool, error) {
	var categories []string
	age, ok, err := s.load(ctx, KeyCategories, &categories)
	if err != nil || !ok {
		return nil, 0, false, err
	}
	return categories, age, true, nil
}

// Flush removes every key the cache owns.
func (s *Store) Flush(ctx context.Context) error {
	if err := s.client.Del(ctx, allKeys()...).Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}
