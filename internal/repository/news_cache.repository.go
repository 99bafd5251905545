package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/redis/go-redis/v9"
)

// NewsCacheRepository is the single shared slot holding the last news snapshot.
type NewsCacheRepository interface {
	Get(ctx context.Context) (entity.NewsSnapshot, bool, error)
	Set(ctx context.Context, snapshot entity.NewsSnapshot) error
}

type MemoryNewsCacheRepository struct {
	mu       sync.RWMutex
	snapshot *entity.NewsSnapshot
}

func NewMemoryNewsCacheRepository() *MemoryNewsCacheRepository {
	return &MemoryNewsCacheRepository{}
}

func (r *MemoryNewsCacheRepository) Get(_ context.Context) (entity.NewsSnapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return entity.NewsSnapshot{}, false, nil
	}

	return copyNewsSnapshot(*r.snapshot), true, nil
}

func (r *MemoryNewsCacheRepository) Set(_ context.Context, snapshot entity.NewsSnapshot) error {
	cp := copyNewsSnapshot(snapshot)

	r.mu.Lock()
	r.snapshot = &cp
	r.mu.Unlock()

	return nil
}

func copyNewsSnapshot(snapshot entity.NewsSnapshot) entity.NewsSnapshot {
	articles := make([]entity.Article, len(snapshot.Articles))
	copy(articles, snapshot.Articles)

	return entity.NewsSnapshot{
		Articles:  articles,
		FetchedAt: snapshot.FetchedAt,
	}
}

type RedisNewsCacheRepository struct {
	client *redis.Client
	key    string
	expiry time.Duration
}

// NewRedisNewsCacheRepository stores the slot under key. expiry only bounds how long
// redis keeps the value around; freshness is decided by the caller.
func NewRedisNewsCacheRepository(client *redis.Client, key string, expiry time.Duration) (*RedisNewsCacheRepository, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if key == "" {
		return nil, errors.New("news cache key is required")
	}

	return &RedisNewsCacheRepository{
		client: client,
		key:    key,
		expiry: expiry,
	}, nil
}

func (r *RedisNewsCacheRepository) Get(ctx context.Context) (entity.NewsSnapshot, bool, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.NewsSnapshot{}, false, nil
		}
		return entity.NewsSnapshot{}, false, fmt.Errorf("get news cache: %w", err)
	}

	var snapshot entity.NewsSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return entity.NewsSnapshot{}, false, fmt.Errorf("decode news cache: %w", err)
	}
	if snapshot.Articles == nil {
		snapshot.Articles = []entity.Article{}
	}

	return snapshot, true, nil
}

func (r *RedisNewsCacheRepository) Set(ctx context.Context, snapshot entity.NewsSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.key, payload, r.expiry).Err()
}
