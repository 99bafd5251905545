package news

import (
	"context"
	"time"

	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/krobus00/dashboard-service/internal/repository"
	"github.com/sirupsen/logrus"
)

type NewsServiceConfig struct {
	TTL         time.Duration
	MaxArticles int
	Now         func() time.Time
}

// NewsService serves the latest articles through a shared TTL cache slot.
type NewsService struct {
	source      Source
	cache       repository.NewsCacheRepository
	ttl         time.Duration
	maxArticles int
	now         func() time.Time
}

func NewNewsService(source Source, cache repository.NewsCacheRepository, cfg NewsServiceConfig) *NewsService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = constant.DefaultNewsCacheTTL
	}

	maxArticles := cfg.MaxArticles
	if maxArticles <= 0 {
		maxArticles = constant.DefaultMaxArticles
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &NewsService{
		source:      source,
		cache:       cache,
		ttl:         ttl,
		maxArticles: maxArticles,
		now:         now,
	}
}

// Latest returns the cached snapshot while it is younger than the TTL,
// otherwise aggregates a fresh one and replaces the slot.
func (s *NewsService) Latest(ctx context.Context) entity.NewsSnapshot {
	now := s.now()

	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		logrus.Warnf("news cache read failed: %v", err)
	}
	if ok && now.Sub(cached.FetchedAt.Time) < s.ttl {
		return cached
	}

	articles := SortAndTruncate(s.source.FetchArticles(ctx), s.maxArticles)
	snapshot := entity.NewsSnapshot{
		Articles:  articles,
		FetchedAt: entity.NewTimestamp(now),
	}

	if err := s.cache.Set(ctx, snapshot); err != nil {
		logrus.Warnf("news cache write failed: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"source":   s.source.Name(),
		"articles": len(articles),
	}).Debug("news cache refreshed")

	return snapshot
}
