package news

import (
	"context"
	"sort"
	"time"

	"github.com/krobus00/dashboard-service/internal/entity"
)

// Source fetches the latest articles. Failures degrade to an empty list.
type Source interface {
	FetchArticles(ctx context.Context) []entity.Article
	Name() string
}

var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
}

func parsePublishedAt(raw string) (time.Time, bool) {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// SortAndTruncate orders articles newest first and keeps at most limit.
// Articles whose date cannot be parsed go last, in their original order.
func SortAndTruncate(articles []entity.Article, limit int) []entity.Article {
	type dated struct {
		article entity.Article
		at      time.Time
		ok      bool
	}

	items := make([]dated, 0, len(articles))
	for _, a := range articles {
		at, ok := parsePublishedAt(a.PublishedAt)
		items = append(items, dated{article: a, at: at, ok: ok})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].at.After(items[j].at)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]entity.Article, 0, len(items))
	for _, item := range items {
		out = append(out, item.article)
	}

	return out
}
