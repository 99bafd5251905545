package news

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/krobus00/dashboard-service/internal/repository"
)

type countingSource struct {
	calls    atomic.Int32
	articles []entity.Article
}

func (s *countingSource) FetchArticles(_ context.Context) []entity.Article {
	s.calls.Add(1)
	out := make([]entity.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

func (s *countingSource) Name() string {
	return "counting"
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestLatestServesCacheWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	source := &countingSource{articles: []entity.Article{
		{Title: "A", PublishedAt: "2026-10-18T11:00:00Z"},
	}}
	svc := NewNewsService(source, repository.NewMemoryNewsCacheRepository(), NewsServiceConfig{
		TTL: 10 * time.Minute,
		Now: clock.Now,
	})
	ctx := context.Background()

	first := svc.Latest(ctx)
	clock.Advance(9*time.Minute + 59*time.Second)
	second := svc.Latest(ctx)

	if !first.FetchedAt.Equal(second.FetchedAt.Time) {
		t.Errorf("expected identical fetchedAt, got %v and %v", first.FetchedAt, second.FetchedAt)
	}
	if calls := source.calls.Load(); calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestLatestRefreshesAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	source := &countingSource{}
	svc := NewNewsService(source, repository.NewMemoryNewsCacheRepository(), NewsServiceConfig{
		TTL: 10 * time.Minute,
		Now: clock.Now,
	})
	ctx := context.Background()

	first := svc.Latest(ctx)
	clock.Advance(10 * time.Minute)
	second := svc.Latest(ctx)

	if first.FetchedAt.Equal(second.FetchedAt.Time) {
		t.Error("expected a new fetchedAt after the TTL elapsed")
	}
	if !second.FetchedAt.Equal(clock.now) {
		t.Errorf("expected fetchedAt %v, got %v", clock.now, second.FetchedAt)
	}
	if calls := source.calls.Load(); calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls)
	}
}

func TestLatestCachesEmptyResults(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	source := &countingSource{}
	svc := NewNewsService(source, repository.NewMemoryNewsCacheRepository(), NewsServiceConfig{Now: clock.Now})

	snapshot := svc.Latest(context.Background())
	if snapshot.Articles == nil || len(snapshot.Articles) != 0 {
		t.Errorf("expected empty non-nil article list, got %#v", snapshot.Articles)
	}
	svc.Latest(context.Background())
	if calls := source.calls.Load(); calls != 1 {
		t.Errorf("expected empty result to be cached, got %d calls", calls)
	}
}

func TestLatestSortsAndTruncates(t *testing.T) {
	source := &countingSource{}
	for i := 0; i < 10; i++ {
		source.articles = append(source.articles, entity.Article{
			Title:       string(rune('a' + i)),
			PublishedAt: time.Date(2026, 10, 18, i, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
	}
	svc := NewNewsService(source, repository.NewMemoryNewsCacheRepository(), NewsServiceConfig{})

	got := svc.Latest(context.Background()).Articles
	if len(got) != 6 {
		t.Fatalf("expected 6 articles, got %d", len(got))
	}
	if got[0].Title != "j" || got[5].Title != "e" {
		t.Errorf("unexpected order: first=%s last=%s", got[0].Title, got[5].Title)
	}
}

func TestSortAndTruncateUnparseableDatesLast(t *testing.T) {
	in := []entity.Article{
		{Title: "undated"},
		{Title: "old", PublishedAt: "Mon, 02 Jan 2006 15:04:05 -0700"},
		{Title: "new", PublishedAt: "2026-10-18T10:00:00Z"},
	}

	got := SortAndTruncate(in, 6)
	want := []string{"new", "old", "undated"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d: got %s, want %s", i, got[i].Title, title)
		}
	}
}
