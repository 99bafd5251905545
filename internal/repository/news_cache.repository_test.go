package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/redis/go-redis/v9"
)

func sampleNewsSnapshot() entity.NewsSnapshot {
	return entity.NewsSnapshot{
		Articles: []entity.Article{
			{Title: "Post A", URL: "https://a.example", Source: "A", PublishedAt: "2026-10-18T10:00:00Z"},
			{Title: "Post B", URL: "https://b.example", Source: "B", PublishedAt: "2026-10-18T09:00:00Z"},
		},
		FetchedAt: entity.NewTimestamp(time.Date(2026, 10, 18, 10, 5, 0, 123000000, time.UTC)),
	}
}

func TestMemoryNewsCacheRepository(t *testing.T) {
	repo := NewMemoryNewsCacheRepository()
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx); ok || err != nil {
		t.Fatalf("expected empty slot, got ok=%v err=%v", ok, err)
	}

	snapshot := sampleNewsSnapshot()
	if err := repo.Set(ctx, snapshot); err != nil {
		t.Fatalf("set: %v", err)
	}

	// mutating the caller's slice must not leak into the slot
	snapshot.Articles[0].Title = "changed"

	got, ok, err := repo.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("expected cached snapshot, got ok=%v err=%v", ok, err)
	}
	if got.Articles[0].Title != "Post A" {
		t.Errorf("expected stored copy, got %q", got.Articles[0].Title)
	}
	if !got.FetchedAt.Equal(sampleNewsSnapshot().FetchedAt.Time) {
		t.Errorf("unexpected fetchedAt %v", got.FetchedAt)
	}
}

func TestRedisNewsCacheRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo, err := NewRedisNewsCacheRepository(client, "dashboard:news:test", 20*time.Minute)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx); ok || err != nil {
		t.Fatalf("expected empty slot, got ok=%v err=%v", ok, err)
	}

	want := sampleNewsSnapshot()
	if err := repo.Set(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := repo.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("expected cached snapshot, got ok=%v err=%v", ok, err)
	}
	if len(got.Articles) != 2 || got.Articles[1].Title != "Post B" {
		t.Errorf("unexpected articles %+v", got.Articles)
	}
	if !got.FetchedAt.Equal(want.FetchedAt.Time) {
		t.Errorf("fetchedAt = %v, want %v", got.FetchedAt, want.FetchedAt)
	}

	mr.FastForward(21 * time.Minute)
	if _, ok, _ := repo.Get(ctx); ok {
		t.Error("expected redis expiry to drop the slot")
	}
}

func TestRedisNewsCacheRepositoryCorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo, err := NewRedisNewsCacheRepository(client, "dashboard:news:test", 0)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := mr.Set("dashboard:news:test", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, ok, err := repo.Get(context.Background()); ok || err == nil {
		t.Errorf("expected decode error, got ok=%v err=%v", ok, err)
	}
}
