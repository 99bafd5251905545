package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
)

type stubQuotes struct {
	snapshot entity.MarketSnapshot
}

func (s stubQuotes) Aggregate(context.Context) entity.MarketSnapshot {
	return s.snapshot
}

type stubNews struct {
	snapshot entity.NewsSnapshot
}

func (s stubNews) Latest(context.Context) entity.NewsSnapshot {
	return s.snapshot
}

var fetchedAt = time.Date(2026, 10, 18, 9, 15, 0, 123000000, time.UTC)

func newTestMux() *http.ServeMux {
	handler := NewDashboardHTTPHandler(
		stubQuotes{snapshot: entity.MarketSnapshot{
			Quotes: map[string]entity.QuoteResult{
				"BTC-USD": entity.NewQuoteResult(entity.Quote{Price: 97000, Change: 1000, ChangePercent: 1.04, MarketState: entity.MarketStateRegular}),
				"^DJI":    entity.NewQuoteError("No data"),
			},
			FetchedAt: entity.NewTimestamp(fetchedAt),
		}},
		stubNews{snapshot: entity.NewsSnapshot{
			Articles:  []entity.Article{},
			FetchedAt: entity.NewTimestamp(fetchedAt),
		}},
	)

	mux := http.NewServeMux()
	handler.Register(mux)
	return mux
}

func TestGetMarket(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constant.MarketRoute, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Errorf("unexpected Cache-Control %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("unexpected Content-Type %q", got)
	}

	var body struct {
		Quotes    map[string]map[string]any `json:"quotes"`
		FetchedAt string                    `json:"fetchedAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.FetchedAt != "2026-10-18T09:15:00.123Z" {
		t.Errorf("unexpected fetchedAt %s", body.FetchedAt)
	}
	if body.Quotes["BTC-USD"]["marketState"] != "REGULAR" || body.Quotes["BTC-USD"]["price"] != float64(97000) {
		t.Errorf("unexpected quote %+v", body.Quotes["BTC-USD"])
	}
	if body.Quotes["^DJI"]["error"] != "No data" {
		t.Errorf("expected embedded error, got %+v", body.Quotes["^DJI"])
	}
}

func TestGetNews(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, constant.NewsRoute, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Errorf("unexpected Cache-Control %q", got)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	articles, ok := body["articles"].([]any)
	if !ok || len(articles) != 0 {
		t.Errorf("expected empty articles array, got %#v", body["articles"])
	}
}

func TestRejectsNonGet(t *testing.T) {
	mux := newTestMux()
	for _, route := range []string{constant.MarketRoute, constant.NewsRoute} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, route, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", route, rec.Code)
		}
	}
}
