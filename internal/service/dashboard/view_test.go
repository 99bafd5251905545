package dashboard

import (
	"strings"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/krobus00/dashboard-service/internal/entity"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{12.3, "12.30"},
		{999.999, "1,000.00"},
		{1234.5, "1,234.50"},
		{97123.456, "97,123.46"},
		{42000123.1, "42,000,123.10"},
		{-1234.5, "-1,234.50"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.234, "+1.23"},
		{0, "+0.00"},
		{-0.5, "-0.50"},
		{-0.001, "+0.00"},
	}
	for _, tt := range tests {
		if got := FormatSigned(tt.in); got != tt.want {
			t.Errorf("FormatSigned(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMarketStateLabel(t *testing.T) {
	tests := map[entity.MarketState]string{
		entity.MarketStateRegular: "Open",
		entity.MarketStatePre:     "Pre-Market",
		entity.MarketStatePost:    "After Hours",
		entity.MarketStateClosed:  "Closed",
		"WHATEVER":                "Closed",
	}
	for state, want := range tests {
		if got := MarketStateLabel(state); got != want {
			t.Errorf("MarketStateLabel(%s) = %s, want %s", state, got, want)
		}
	}
}

func TestBuildViewBeforeFirstRefresh(t *testing.T) {
	views := BuildView(entity.DefaultWidgets, Snapshot{}, baseTime)
	if len(views) != len(entity.DefaultWidgets) {
		t.Fatalf("expected %d views, got %d", len(entity.DefaultWidgets), len(views))
	}

	for _, v := range views {
		switch v.Widget.Type {
		case entity.WidgetTypeMarket, entity.WidgetTypeNews:
			if v.Status != WidgetStatusLoading {
				t.Errorf("%s: expected loading, got %s", v.Widget.ID, v.Status)
			}
		default:
			if v.Status != WidgetStatusReady {
				t.Errorf("%s: expected ready, got %s", v.Widget.ID, v.Status)
			}
		}
	}
}

func TestBuildViewWithData(t *testing.T) {
	market := &entity.MarketSnapshot{
		Quotes: map[string]entity.QuoteResult{
			"BTC-USD": entity.NewQuoteResult(entity.Quote{Price: 97123.456, Change: -150.2, ChangePercent: -0.1544, MarketState: entity.MarketStateRegular}),
			"^DJI":    entity.NewQuoteError("HTTP 500"),
		},
		FetchedAt: entity.NewTimestamp(baseTime),
	}
	news := &entity.NewsSnapshot{Articles: []entity.Article{}, FetchedAt: entity.NewTimestamp(baseTime)}
	snap := Snapshot{
		Market:          market,
		News:            news,
		MarketUpdatedAt: null.TimeFrom(baseTime),
		NewsUpdatedAt:   null.TimeFrom(baseTime),
	}

	byID := map[string]WidgetView{}
	for _, v := range BuildView(entity.DefaultWidgets, snap, baseTime) {
		byID[v.Widget.ID] = v
	}

	btc := byID["bitcoin"]
	if btc.Status != WidgetStatusReady || btc.Market == nil {
		t.Fatalf("bitcoin should be ready, got %+v", btc)
	}
	if btc.Market.Price != "$97,123.46" || btc.Market.Change != "-150.20" || btc.Market.ChangePercent != "(-0.15%)" {
		t.Errorf("unexpected market view %+v", btc.Market)
	}
	if btc.Market.Label != "Open" || btc.Market.Positive {
		t.Errorf("unexpected label or direction %+v", btc.Market)
	}

	if byID["dow-jones"].Status != WidgetStatusUnavailable {
		t.Errorf("expected dow-jones unavailable, got %s", byID["dow-jones"].Status)
	}
	if byID["nasdaq"].Status != WidgetStatusUnavailable {
		t.Errorf("expected missing symbol to be unavailable, got %s", byID["nasdaq"].Status)
	}
	if byID["news"].Status != WidgetStatusEmpty {
		t.Errorf("expected empty news, got %s", byID["news"].Status)
	}
	if len(byID["bookmarks"].Bookmarks) != len(entity.DefaultBookmarks) {
		t.Error("expected bookmarks to be listed")
	}
	if byID["clock"].Clock != "14:30:00" {
		t.Errorf("unexpected clock %s", byID["clock"].Clock)
	}
}

func TestRenderFollowsOrder(t *testing.T) {
	order := []entity.Widget{
		{ID: "news", Type: entity.WidgetTypeNews},
		{ID: "bitcoin", Type: entity.WidgetTypeMarket, SymbolRef: &entity.SymbolRef{Key: "BTC-USD", Label: "Bitcoin", PricePrefix: "$"}},
	}
	snap := Snapshot{
		Market: &entity.MarketSnapshot{Quotes: map[string]entity.QuoteResult{
			"BTC-USD": entity.NewQuoteResult(entity.Quote{Price: 1, MarketState: entity.MarketStatePost}),
		}},
	}

	out := Render(BuildView(order, snap, baseTime))
	newsAt := strings.Index(out, "AI News")
	btcAt := strings.Index(out, "Bitcoin")
	if newsAt == -1 || btcAt == -1 || newsAt > btcAt {
		t.Errorf("expected news card before bitcoin card:\n%s", out)
	}
	for _, want := range []string{"Loading...", "$1.00", "After Hours"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMarketViewDirectionMatchesDisplayedSign(t *testing.T) {
	tests := []struct {
		change   float64
		display  string
		positive bool
	}{
		{-0.001, "+0.00", true},
		{-0.005, "-0.01", false},
		{0.004, "+0.00", true},
		{-12.5, "-12.50", false},
	}
	for _, tt := range tests {
		view := buildMarketView(entity.Quote{Change: tt.change}, "")
		if view.Change != tt.display || view.Positive != tt.positive {
			t.Errorf("change %v: got %s positive=%v, want %s positive=%v",
				tt.change, view.Change, view.Positive, tt.display, tt.positive)
		}
	}
}
