package dashboard

import (
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/shopspring/decimal"
)

type WidgetStatus string

const (
	WidgetStatusReady       WidgetStatus = "ready"
	WidgetStatusLoading     WidgetStatus = "loading"
	WidgetStatusUnavailable WidgetStatus = "unavailable"
	WidgetStatusEmpty       WidgetStatus = "empty"
)

type MarketView struct {
	Price         string
	Change        string
	ChangePercent string
	Label         string
	Positive      bool
}

type WidgetView struct {
	Widget    entity.Widget
	Title     string
	Status    WidgetStatus
	Market    *MarketView
	Articles  []entity.Article
	Bookmarks []entity.Bookmark
	Clock     string
	Date      string
	UpdatedAt null.Time
}

// BuildView turns the ordered widgets and the current client snapshot into
// render-ready view models.
func BuildView(order []entity.Widget, snapshot Snapshot, now time.Time) []WidgetView {
	views := make([]WidgetView, 0, len(order))
	for _, w := range order {
		views = append(views, buildWidgetView(w, snapshot, now))
	}

	return views
}

func buildWidgetView(w entity.Widget, snapshot Snapshot, now time.Time) WidgetView {
	view := WidgetView{Widget: w, Title: widgetTitle(w), Status: WidgetStatusReady}

	switch w.Type {
	case entity.WidgetTypeClock:
		view.Clock = now.Format("15:04:05")
		view.Date = now.Format("Monday, January 2, 2006")
	case entity.WidgetTypeBookmarks:
		view.Bookmarks = entity.DefaultBookmarks
	case entity.WidgetTypeNews:
		view.UpdatedAt = snapshot.NewsUpdatedAt
		switch {
		case snapshot.News == nil:
			view.Status = WidgetStatusLoading
		case len(snapshot.News.Articles) == 0:
			view.Status = WidgetStatusEmpty
		default:
			view.Articles = snapshot.News.Articles
		}
	case entity.WidgetTypeMarket:
		view.UpdatedAt = snapshot.MarketUpdatedAt
		if snapshot.Market == nil {
			view.Status = WidgetStatusLoading
			break
		}
		if w.SymbolRef == nil {
			view.Status = WidgetStatusUnavailable
			break
		}
		result, ok := snapshot.Market.Quotes[w.SymbolRef.Key]
		if !ok || result.IsError() {
			view.Status = WidgetStatusUnavailable
			break
		}
		view.Market = buildMarketView(*result.Quote, w.SymbolRef.PricePrefix)
	}

	return view
}

func widgetTitle(w entity.Widget) string {
	switch w.Type {
	case entity.WidgetTypeClock:
		return "Clock"
	case entity.WidgetTypeNews:
		return "AI News"
	case entity.WidgetTypeBookmarks:
		return "AI Tools"
	}

	if w.SymbolRef != nil {
		return w.SymbolRef.Label
	}

	return w.ID
}

func buildMarketView(q entity.Quote, prefix string) *MarketView {
	return &MarketView{
		Price:         prefix + FormatPrice(q.Price),
		Change:        FormatSigned(q.Change),
		ChangePercent: "(" + FormatSigned(q.ChangePercent) + "%)",
		Label:         MarketStateLabel(q.MarketState),
		Positive:      !roundedChange(q.Change).IsNegative(),
	}
}

func MarketStateLabel(state entity.MarketState) string {
	switch state {
	case entity.MarketStateRegular:
		return "Open"
	case entity.MarketStatePre:
		return "Pre-Market"
	case entity.MarketStatePost:
		return "After Hours"
	default:
		return "Closed"
	}
}

// FormatPrice renders v with two decimals and comma thousands separators.
func FormatPrice(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(intPart) + "." + fracPart
}

// FormatSigned renders v with two decimals and an explicit sign. Zero is
// rendered as positive.
func FormatSigned(v float64) string {
	d := roundedChange(v)
	if d.IsNegative() {
		return d.StringFixed(2)
	}

	return "+" + d.StringFixed(2)
}

func roundedChange(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
