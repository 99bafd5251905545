package entity

type WidgetType string

const (
	WidgetTypeClock     WidgetType = "clock"
	WidgetTypeMarket    WidgetType = "market"
	WidgetTypeNews      WidgetType = "news"
	WidgetTypeBookmarks WidgetType = "bookmarks"
)

type SymbolRef struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	PricePrefix string `json:"pricePrefix"`
}

type Widget struct {
	ID        string     `json:"id"`
	Type      WidgetType `json:"type"`
	SymbolRef *SymbolRef `json:"symbolRef,omitempty"`
}

type Bookmark struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DefaultWidgets is the widget catalog in its default order.
var DefaultWidgets = []Widget{
	{ID: "clock", Type: WidgetTypeClock},
	{ID: "bitcoin", Type: WidgetTypeMarket, SymbolRef: &SymbolRef{Key: "BTC-USD", Label: "Bitcoin", PricePrefix: "$"}},
	{ID: "dow-jones", Type: WidgetTypeMarket, SymbolRef: &SymbolRef{Key: "^DJI", Label: "Dow Jones"}},
	{ID: "nasdaq", Type: WidgetTypeMarket, SymbolRef: &SymbolRef{Key: "^IXIC", Label: "NASDAQ"}},
	{ID: "sp500", Type: WidgetTypeMarket, SymbolRef: &SymbolRef{Key: "^GSPC", Label: "S&P 500"}},
	{ID: "gold", Type: WidgetTypeMarket, SymbolRef: &SymbolRef{Key: "GC=F", Label: "Gold", PricePrefix: "$"}},
	{ID: "silver", Type: WidgetTypeMarket, SymbolRef: &SymbolRef{Key: "SI=F", Label: "Silver", PricePrefix: "$"}},
	{ID: "news", Type: WidgetTypeNews},
	{ID: "bookmarks", Type: WidgetTypeBookmarks},
}

var DefaultBookmarks = []Bookmark{
	{Name: "ChatGPT", URL: "https://chat.openai.com"},
	{Name: "Claude", URL: "https://claude.ai"},
	{Name: "Gemini", URL: "https://gemini.google.com"},
	{Name: "Perplexity", URL: "https://perplexity.ai"},
	{Name: "Grok", URL: "https://grok.x.ai"},
	{Name: "Copilot", URL: "https://copilot.microsoft.com"},
}

func WidgetIDs(widgets []Widget) []string {
	ids := make([]string, 0, len(widgets))
	for _, w := range widgets {
		ids = append(ids, w.ID)
	}

	return ids
}
