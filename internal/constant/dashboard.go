package constant

import "time"

const (
	MarketRoute  = "/api/market"
	NewsRoute    = "/api/news"
	StreamRoute  = "/api/stream"
	HealthRoute  = "/healthz"
	ReadyRoute   = "/readyz"
	CacheControl = "no-store, max-age=0"

	WidgetOrderStorageKey = "dashboard-widget-order"
)

const (
	DefaultQuoteFetchTimeout = 10 * time.Second
	DefaultNewsFetchTimeout  = 10 * time.Second

	// ClientRequestTimeoutMargin keeps the client waiting longer than the
	// slowest per-symbol fetch on the server.
	ClientRequestTimeoutMargin  = 5 * time.Second
	DefaultClientRequestTimeout = DefaultQuoteFetchTimeout + ClientRequestTimeoutMargin

	DefaultNewsCacheTTL      = 10 * time.Minute
	DefaultMaxArticles       = 6

	DefaultQuotePollInterval = 30 * time.Second
	DefaultNewsPollInterval  = 300 * time.Second
)

const (
	NewsStrategyKeyword = "keyword"
	NewsStrategyFeed    = "feed"

	NewsCacheDriverMemory = "memory"
	NewsCacheDriverRedis  = "redis"

	MarketStatePolicyWindow   = "window"
	MarketStatePolicyUpstream = "upstream"
)
