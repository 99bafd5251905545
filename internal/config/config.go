package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/spf13/viper"
)

var (
	ServiceName    = "dashboard-service"
	ServiceVersion = ""
)

var (
	Env *EnvConfig
)

type EnvConfig struct {
	Env                     string                 `mapstructure:"env"`
	Log                     LogConfig              `mapstructure:"log"`
	GracefulShutdownTimeout time.Duration          `mapstructure:"graceful_shutdown_timeout"`
	Port                    map[string]string      `mapstructure:"port"`
	HTTP                    HTTPConfig             `mapstructure:"http"`
	Market                  MarketConfig           `mapstructure:"market"`
	News                    NewsConfig             `mapstructure:"news"`
	Redis                   map[string]RedisConfig `mapstructure:"redis"`
	Dashboard               DashboardConfig        `mapstructure:"dashboard"`
}

type LogConfig struct {
	ShowCaller bool   `mapstructure:"show_caller"`
	LogLevel   string `mapstructure:"log_level"`
	OutputFile string `mapstructure:"output_file"`
}

type HTTPConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type MarketConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MarketStatePolicy string        `mapstructure:"market_state_policy"` // "window" or "upstream"
	Symbols           []string      `mapstructure:"symbols"`
}

type NewsConfig struct {
	Strategy    string            `mapstructure:"strategy"` // "keyword" or "feed"
	TTL         time.Duration     `mapstructure:"ttl"`
	MaxArticles int               `mapstructure:"max_articles"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Keyword     KeywordNewsConfig `mapstructure:"keyword"`
	Feeds       []FeedConfig      `mapstructure:"feeds"`
	Cache       NewsCacheConfig   `mapstructure:"cache"`
}

type KeywordNewsConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Query    string `mapstructure:"query"`
	Language string `mapstructure:"language"`
}

type FeedConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type NewsCacheConfig struct {
	Driver string `mapstructure:"driver"` // "memory" or "redis"
	Redis  string `mapstructure:"redis"`  // key into EnvConfig.Redis
	Key    string `mapstructure:"key"`
}

type RedisConfig struct {
	CacheDSN        string        `mapstructure:"cache_dsn"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxRetry        int           `mapstructure:"max_retry"`
	ReconnectFactor float64       `mapstructure:"reconnect_factor"`
	MinJitter       time.Duration `mapstructure:"min_jitter"`
	MaxJitter       time.Duration `mapstructure:"max_jitter"`
}

type DashboardConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	QuoteInterval  time.Duration `mapstructure:"quote_interval"`
	NewsInterval   time.Duration `mapstructure:"news_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	StoragePath    string        `mapstructure:"storage_path"`
}

func setDefaults() {
	viper.SetDefault("env", "development")
	viper.SetDefault("log.show_caller", false)
	viper.SetDefault("log.log_level", "info")
	viper.SetDefault("log.output_file", "")
	viper.SetDefault("graceful_shutdown_timeout", 10*time.Second)
	viper.SetDefault("port.http", "8080")

	viper.SetDefault("http.rate_limit_rps", 5)
	viper.SetDefault("http.rate_limit_burst", 10)

	viper.SetDefault("market.base_url", "https://query1.finance.yahoo.com")
	viper.SetDefault("market.user_agent", "Mozilla/5.0")
	viper.SetDefault("market.timeout", 10*time.Second)
	viper.SetDefault("market.market_state_policy", "window")
	viper.SetDefault("market.symbols", []string{"BTC-USD", "^DJI", "^IXIC", "^GSPC", "GC=F", "SI=F"})

	viper.SetDefault("news.strategy", "keyword")
	viper.SetDefault("news.ttl", 10*time.Minute)
	viper.SetDefault("news.max_articles", 6)
	viper.SetDefault("news.timeout", 10*time.Second)
	viper.SetDefault("news.keyword.base_url", "https://newsapi.org")
	viper.SetDefault("news.keyword.api_key", "")
	viper.SetDefault("news.keyword.query", "artificial intelligence OR AI OR LLM")
	viper.SetDefault("news.keyword.language", "en")
	viper.SetDefault("news.feeds", []map[string]string{
		{"name": "TechCrunch", "url": "https://techcrunch.com/category/artificial-intelligence/feed/"},
		{"name": "The Verge", "url": "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml"},
		{"name": "VentureBeat", "url": "https://venturebeat.com/category/ai/feed/"},
	})
	viper.SetDefault("news.cache.driver", "memory")
	viper.SetDefault("news.cache.redis", "news")
	viper.SetDefault("news.cache.key", "dashboard:news:snapshot")
	viper.SetDefault("redis.news.cache_dsn", "redis://localhost:6379/0")
	viper.SetDefault("redis.news.connect_timeout", 5*time.Second)
	viper.SetDefault("redis.news.max_retry", 3)

	viper.SetDefault("dashboard.base_url", "http://localhost:8080")
	viper.SetDefault("dashboard.quote_interval", 30*time.Second)
	viper.SetDefault("dashboard.news_interval", 300*time.Second)
	viper.SetDefault("dashboard.request_timeout", constant.DefaultClientRequestTimeout)
	viper.SetDefault("dashboard.storage_path", "")
}

func LoadConfig(configPath string) error {
	viper.Reset()
	setDefaults()

	configPath = strings.TrimSpace(configPath)
	explicit := configPath != ""
	if !explicit {
		viper.SetConfigName("config")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	} else {
		ext := strings.ToLower(filepath.Ext(configPath))
		if ext == ".yml" || ext == ".yaml" {
			viper.SetConfigFile(configPath)
		} else {
			viper.SetConfigName(filepath.Base(configPath))
			viper.SetConfigType("yml")
			configDir := filepath.Dir(configPath)
			if configDir == "." || configDir == "" {
				viper.AddConfigPath(".")
			} else {
				viper.AddConfigPath(configDir)
			}
		}
	}

	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()
	_ = viper.BindEnv("news.keyword.api_key", "NEWS_KEYWORD_API_KEY", "NEWS_API_KEY")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &EnvConfig{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	cfg.Dashboard.RequestTimeout = ResolveRequestTimeout(cfg.Market.Timeout, cfg.Dashboard.RequestTimeout)
	Env = cfg

	return nil
}

// ResolveRequestTimeout returns requested unless it would let the client give
// up before the server finishes its slowest quote fetch.
func ResolveRequestTimeout(marketTimeout, requested time.Duration) time.Duration {
	if marketTimeout <= 0 {
		marketTimeout = constant.DefaultQuoteFetchTimeout
	}

	floor := marketTimeout + constant.ClientRequestTimeoutMargin
	if requested < floor {
		return floor
	}

	return requested
}
