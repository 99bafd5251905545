package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/krobus00/dashboard-service/internal/config"
	"github.com/krobus00/dashboard-service/internal/constant"
	httpHandler "github.com/krobus00/dashboard-service/internal/handler/dashboard/http"
	wsHandler "github.com/krobus00/dashboard-service/internal/handler/dashboard/ws"
	"github.com/krobus00/dashboard-service/internal/infrastructure"
	"github.com/krobus00/dashboard-service/internal/repository"
	"github.com/krobus00/dashboard-service/internal/service/news"
	"github.com/krobus00/dashboard-service/internal/service/quote"
	"github.com/krobus00/dashboard-service/internal/util"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func StartDashboardServer(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quoteService := newQuoteService()

	newsCache, redisClient, err := newNewsCacheRepository(ctx)
	util.ContinueOrFatal(err)

	newsSource, err := newNewsSource()
	util.ContinueOrFatal(err)

	newsService := news.NewNewsService(newsSource, newsCache, news.NewsServiceConfig{
		TTL:         config.Env.News.TTL,
		MaxArticles: config.Env.News.MaxArticles,
	})

	httpMux := http.NewServeMux()
	infrastructure.RegisterHealthRoutes(httpMux)

	dashboardHTTPHandler := httpHandler.NewDashboardHTTPHandler(quoteService, newsService)
	dashboardHTTPHandler.Register(httpMux)

	dashboardWSHandler := wsHandler.NewDashboardWSHandler(quoteService, newsService, wsHandler.StreamConfig{
		QuoteInterval: config.Env.Dashboard.QuoteInterval,
		NewsInterval:  config.Env.Dashboard.NewsInterval,
	})
	dashboardWSHandler.Register(httpMux)

	serverConfig := infrastructure.DefaultHTTPServerConfig()
	serverConfig.ShutdownTimeout = config.Env.GracefulShutdownTimeout
	httpServer := infrastructure.NewHTTPServerWithConfig(serverConfig, httpMux)

	go func() {
		err := httpServer.Start()
		if err != nil {
			logrus.Error(err)
		}
	}()
	logrus.WithFields(logrus.Fields{
		"symbols":       quoteService.Symbols(),
		"news_strategy": newsSource.Name(),
		"news_cache":    config.Env.News.Cache.Driver,
	}).Info(fmt.Sprintf("dashboard server started on %s", httpServer.Addr()))

	ops := map[string]operation{
		"http": func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
		"stream": func(ctx context.Context) error {
			cancel()
			return dashboardWSHandler.Close(ctx)
		},
	}
	if redisClient != nil {
		ops["redis"] = func(ctx context.Context) error {
			return redisClient.Close()
		}
	}

	wait := gracefulShutdown(context.Background(), config.Env.GracefulShutdownTimeout, ops)

	<-wait
}

func newQuoteService() *quote.QuoteService {
	marketConfig := config.Env.Market
	chartClient := quote.NewYahooChartClient(marketConfig.BaseURL, marketConfig.UserAgent, marketConfig.Timeout)

	return quote.NewQuoteService(chartClient, quote.QuoteServiceConfig{
		Symbols:           marketConfig.Symbols,
		Timeout:           marketConfig.Timeout,
		MarketStatePolicy: marketConfig.MarketStatePolicy,
	})
}

func newNewsSource() (news.Source, error) {
	newsConfig := config.Env.News

	switch strings.ToLower(strings.TrimSpace(newsConfig.Strategy)) {
	case "", constant.NewsStrategyKeyword:
		if newsConfig.Keyword.APIKey == "" {
			logrus.Warn("news api key is not configured, news will be empty")
		}
		return news.NewKeywordSource(news.KeywordSourceConfig{
			BaseURL:  newsConfig.Keyword.BaseURL,
			APIKey:   newsConfig.Keyword.APIKey,
			Query:    newsConfig.Keyword.Query,
			Language: newsConfig.Keyword.Language,
			PageSize: newsConfig.MaxArticles,
			Timeout:  newsConfig.Timeout,
		}), nil
	case constant.NewsStrategyFeed:
		feeds := make([]news.Feed, 0, len(newsConfig.Feeds))
		for _, f := range newsConfig.Feeds {
			feeds = append(feeds, news.Feed{Name: f.Name, URL: f.URL})
		}
		return news.NewFeedSource(news.FeedSourceConfig{
			Feeds:     feeds,
			MaxItems:  newsConfig.MaxArticles,
			Timeout:   newsConfig.Timeout,
			UserAgent: config.Env.Market.UserAgent,
		}), nil
	default:
		return nil, fmt.Errorf("unknown news strategy %q", newsConfig.Strategy)
	}
}

func newNewsCacheRepository(ctx context.Context) (repository.NewsCacheRepository, *redis.Client, error) {
	cacheConfig := config.Env.News.Cache

	switch strings.ToLower(strings.TrimSpace(cacheConfig.Driver)) {
	case "", constant.NewsCacheDriverMemory:
		return repository.NewMemoryNewsCacheRepository(), nil, nil
	case constant.NewsCacheDriverRedis:
		redisConfig, ok := config.Env.Redis[cacheConfig.Redis]
		if !ok {
			return nil, nil, fmt.Errorf("redis connection %q is not configured", cacheConfig.Redis)
		}

		client, err := infrastructure.NewRedisClient(ctx, redisConfig)
		if err != nil {
			return nil, nil, err
		}

		cache, err := repository.NewRedisNewsCacheRepository(client, cacheConfig.Key, 2*config.Env.News.TTL)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}

		return cache, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown news cache driver %q", cacheConfig.Driver)
	}
}
