package news

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

type Feed struct {
	Name string
	URL  string
}

type FeedSourceConfig struct {
	Feeds     []Feed
	MaxItems  int
	Timeout   time.Duration
	UserAgent string
}

// FeedSource scrapes several syndication feeds in parallel and merges their items.
type FeedSource struct {
	cfg        FeedSourceConfig
	httpClient *http.Client
}

func NewFeedSource(cfg FeedSourceConfig) *FeedSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = constant.DefaultNewsFetchTimeout
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = constant.DefaultMaxArticles
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0"
	}

	return &FeedSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *FeedSource) Name() string {
	return constant.NewsStrategyFeed
}

func (s *FeedSource) FetchArticles(ctx context.Context) []entity.Article {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		articles = make([]entity.Article, 0)
	)

	for _, feed := range s.cfg.Feeds {
		wg.Add(1)
		go func(feed Feed) {
			defer wg.Done()

			items, err := s.fetchFeed(ctx, feed)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"feed": feed.Name,
					"url":  feed.URL,
				}).Warnf("feed fetch failed: %v", err)
				return
			}

			mu.Lock()
			articles = append(articles, items...)
			mu.Unlock()
		}(feed)
	}

	wg.Wait()

	return SortAndTruncate(articles, s.cfg.MaxItems)
}

func (s *FeedSource) fetchFeed(ctx context.Context, feed Feed) ([]entity.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("feed error: status=%d", resp.StatusCode)
	}

	// gofeed parsers keep per-parse state, so each fetch gets its own
	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	sourceName := feed.Name
	if sourceName == "" {
		sourceName = strings.TrimSpace(parsed.Title)
	}

	articles := make([]entity.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		title := decodeTitle(item.Title)
		if title == "" || item.Link == "" {
			continue
		}

		articles = append(articles, entity.Article{
			Title:       title,
			URL:         strings.TrimSpace(item.Link),
			Source:      sourceName,
			PublishedAt: itemPublishedAt(item),
		})
	}

	return articles, nil
}

func itemPublishedAt(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	case item.Published != "":
		return item.Published
	default:
		return item.Updated
	}
}

// decodeTitle resolves character references the feed left escaped, such as
// "&amp;#8217;" that arrive as "&#8217;" after XML decoding.
func decodeTitle(raw string) string {
	return strings.Join(strings.Fields(html.UnescapeString(raw)), " ")
}
