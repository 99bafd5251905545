package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/sirupsen/logrus"
)

const unknownSourceName = "Unknown"

type KeywordSourceConfig struct {
	BaseURL  string
	APIKey   string
	Query    string
	Language string
	PageSize int
	Timeout  time.Duration
}

// KeywordSource queries a NewsAPI compatible /v2/everything endpoint.
type KeywordSource struct {
	cfg        KeywordSourceConfig
	httpClient *http.Client
}

type keywordResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      *struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func NewKeywordSource(cfg KeywordSourceConfig) *KeywordSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = constant.DefaultNewsFetchTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = constant.DefaultMaxArticles
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &KeywordSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *KeywordSource) Name() string {
	return constant.NewsStrategyKeyword
}

func (s *KeywordSource) FetchArticles(ctx context.Context) []entity.Article {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		logrus.Debug("news api key is not configured, skipping keyword source")
		return []entity.Article{}
	}

	articles, err := s.fetch(ctx)
	if err != nil {
		logrus.WithField("source", s.Name()).Warnf("news fetch failed: %v", err)
		return []entity.Article{}
	}

	return articles
}

func (s *KeywordSource) fetch(ctx context.Context) ([]entity.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", s.cfg.Query)
	params.Set("language", s.cfg.Language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(s.cfg.PageSize))
	params.Set("apiKey", s.cfg.APIKey)
	endpoint := s.cfg.BaseURL + "/v2/everything?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("news api error: status=%d body=%s", resp.StatusCode, body)
	}

	var payload keywordResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles := make([]entity.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		source := unknownSourceName
		if a.Source != nil && a.Source.Name != "" {
			source = a.Source.Name
		}

		articles = append(articles, entity.Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      source,
			PublishedAt: a.PublishedAt,
		})
	}

	return articles, nil
}
