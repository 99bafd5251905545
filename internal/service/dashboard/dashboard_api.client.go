package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
)

type DashboardAPI interface {
	FetchMarket(ctx context.Context) (entity.MarketSnapshot, error)
	FetchNews(ctx context.Context) (entity.NewsSnapshot, error)
}

type HTTPDashboardAPI struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPDashboardAPI(baseURL string, timeout time.Duration) *HTTPDashboardAPI {
	if timeout <= 0 {
		timeout = constant.DefaultClientRequestTimeout
	}

	return &HTTPDashboardAPI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPDashboardAPI) FetchMarket(ctx context.Context) (entity.MarketSnapshot, error) {
	var snapshot entity.MarketSnapshot
	if err := c.get(ctx, constant.MarketRoute, &snapshot); err != nil {
		return entity.MarketSnapshot{}, err
	}
	if snapshot.Quotes == nil {
		snapshot.Quotes = map[string]entity.QuoteResult{}
	}

	return snapshot, nil
}

func (c *HTTPDashboardAPI) FetchNews(ctx context.Context) (entity.NewsSnapshot, error) {
	var snapshot entity.NewsSnapshot
	if err := c.get(ctx, constant.NewsRoute, &snapshot); err != nil {
		return entity.NewsSnapshot{}, err
	}
	if snapshot.Articles == nil {
		snapshot.Articles = []entity.Article{}
	}

	return snapshot, nil
}

func (c *HTTPDashboardAPI) get(ctx context.Context, route string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+route, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("request %s: unexpected status %d", route, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", route, err)
	}

	return nil
}
