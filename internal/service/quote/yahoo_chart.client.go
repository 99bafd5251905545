package quote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/krobus00/dashboard-service/internal/entity"
)

var (
	ErrNoChartData = errors.New("no chart data")
)

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

type ChartClient interface {
	FetchChartMeta(ctx context.Context, symbol string) (*entity.ChartMeta, error)
}

type YahooChartClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewYahooChartClient(baseURL, userAgent string, timeout time.Duration) *YahooChartClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &YahooChartClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *YahooChartClient) FetchChartMeta(ctx context.Context, symbol string) (*entity.ChartMeta, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var chartResp entity.ChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(chartResp.Chart.Result) == 0 || chartResp.Chart.Result[0].Meta == nil {
		return nil, ErrNoChartData
	}

	return chartResp.Chart.Result[0].Meta, nil
}
