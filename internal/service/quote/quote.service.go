package quote

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	errMessageNoData      = "No data"
	errMessageFetchFailed = "Fetch failed"
)

type QuoteServiceConfig struct {
	Symbols           []string
	Timeout           time.Duration
	MarketStatePolicy string
}

type QuoteService struct {
	client            ChartClient
	symbols           []string
	timeout           time.Duration
	marketStatePolicy string
	now               func() time.Time
}

func NewQuoteService(client ChartClient, cfg QuoteServiceConfig) *QuoteService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constant.DefaultQuoteFetchTimeout
	}

	policy := cfg.MarketStatePolicy
	if policy == "" {
		policy = constant.MarketStatePolicyWindow
	}

	symbols := make([]string, len(cfg.Symbols))
	copy(symbols, cfg.Symbols)

	return &QuoteService{
		client:            client,
		symbols:           symbols,
		timeout:           timeout,
		marketStatePolicy: policy,
		now:               time.Now,
	}
}

func (s *QuoteService) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Aggregate fetches every symbol concurrently. A failing symbol yields an
// error entry and never delays or drops the others.
func (s *QuoteService) Aggregate(ctx context.Context) entity.MarketSnapshot {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		quotes = make(map[string]entity.QuoteResult, len(s.symbols))
	)

	for _, symbol := range s.symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			result := s.fetchQuote(ctx, symbol)

			mu.Lock()
			quotes[symbol] = result
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()

	return entity.MarketSnapshot{
		Quotes:    quotes,
		FetchedAt: entity.NewTimestamp(s.now()),
	}
}

func (s *QuoteService) fetchQuote(ctx context.Context, symbol string) entity.QuoteResult {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	meta, err := s.client.FetchChartMeta(fetchCtx, symbol)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"symbol": symbol,
		}).Warnf("quote fetch failed: %v", err)

		return entity.NewQuoteError(quoteErrorMessage(err))
	}

	return entity.NewQuoteResult(buildQuote(meta, resolveMarketState(s.marketStatePolicy, meta, s.now())))
}

func buildQuote(meta *entity.ChartMeta, state entity.MarketState) entity.Quote {
	price := decimal.Zero
	if meta.RegularMarketPrice != nil {
		price = decimal.NewFromFloat(*meta.RegularMarketPrice)
	}

	previousClose := price
	switch {
	case meta.ChartPreviousClose != nil:
		previousClose = decimal.NewFromFloat(*meta.ChartPreviousClose)
	case meta.PreviousClose != nil:
		previousClose = decimal.NewFromFloat(*meta.PreviousClose)
	}

	change := price.Sub(previousClose)
	changePercent := decimal.Zero
	if !previousClose.IsZero() {
		changePercent = change.Div(previousClose).Mul(decimal.NewFromInt(100))
	}

	return entity.Quote{
		Price:         price.InexactFloat64(),
		Change:        change.InexactFloat64(),
		ChangePercent: changePercent.InexactFloat64(),
		MarketState:   state,
	}
}

func quoteErrorMessage(err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Error()
	case errors.Is(err, ErrNoChartData):
		return errMessageNoData
	default:
		return errMessageFetchFailed
	}
}
