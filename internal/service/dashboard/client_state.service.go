package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/guregu/null/v6"
	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/sirupsen/logrus"
)

// Snapshot is a point-in-time copy of what the client holds. Market and
// News stay nil until their first successful refresh.
type Snapshot struct {
	Market          *entity.MarketSnapshot
	News            *entity.NewsSnapshot
	MarketUpdatedAt null.Time
	NewsUpdatedAt   null.Time
}

type ClientStateConfig struct {
	QuoteInterval time.Duration
	NewsInterval  time.Duration
	OnChange      func(Snapshot)
}

// ClientState polls the dashboard API on two independent intervals and
// keeps the last successful result of each.
type ClientState struct {
	api           DashboardAPI
	quoteInterval time.Duration
	newsInterval  time.Duration
	onChange      func(Snapshot)

	mu              sync.RWMutex
	market          *entity.MarketSnapshot
	news            *entity.NewsSnapshot
	marketUpdatedAt null.Time
	newsUpdatedAt   null.Time

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewClientState(api DashboardAPI, cfg ClientStateConfig) *ClientState {
	quoteInterval := cfg.QuoteInterval
	if quoteInterval <= 0 {
		quoteInterval = constant.DefaultQuotePollInterval
	}

	newsInterval := cfg.NewsInterval
	if newsInterval <= 0 {
		newsInterval = constant.DefaultNewsPollInterval
	}

	return &ClientState{
		api:           api,
		quoteInterval: quoteInterval,
		newsInterval:  newsInterval,
		onChange:      cfg.OnChange,
	}
}

// Start launches both polling loops. Each fires immediately. Calling Start
// on a running state is a no-op.
func (s *ClientState) Start(ctx context.Context) {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go s.poll(loopCtx, s.quoteInterval, s.RefreshMarket)
	go s.poll(loopCtx, s.newsInterval, s.RefreshNews)
}

// Stop cancels both loops and waits for in-flight refreshes to return.
func (s *ClientState) Stop() {
	s.lifecycleMu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.lifecycleMu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	s.wg.Wait()
}

func (s *ClientState) poll(ctx context.Context, interval time.Duration, refresh func(context.Context) bool) {
	defer s.wg.Done()

	refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh(ctx)
		}
	}
}

// RefreshMarket fetches quotes once. On failure the previous snapshot and
// its timestamp are kept.
func (s *ClientState) RefreshMarket(ctx context.Context) bool {
	snapshot, err := s.api.FetchMarket(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logrus.Warnf("market refresh failed: %v", err)
		}
		return false
	}

	s.mu.Lock()
	s.market = &snapshot
	s.marketUpdatedAt = null.TimeFrom(snapshot.FetchedAt.Time)
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *ClientState) RefreshNews(ctx context.Context) bool {
	snapshot, err := s.api.FetchNews(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logrus.Warnf("news refresh failed: %v", err)
		}
		return false
	}

	s.mu.Lock()
	s.news = &snapshot
	s.newsUpdatedAt = null.TimeFrom(snapshot.FetchedAt.Time)
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *ClientState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Market:          s.market,
		News:            s.news,
		MarketUpdatedAt: s.marketUpdatedAt,
		NewsUpdatedAt:   s.newsUpdatedAt,
	}
}

func (s *ClientState) notify() {
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}
