package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/sirupsen/logrus"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 45 * time.Second
)

type MarketAggregator interface {
	Aggregate(ctx context.Context) entity.MarketSnapshot
}

type NewsProvider interface {
	Latest(ctx context.Context) entity.NewsSnapshot
}

type StreamConfig struct {
	QuoteInterval time.Duration
	NewsInterval  time.Duration
}

// Handler pushes market and news snapshots to websocket subscribers.
type Handler struct {
	quoteService  MarketAggregator
	newsService   NewsProvider
	quoteInterval time.Duration
	newsInterval  time.Duration
	upgrader      websocket.Upgrader

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDashboardWSHandler(quoteService MarketAggregator, newsService NewsProvider, cfg StreamConfig) *Handler {
	if cfg.QuoteInterval <= 0 {
		cfg.QuoteInterval = constant.DefaultQuotePollInterval
	}
	if cfg.NewsInterval <= 0 {
		cfg.NewsInterval = constant.DefaultNewsPollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		quoteService:  quoteService,
		newsService:   newsService,
		quoteInterval: cfg.QuoteInterval,
		newsInterval:  cfg.NewsInterval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(constant.StreamRoute, h.Stream)
}

func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	if !h.acquire() {
		http.Error(w, "stream is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.wg.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()

	// drain client frames so close and pong control messages are processed
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.push(ctx, conn)
}

// acquire registers a stream unless Close has already run.
func (h *Handler) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx.Err() != nil {
		return false
	}

	h.wg.Add(1)
	return true
}

func (h *Handler) push(ctx context.Context, conn *websocket.Conn) {
	if !h.sendMarket(ctx, conn) || !h.sendNews(ctx, conn) {
		return
	}

	quoteTicker := time.NewTicker(h.quoteInterval)
	defer quoteTicker.Stop()
	newsTicker := time.NewTicker(h.newsInterval)
	defer newsTicker.Stop()
	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case <-quoteTicker.C:
			if !h.sendMarket(ctx, conn) {
				return
			}
		case <-newsTicker.C:
			if !h.sendNews(ctx, conn) {
				return
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) sendMarket(ctx context.Context, conn *websocket.Conn) bool {
	return h.send(conn, entity.StreamEvent{Type: entity.StreamEventMarket, Data: h.quoteService.Aggregate(ctx)})
}

func (h *Handler) sendNews(ctx context.Context, conn *websocket.Conn) bool {
	return h.send(conn, entity.StreamEvent{Type: entity.StreamEventNews, Data: h.newsService.Latest(ctx)})
}

func (h *Handler) send(conn *websocket.Conn, event entity.StreamEvent) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.Errorf("encode %s event: %v", event.Type, err)
		return false
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		logrus.WithField("event", event.Type).Debugf("stream write failed: %v", err)
		return false
	}

	return true
}

// Close ends every open stream and waits for them to return.
func (h *Handler) Close(ctx context.Context) error {
	h.mu.Lock()
	h.cancel()
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
