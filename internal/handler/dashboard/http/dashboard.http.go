package http

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/sirupsen/logrus"
)

type MarketAggregator interface {
	Aggregate(ctx context.Context) entity.MarketSnapshot
}

type NewsProvider interface {
	Latest(ctx context.Context) entity.NewsSnapshot
}

type Handler struct {
	quoteService MarketAggregator
	newsService  NewsProvider
}

func NewDashboardHTTPHandler(quoteService MarketAggregator, newsService NewsProvider) *Handler {
	return &Handler{
		quoteService: quoteService,
		newsService:  newsService,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(constant.MarketRoute, h.GetMarket)
	mux.HandleFunc(constant.NewsRoute, h.GetNews)
}

// GetMarket always answers 200. Per-symbol failures are embedded in the body.
func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, h.quoteService.Aggregate(r.Context()))
}

func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, h.newsService.Latest(r.Context()))
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", constant.CacheControl)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Warnf("write response: %v", err)
	}
}
