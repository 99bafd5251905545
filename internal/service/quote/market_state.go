package quote

import (
	"strings"
	"time"

	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/krobus00/dashboard-service/internal/entity"
)

// DeriveMarketState picks the trading window containing now.
// Regular wins over pre, pre wins over post. No windows means CLOSED.
func DeriveMarketState(periods *entity.TradingPeriods, now time.Time) entity.MarketState {
	if periods == nil {
		return entity.MarketStateClosed
	}

	ts := now.Unix()
	switch {
	case periods.Regular.Contains(ts):
		return entity.MarketStateRegular
	case periods.Pre.Contains(ts):
		return entity.MarketStatePre
	case periods.Post.Contains(ts):
		return entity.MarketStatePost
	default:
		return entity.MarketStateClosed
	}
}

// NormalizeMarketState maps the provider's state string onto MarketState.
func NormalizeMarketState(raw string) entity.MarketState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "REGULAR":
		return entity.MarketStateRegular
	case "PRE", "PREPRE":
		return entity.MarketStatePre
	case "POST", "POSTPOST":
		return entity.MarketStatePost
	default:
		return entity.MarketStateClosed
	}
}

func resolveMarketState(policy string, meta *entity.ChartMeta, now time.Time) entity.MarketState {
	if policy == constant.MarketStatePolicyUpstream {
		return NormalizeMarketState(meta.MarketState)
	}

	return DeriveMarketState(meta.CurrentTradingPeriod, now)
}
