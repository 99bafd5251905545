package entity

import (
	"time"

	"github.com/goccy/go-json"
)

type MarketState string

const (
	MarketStateRegular MarketState = "REGULAR"
	MarketStatePre     MarketState = "PRE"
	MarketStatePost    MarketState = "POST"
	MarketStateClosed  MarketState = "CLOSED"
)

type Quote struct {
	Price         float64     `json:"price"`
	Change        float64     `json:"change"`
	ChangePercent float64     `json:"changePercent"`
	MarketState   MarketState `json:"marketState"`
}

// QuoteResult holds either a Quote or the message of a failed fetch.
type QuoteResult struct {
	Quote *Quote
	Error string
}

func NewQuoteResult(quote Quote) QuoteResult {
	return QuoteResult{Quote: &quote}
}

func NewQuoteError(message string) QuoteResult {
	return QuoteResult{Error: message}
}

func (r QuoteResult) IsError() bool {
	return r.Quote == nil
}

type quoteErrorPayload struct {
	Error string `json:"error"`
}

func (r QuoteResult) MarshalJSON() ([]byte, error) {
	if r.Quote == nil {
		return json.Marshal(quoteErrorPayload{Error: r.Error})
	}

	return json.Marshal(r.Quote)
}

func (r *QuoteResult) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	if envelope.Error != nil {
		*r = QuoteResult{Error: *envelope.Error}
		return nil
	}

	var quote Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return err
	}

	*r = QuoteResult{Quote: &quote}
	return nil
}

type MarketSnapshot struct {
	Quotes    map[string]QuoteResult `json:"quotes"`
	FetchedAt Timestamp              `json:"fetchedAt"`
}

type TradingPeriod struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Contains reports whether unix second ts falls inside [Start, End).
func (p *TradingPeriod) Contains(ts int64) bool {
	if p == nil {
		return false
	}

	return ts >= p.Start && ts < p.End
}

type TradingPeriods struct {
	Pre     *TradingPeriod `json:"pre"`
	Regular *TradingPeriod `json:"regular"`
	Post    *TradingPeriod `json:"post"`
}

// ChartMeta is the subset of the upstream chart meta block the aggregator reads.
type ChartMeta struct {
	Symbol               string          `json:"symbol"`
	RegularMarketPrice   *float64        `json:"regularMarketPrice"`
	ChartPreviousClose   *float64        `json:"chartPreviousClose"`
	PreviousClose        *float64        `json:"previousClose"`
	MarketState          string          `json:"marketState"`
	CurrentTradingPeriod *TradingPeriods `json:"currentTradingPeriod"`
}

type ChartResponse struct {
	Chart struct {
		Result []struct {
			Meta *ChartMeta `json:"meta"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// Timestamp encodes as an ISO-8601 UTC string with millisecond precision.
type Timestamp struct {
	time.Time
}

const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return err
	}

	t.Time = parsed.UTC()
	return nil
}
