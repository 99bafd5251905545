package entity

type StreamEventType string

const (
	StreamEventMarket StreamEventType = "market"
	StreamEventNews   StreamEventType = "news"
)

type StreamEvent struct {
	Type StreamEventType `json:"type"`
	Data any             `json:"data"`
}
