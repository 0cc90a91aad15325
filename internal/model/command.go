package model

import (
	"main/internal/model/enum"
)

// TradeCommand is the outbound trade signal handed to the bridge. The
// nonce is a single-use token for idempotency on the receiving side.
type TradeCommand struct {
	Type          string         `json:"type"`
	Symbol        string         `json:"symbol"`
	Action        enum.Action    `json:"action"`
	Price         float64        `json:"price"`
	Gap           float64        `json:"GAP"`
	EclipseBuffer float64        `json:"ECLIPSE_BUFFER"`
	Checkpoint    float64        `json:"checkpoint"`
	InitialTraded bool           `json:"initialTraded"`
	Direction     enum.Direction `json:"direction"`
	Nonce         string         `json:"nonce"`
	Volume        float64        `json:"volume"`
	Strategy      enum.Strategy  `json:"strategy"`
	Reason        enum.Reason    `json:"reason,omitempty"`
}

// SubscribeCommand tells the bridge to start forwarding ticks for a symbol.
type SubscribeCommand struct {
	Action        string        `json:"action"`
	Symbol        string        `json:"symbol"`
	Gap           float64       `json:"GAP"`
	EclipseBuffer float64       `json:"ECLIPSE_BUFFER"`
	Volume        float64       `json:"volume"`
	Strategy      enum.Strategy `json:"strategy"`
}

// UnsubscribeCommand tells the bridge to stop forwarding ticks for a symbol.
type UnsubscribeCommand struct {
	Action string `json:"action"`
	Symbol string `json:"symbol"`
}

// Heartbeat is a periodic liveness frame. It is never acknowledged.
type Heartbeat struct {
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"`
}

const (
	CommandTypeTrade  = "trade"
	ActionSubscribe   = "SUBSCRIBE"
	ActionUnsubscribe = "UNSUBSCRIBE"
	ActionHeartbeat   = "HEARTBEAT"
)

// NewSubscribe builds the SUBSCRIBE frame for a symbol config.
func NewSubscribe(cfg SymbolConfig) SubscribeCommand {
	return SubscribeCommand{
		Action:        ActionSubscribe,
		Symbol:        cfg.Symbol,
		Gap:           cfg.Gap,
		EclipseBuffer: cfg.EclipseBuffer,
		Volume:        cfg.Volume,
		Strategy:      cfg.Strategy,
	}
}

// NewUnsubscribe builds the UNSUBSCRIBE frame for a symbol.
func NewUnsubscribe(symbol string) UnsubscribeCommand {
	return UnsubscribeCommand{Action: ActionUnsubscribe, Symbol: symbol}
}
