package model

import (
	"time"

	"main/internal/model/enum"
)

// Tick is one inbound price update from the bridge. It is never persisted.
// GAP and ECLIPSE_BUFFER override the subscription config when positive.
type Tick struct {
	Symbol        string        `json:"symbol"`
	Bid           float64       `json:"bid"`
	Ask           float64       `json:"ask"`
	Gap           float64       `json:"GAP,omitempty"`
	EclipseBuffer float64       `json:"ECLIPSE_BUFFER,omitempty"`
	Strategy      enum.Strategy `json:"strategy,omitempty"`
	AccountID     string        `json:"accountId"`
}

// Checkpoint is the per-(account, symbol) trading state. Current and
// Direction are written only by the strategy engine; Direction is
// unreliable until InitialTraded is set.
type Checkpoint struct {
	Current       float64        `json:"current" redis:"current"`
	Direction     enum.Direction `json:"direction" redis:"direction"`
	InitialTraded bool           `json:"initialTraded" redis:"initialTraded"`
}

// SymbolConfig is the per-(account, symbol) strategy configuration,
// written at subscribe time and refreshed once after the initial trade.
type SymbolConfig struct {
	Symbol        string         `json:"symbol" redis:"symbol"`
	Gap           float64        `json:"GAP" redis:"GAP"`
	EclipseBuffer float64        `json:"ECLIPSE_BUFFER" redis:"ECLIPSE_BUFFER"`
	Volume        float64        `json:"volume" redis:"volume"`
	Strategy      enum.Strategy  `json:"strategy" redis:"strategy"`
	Direction     enum.Direction `json:"direction,omitempty" redis:"direction"`
}

// TradeEvent is the audit record appended to the durable queue for every
// trade and every checkpoint-only (SKIP) transition.
type TradeEvent struct {
	Symbol     string         `json:"symbol"`
	Price      float64        `json:"price"`
	Action     enum.Action    `json:"action"`
	Direction  enum.Direction `json:"direction"`
	Checkpoint float64        `json:"checkpoint"`
	CreatedAt  time.Time      `json:"createdAt"`
	AccountID  string         `json:"accountId"`
	Reason     enum.Reason    `json:"reason"`
}
