// Package strategy decides, tick by tick, whether a symbol trades,
// advances its checkpoint silently, or does nothing.
package strategy

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/checkpoint"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/obs"
	"main/internal/queue"
)

// Sender forwards an outbound command to the bridge. It fails fast when
// no connection is live; commands are never queued.
type Sender interface {
	Send(v any) error
}

// Defaults apply when neither the tick nor the symbol config carries a
// positive value.
type Defaults struct {
	Gap           float64
	EclipseBuffer float64
	Volume        float64
}

// DefaultConfig mirrors the bridge's historical fallbacks.
func DefaultConfig() Defaults {
	return Defaults{Gap: 2, EclipseBuffer: 0.3, Volume: 0.1}
}

// Engine evaluates ticks against the checkpoint store. All decisions are
// deterministic given the current checkpoint, the symbol config, and the
// tick; evaluations for the same (account, symbol) are serialized.
type Engine struct {
	store    checkpoint.Store
	queue    queue.Queue
	sender   Sender
	defaults Defaults
	locks    *keyLock

	now   func() time.Time
	nonce func() string
}

// New builds an engine on top of the given store, queue and sender.
func New(store checkpoint.Store, q queue.Queue, sender Sender, defaults Defaults) *Engine {
	if defaults.Gap <= 0 {
		defaults.Gap = 2
	}
	if defaults.EclipseBuffer <= 0 {
		defaults.EclipseBuffer = 0.3
	}
	if defaults.Volume <= 0 {
		defaults.Volume = 0.1
	}
	return &Engine{
		store:    store,
		queue:    q,
		sender:   sender,
		defaults: defaults,
		locks:    newKeyLock(),
		now:      time.Now,
		nonce:    uuid.NewString,
	}
}

// HandleTick runs one evaluation to completion. A failed store or queue
// operation aborts the tick and leaves the state from before the failed
// step; no error is ever surfaced back over the wire.
func (e *Engine) HandleTick(ctx context.Context, tick model.Tick) error {
	if tick.Symbol == "" || tick.Bid <= 0 {
		obs.DroppedTicksTotal.WithLabelValues("invalid").Inc()
		return nil
	}
	obs.TicksTotal.WithLabelValues(tick.Symbol).Inc()

	mu := e.locks.Acquire(checkpoint.Key(tick.AccountID, tick.Symbol))
	defer mu.Unlock()

	cfg, _, err := e.store.Config(ctx, tick.AccountID, tick.Symbol)
	if err != nil {
		return errors.Wrap(err, "load symbol config")
	}

	strat := tick.Strategy
	if !strat.IsAvailable() {
		strat = cfg.Strategy
	}
	if !strat.IsAvailable() {
		logs.Warnf("%s: unknown strategy %q, tick dropped", tick.Symbol, tick.Strategy)
		obs.DroppedTicksTotal.WithLabelValues("strategy").Inc()
		return nil
	}

	gap := tick.Gap
	if gap <= 0 {
		gap = cfg.Gap
	}
	if gap <= 0 {
		gap = e.defaults.Gap
	}
	eclipseBuffer := tick.EclipseBuffer
	if eclipseBuffer <= 0 {
		eclipseBuffer = cfg.EclipseBuffer
	}
	if eclipseBuffer <= 0 {
		eclipseBuffer = e.defaults.EclipseBuffer
	}

	price := round3(tick.Bid)
	buyPrice := round3(tick.Ask)

	cp, ok, err := e.store.Checkpoint(ctx, tick.AccountID, tick.Symbol)
	if err != nil {
		return errors.Wrap(err, "load checkpoint")
	}
	if !ok {
		cp = model.Checkpoint{Current: price}
		if err := e.store.PutCheckpoint(ctx, tick.AccountID, tick.Symbol, cp); err != nil {
			return errors.Wrap(err, "init checkpoint")
		}
		logs.Infof("%s: initialized checkpoint at %v", tick.Symbol, price)
		return nil
	}

	if !cp.InitialTraded {
		return e.initialTrade(ctx, tick, cfg, strat, cp, gap, eclipseBuffer, price, buyPrice)
	}

	var (
		next  transition
		moved bool
	)
	switch strat {
	case enum.StrategyStatic:
		next, moved = staticNext(cp, price, buyPrice)
	case enum.StrategyTrailing:
		next, moved = trailingNext(cp, price, buyPrice, gap)
	case enum.StrategyReversal:
		next, moved = reversalNext(cp, price, buyPrice, gap)
	}
	if !moved {
		return nil
	}

	updated := model.Checkpoint{Current: next.current, Direction: next.direction, InitialTraded: true}
	if err := e.store.PutCheckpoint(ctx, tick.AccountID, tick.Symbol, updated); err != nil {
		return errors.Wrap(err, "update checkpoint")
	}

	if !next.trade {
		logs.Infof("%s: %v | checkpoint advanced to %v | skipped", tick.Symbol, next.price, next.current)
		obs.SkipsTotal.WithLabelValues(tick.Symbol).Inc()
		return e.appendEvent(ctx, tick, enum.ActionSkip, next.price, next.direction, next.current, enum.ReasonSignal)
	}

	logs.Infof("%s: %v | checkpoint %v | trade triggered (%s)", tick.Symbol, next.price, next.current, next.direction)
	return e.emitTrade(ctx, tick, cfg, strat, updated, gap, next.price, enum.ReasonSignal)
}

// initialTrade applies the once-per-symbol gate. REVERSAL takes its
// direction from config and pre-arms the band one gap against it;
// STATIC and TRAILING wait out the eclipse buffer and follow the move.
func (e *Engine) initialTrade(ctx context.Context, tick model.Tick, cfg model.SymbolConfig, strat enum.Strategy, cp model.Checkpoint, gap, eclipseBuffer, price, buyPrice float64) error {
	var (
		direction  enum.Direction
		tradePrice float64
		current    float64
	)

	if strat == enum.StrategyReversal {
		direction = cfg.Direction
		if !direction.IsAvailable() {
			logs.Errorf("%s: REVERSAL strategy without configured direction, tick dropped", tick.Symbol)
			obs.DroppedTicksTotal.WithLabelValues("config").Inc()
			return nil
		}
		if direction == enum.DirectionBuy {
			tradePrice = buyPrice
			current = sub3(tradePrice, gap)
		} else {
			tradePrice = price
			current = add3(tradePrice, gap)
		}
	} else {
		if math.Abs(price-cp.Current) < eclipseBuffer {
			return nil
		}
		if price > cp.Current {
			direction = enum.DirectionBuy
			tradePrice = buyPrice
		} else {
			direction = enum.DirectionSell
			tradePrice = price
		}
		current = round3(tradePrice)
	}

	updated := model.Checkpoint{Current: current, Direction: direction, InitialTraded: true}
	if err := e.store.PutCheckpoint(ctx, tick.AccountID, tick.Symbol, updated); err != nil {
		return errors.Wrap(err, "store initial checkpoint")
	}

	// The buffer gates only the very first trade.
	cfg.Symbol = tick.Symbol
	cfg.Gap = gap
	cfg.EclipseBuffer = 0
	cfg.Strategy = strat
	if err := e.store.PutConfig(ctx, tick.AccountID, tick.Symbol, cfg); err != nil {
		return errors.Wrap(err, "refresh symbol config")
	}

	logs.Infof("%s: %v | initial trade (%s) | checkpoint %v", tick.Symbol, tradePrice, direction, current)
	return e.emitTrade(ctx, tick, cfg, strat, updated, gap, tradePrice, enum.ReasonInitial)
}

func (e *Engine) emitTrade(ctx context.Context, tick model.Tick, cfg model.SymbolConfig, strat enum.Strategy, cp model.Checkpoint, gap, tradePrice float64, reason enum.Reason) error {
	action := enum.ActionFor(cp.Direction)
	if err := e.appendEvent(ctx, tick, action, tradePrice, cp.Direction, cp.Current, reason); err != nil {
		return err
	}

	volume := cfg.Volume
	if volume <= 0 {
		volume = e.defaults.Volume
	}
	command := model.TradeCommand{
		Type:          model.CommandTypeTrade,
		Symbol:        tick.Symbol,
		Action:        action,
		Price:         tradePrice,
		Gap:           gap,
		EclipseBuffer: cfg.EclipseBuffer,
		Checkpoint:    cp.Current,
		InitialTraded: cp.InitialTraded,
		Direction:     cp.Direction,
		Nonce:         e.nonce(),
		Volume:        volume,
		Strategy:      strat,
		Reason:        reason,
	}
	if err := e.sender.Send(command); err != nil {
		logs.Errorf("%s: send trade command, err: %+v", tick.Symbol, err)
		return nil
	}
	obs.TradesTotal.WithLabelValues(tick.Symbol, string(action)).Inc()
	return nil
}

func (e *Engine) appendEvent(ctx context.Context, tick model.Tick, action enum.Action, price float64, direction enum.Direction, current float64, reason enum.Reason) error {
	event := model.TradeEvent{
		Symbol:     tick.Symbol,
		Price:      price,
		Action:     action,
		Direction:  direction,
		Checkpoint: current,
		CreatedAt:  e.now().UTC(),
		AccountID:  tick.AccountID,
		Reason:     reason,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal trade event")
	}
	return errors.Wrap(e.queue.Append(ctx, payload), "append trade event")
}
