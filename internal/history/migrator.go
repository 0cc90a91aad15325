// Package history drains the durable event queue into permanent storage.
package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/obs"
	"main/internal/queue"
	"main/internal/storage"
)

const (
	defaultInterval  = 5 * time.Second
	defaultBatchSize = 20
)

// Migrator periodically moves bounded batches of trade events from the
// queue into permanent storage, resolving each event to its owning
// subscription. Semantics are at-least-once: the queue is trimmed by the
// number of entries read, even when the insert failed, so a crash in
// between can replay but never silently drops a whole batch forever.
type Migrator struct {
	queue     queue.Queue
	repo      *storage.Repository
	interval  time.Duration
	batchSize int
}

// New builds a migrator. Non-positive interval/batch select the
// defaults (5 seconds, 20 entries).
func New(q queue.Queue, repo *storage.Repository, interval time.Duration, batchSize int) *Migrator {
	if interval <= 0 {
		interval = defaultInterval
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Migrator{queue: q, repo: repo, interval: interval, batchSize: batchSize}
}

// Run migrates on a fixed period until ctx is done.
func (m *Migrator) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			migrated, err := m.RunOnce(ctx)
			if err != nil {
				logs.Errorf("migrate trade history, err: %+v", err)
				continue
			}
			if migrated > 0 {
				logs.Infof("migrated %d trade history records", migrated)
			}
		}
	}
}

// RunOnce processes a single batch and returns the number of rows
// written to permanent storage.
func (m *Migrator) RunOnce(ctx context.Context) (int, error) {
	raw, err := m.queue.Peek(ctx, m.batchSize)
	if err != nil {
		return 0, errors.Wrap(err, "peek event batch")
	}
	if len(raw) == 0 {
		return 0, nil
	}

	byAccount := make(map[string][]model.TradeEvent)
	for _, payload := range raw {
		var event model.TradeEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logs.Warnf("discard malformed queue entry, err: %+v", err)
			continue
		}
		if event.AccountID == "" || event.Symbol == "" {
			continue
		}
		byAccount[event.AccountID] = append(byAccount[event.AccountID], event)
	}

	var rows []storage.TradeHistory
	for accountID, events := range byAccount {
		symbols := distinctSymbols(events)
		ids, err := m.repo.ActiveSubscriptionIDs(ctx, accountID, symbols)
		if err != nil {
			return 0, errors.Wrap(err, "resolve subscriptions")
		}
		for _, event := range events {
			id, ok := ids[event.Symbol]
			if !ok {
				continue
			}
			rows = append(rows, storage.TradeHistory{
				SubscriptionID: id,
				Price:          event.Price,
				Action:         event.Action,
				Direction:      event.Direction,
				Checkpoint:     event.Checkpoint,
				Reason:         event.Reason,
				CreatedAt:      event.CreatedAt,
			})
		}
	}

	if err := m.repo.BulkInsertHistory(ctx, rows); err != nil {
		// Trim regardless: replay duplicates are preferred over a batch
		// wedging the queue head.
		logs.Errorf("bulk insert trade history, err: %+v", err)
		rows = nil
	}

	if err := m.queue.Trim(ctx, len(raw)); err != nil {
		return len(rows), errors.Wrap(err, "trim event queue")
	}
	obs.MigratedTotal.Add(float64(len(rows)))
	return len(rows), nil
}

func distinctSymbols(events []model.TradeEvent) []string {
	seen := make(map[string]struct{}, len(events))
	symbols := make([]string, 0, len(events))
	for _, event := range events {
		if _, ok := seen[event.Symbol]; ok {
			continue
		}
		seen[event.Symbol] = struct{}{}
		symbols = append(symbols, event.Symbol)
	}
	return symbols
}
