package history

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/queue"
	"main/internal/storage"
)

func newTestRepository(t *testing.T) *storage.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	repo := storage.NewRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func enqueue(t *testing.T, q queue.Queue, event model.TradeEvent) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, q.Append(context.Background(), payload))
}

func TestRunOnceMigratesBatch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	q := queue.NewMemory()

	sub := &storage.Subscription{AccountID: "acc", Symbol: "EURUSD", Strategy: enum.StrategyStatic}
	require.NoError(t, repo.CreateSubscription(ctx, sub))

	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	enqueue(t, q, model.TradeEvent{
		Symbol:     "EURUSD",
		Price:      101.2,
		Action:     enum.ActionBuy,
		Direction:  enum.DirectionBuy,
		Checkpoint: 100,
		CreatedAt:  created,
		AccountID:  "acc",
		Reason:     enum.ReasonSignal,
	})
	enqueue(t, q, model.TradeEvent{
		Symbol:     "EURUSD",
		Price:      102,
		Action:     enum.ActionSkip,
		Direction:  enum.DirectionBuy,
		Checkpoint: 102,
		CreatedAt:  created.Add(time.Second),
		AccountID:  "acc",
		Reason:     enum.ReasonSignal,
	})

	migrator := New(q, repo, 0, 0)
	migrated, err := migrator.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, migrated)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := repo.HistoryBySubscription(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 101.2, rows[0].Price)
	assert.Equal(t, enum.ActionBuy, rows[0].Action)
	assert.Equal(t, 100.0, rows[0].Checkpoint)
	assert.Equal(t, enum.ActionSkip, rows[1].Action)
}

func TestRunOnceRespectsBatchSize(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	q := queue.NewMemory()

	sub := &storage.Subscription{AccountID: "acc", Symbol: "EURUSD", Strategy: enum.StrategyStatic}
	require.NoError(t, repo.CreateSubscription(ctx, sub))

	for i := 0; i < 5; i++ {
		enqueue(t, q, model.TradeEvent{
			Symbol:    "EURUSD",
			Price:     100 + float64(i),
			Action:    enum.ActionBuy,
			AccountID: "acc",
		})
	}

	migrator := New(q, repo, 0, 2)
	migrated, err := migrator.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, migrated)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRunOnceDropsUnresolvableEvents(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	q := queue.NewMemory()

	sub := &storage.Subscription{AccountID: "acc", Symbol: "EURUSD", Strategy: enum.StrategyStatic}
	require.NoError(t, repo.CreateSubscription(ctx, sub))

	require.NoError(t, q.Append(ctx, []byte("not json")))
	enqueue(t, q, model.TradeEvent{Symbol: "GBPUSD", Price: 1.3, Action: enum.ActionBuy, AccountID: "acc"})
	enqueue(t, q, model.TradeEvent{Symbol: "EURUSD", Price: 100, Action: enum.ActionBuy})
	enqueue(t, q, model.TradeEvent{Symbol: "EURUSD", Price: 101, Action: enum.ActionBuy, AccountID: "acc"})

	migrator := New(q, repo, 0, 0)
	migrated, err := migrator.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, migrated)

	// Dropped entries leave the queue too.
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := repo.HistoryBySubscription(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 101.0, rows[0].Price)
}

func TestRunOnceEmptyQueue(t *testing.T) {
	migrator := New(queue.NewMemory(), newTestRepository(t), 0, 0)
	migrated, err := migrator.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, migrated)
}

func TestRunOnceGroupsByAccount(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	q := queue.NewMemory()

	alice := &storage.Subscription{AccountID: "alice", Symbol: "EURUSD", Strategy: enum.StrategyStatic}
	bob := &storage.Subscription{AccountID: "bob", Symbol: "EURUSD", Strategy: enum.StrategyStatic}
	require.NoError(t, repo.CreateSubscription(ctx, alice))
	require.NoError(t, repo.CreateSubscription(ctx, bob))

	enqueue(t, q, model.TradeEvent{Symbol: "EURUSD", Price: 1, Action: enum.ActionBuy, AccountID: "alice"})
	enqueue(t, q, model.TradeEvent{Symbol: "EURUSD", Price: 2, Action: enum.ActionSell, AccountID: "bob"})

	migrator := New(q, repo, 0, 0)
	migrated, err := migrator.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, migrated)

	aliceRows, err := repo.HistoryBySubscription(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceRows, 1)
	assert.Equal(t, 1.0, aliceRows[0].Price)

	bobRows, err := repo.HistoryBySubscription(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobRows, 1)
	assert.Equal(t, 2.0, bobRows[0].Price)
}
