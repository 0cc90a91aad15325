package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"main/internal/checkpoint"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/storage"
)

type fakeSender struct {
	sent []any
}

func (s *fakeSender) Send(v any) error {
	s.sent = append(s.sent, v)
	return nil
}

type fixture struct {
	router *gin.Engine
	repo   *storage.Repository
	store  *checkpoint.Memory
	sender *fakeSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	repo := storage.NewRepository(db)
	require.NoError(t, repo.AutoMigrate())

	store := checkpoint.NewMemory()
	sender := &fakeSender{}
	router := gin.New()
	NewHandler(repo, store, sender).Register(router)
	return &fixture{router: router, repo: repo, store: store, sender: sender}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func toggleBody() map[string]any {
	return map[string]any{
		"symbol":    "EURUSD",
		"GAP":       2,
		"volume":    0.1,
		"strategy":  "STATIC",
		"accountId": "acc",
	}
}

func TestToggleSubscribesNewSymbol(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/trade", toggleBody())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "subscribed")

	sub, err := f.repo.ActiveSubscription(context.Background(), "acc", "EURUSD")
	require.NoError(t, err)
	assert.Equal(t, enum.StrategyStatic, sub.Strategy)

	cfg, ok, err := f.store.Config(context.Background(), "acc", "EURUSD")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, cfg.Gap)

	require.Len(t, f.sender.sent, 1)
	cmd, ok := f.sender.sent[0].(model.SubscribeCommand)
	require.True(t, ok)
	assert.Equal(t, model.ActionSubscribe, cmd.Action)
	assert.Equal(t, "EURUSD", cmd.Symbol)
}

func TestToggleUnsubscribesExistingSymbol(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.do(t, http.MethodPost, "/trade", toggleBody())
	require.NoError(t, f.store.PutCheckpoint(ctx, "acc", "EURUSD", model.Checkpoint{Current: 100}))

	rec := f.do(t, http.MethodPost, "/trade", toggleBody())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsubscribed")

	_, err := f.repo.ActiveSubscription(ctx, "acc", "EURUSD")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, ok, err := f.store.Config(ctx, "acc", "EURUSD")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = f.store.Checkpoint(ctx, "acc", "EURUSD")
	require.NoError(t, err)
	assert.False(t, ok)

	require.Len(t, f.sender.sent, 2)
	cmd, ok := f.sender.sent[1].(model.UnsubscribeCommand)
	require.True(t, ok)
	assert.Equal(t, model.ActionUnsubscribe, cmd.Action)
}

func TestToggleValidation(t *testing.T) {
	f := newFixture(t)

	missing := toggleBody()
	delete(missing, "accountId")
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/trade", missing).Code)

	unknown := toggleBody()
	unknown["strategy"] = "GRID"
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/trade", unknown).Code)

	reversal := toggleBody()
	reversal["strategy"] = "REVERSAL"
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/trade", reversal).Code)

	reversal["direction"] = "BUY"
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/trade", reversal).Code)
}

func TestListSubscriptions(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/trade", nil).Code)

	f.do(t, http.MethodPost, "/trade", toggleBody())
	rec := f.do(t, http.MethodGet, "/trade", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Payload []storage.Subscription `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Payload, 1)
	assert.Equal(t, "EURUSD", resp.Payload[0].Symbol)
}

func TestHistoryEndpoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/trade/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/trade/1", nil).Code)

	sub := &storage.Subscription{AccountID: "acc", Symbol: "EURUSD", Strategy: enum.StrategyStatic}
	require.NoError(t, f.repo.CreateSubscription(ctx, sub))
	require.NoError(t, f.repo.BulkInsertHistory(ctx, []storage.TradeHistory{
		{SubscriptionID: sub.ID, Price: 101.2, Action: enum.ActionBuy},
	}))

	rec := f.do(t, http.MethodGet, "/trade/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Payload []storage.TradeHistory `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Payload, 1)
	assert.Equal(t, 101.2, resp.Payload[0].Price)
}
