// Package api is the thin subscription layer in front of the core: it
// manages subscription lifecycle and reads trade history. It never
// evaluates ticks.
package api

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yanun0323/logs"

	"main/internal/checkpoint"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/storage"
	"main/internal/strategy"
)

// Handler exposes the subscription endpoints.
type Handler struct {
	repo   *storage.Repository
	store  checkpoint.Store
	sender strategy.Sender
}

// NewHandler wires the API against permanent storage, the checkpoint
// store, and the bridge sender.
func NewHandler(repo *storage.Repository, store checkpoint.Store, sender strategy.Sender) *Handler {
	return &Handler{repo: repo, store: store, sender: sender}
}

// Register mounts the routes on the given router group.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/trade", h.toggle)
	r.GET("/trade", h.list)
	r.GET("/trade/:id", h.history)
}

type toggleRequest struct {
	Symbol        string         `json:"symbol" binding:"required"`
	Gap           float64        `json:"GAP" binding:"required"`
	EclipseBuffer float64        `json:"ECLIPSE_BUFFER"`
	Volume        float64        `json:"volume" binding:"required"`
	Strategy      enum.Strategy  `json:"strategy" binding:"required"`
	Direction     enum.Direction `json:"direction"`
	AccountID     string         `json:"accountId" binding:"required"`
}

// toggle subscribes a symbol that is not under management and
// unsubscribes one that is, mirroring the single toggle endpoint the
// bridge operators use.
func (h *Handler) toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !req.Strategy.IsAvailable() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unknown strategy"})
		return
	}
	if req.Strategy == enum.StrategyReversal && !req.Direction.IsAvailable() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "REVERSAL requires a direction"})
		return
	}

	ctx := c.Request.Context()
	_, err := h.repo.ActiveSubscription(ctx, req.AccountID, req.Symbol)
	switch {
	case err == nil:
		h.unsubscribe(c, req)
	case stderrors.Is(err, storage.ErrNotFound):
		h.subscribe(c, req)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}

func (h *Handler) subscribe(c *gin.Context, req toggleRequest) {
	ctx := c.Request.Context()
	cfg := model.SymbolConfig{
		Symbol:        req.Symbol,
		Gap:           req.Gap,
		EclipseBuffer: req.EclipseBuffer,
		Volume:        req.Volume,
		Strategy:      req.Strategy,
		Direction:     req.Direction,
	}
	if err := h.store.PutConfig(ctx, req.AccountID, req.Symbol, cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if err := h.repo.CreateSubscription(ctx, &storage.Subscription{
		AccountID:     req.AccountID,
		Symbol:        req.Symbol,
		Gap:           req.Gap,
		EclipseBuffer: req.EclipseBuffer,
		Volume:        req.Volume,
		Strategy:      req.Strategy,
		Direction:     req.Direction,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if err := h.sender.Send(model.NewSubscribe(cfg)); err != nil {
		logs.Errorf("%s: send subscribe, err: %+v", req.Symbol, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "symbol subscribed successfully"})
}

func (h *Handler) unsubscribe(c *gin.Context, req toggleRequest) {
	ctx := c.Request.Context()
	if err := h.repo.DeactivateSubscription(ctx, req.AccountID, req.Symbol); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if err := h.store.DeleteConfig(ctx, req.AccountID, req.Symbol); err != nil {
		logs.Errorf("%s: delete symbol config, err: %+v", req.Symbol, err)
	}
	if err := h.store.DeleteCheckpoint(ctx, req.AccountID, req.Symbol); err != nil {
		logs.Errorf("%s: delete checkpoint, err: %+v", req.Symbol, err)
	}
	if err := h.sender.Send(model.NewUnsubscribe(req.Symbol)); err != nil {
		logs.Errorf("%s: send unsubscribe, err: %+v", req.Symbol, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "symbol unsubscribed successfully"})
}

func (h *Handler) list(c *gin.Context) {
	subs, err := h.repo.ListSubscriptions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if len(subs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "no trade data found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trade data fetched successfully", "payload": subs})
}

func (h *Handler) history(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid subscription id"})
		return
	}
	rows, err := h.repo.HistoryBySubscription(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "no trade history found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trade history fetched successfully", "payload": rows})
}
