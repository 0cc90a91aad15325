// Package storage persists subscriptions and migrated trade history.
package storage

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"main/internal/model/enum"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("storage: not found")

// Subscription is an (account, symbol) pair under management with its
// strategy parameters. The core only reads it; lifecycle is driven by
// the web API.
type Subscription struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AccountID     string         `gorm:"index:idx_subscriptions_account_symbol" json:"accountId"`
	Symbol        string         `gorm:"index:idx_subscriptions_account_symbol" json:"symbol"`
	Gap           float64        `json:"gap"`
	EclipseBuffer float64        `json:"eclipseBuffer"`
	Volume        float64        `json:"volume"`
	Strategy      enum.Strategy  `json:"strategy"`
	Direction     enum.Direction `json:"direction,omitempty"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TradeHistory is one migrated trade/skip event resolved to its owning
// subscription.
type TradeHistory struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	SubscriptionID uint           `gorm:"index" json:"subscriptionId"`
	Price          float64        `json:"price"`
	Action         enum.Action    `json:"action"`
	Direction      enum.Direction `json:"direction"`
	Checkpoint     float64        `json:"checkpoint"`
	Reason         enum.Reason    `json:"reason"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Repository wraps the permanent store.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository over an open gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates or updates the two tables.
func (r *Repository) AutoMigrate() error {
	return errors.Wrap(r.db.AutoMigrate(&Subscription{}, &TradeHistory{}), "auto migrate")
}

// CreateSubscription inserts an active subscription.
func (r *Repository) CreateSubscription(ctx context.Context, sub *Subscription) error {
	sub.IsActive = true
	return errors.Wrap(r.db.WithContext(ctx).Create(sub).Error, "create subscription")
}

// ActiveSubscription returns the active subscription for (account, symbol).
func (r *Repository) ActiveSubscription(ctx context.Context, accountID, symbol string) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND symbol = ? AND is_active = ?", accountID, symbol, true).
		First(&sub).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find active subscription")
	}
	return &sub, nil
}

// ActiveSubscriptionIDs resolves the given symbols of one account to the
// IDs of their currently active subscriptions. Symbols with no active
// subscription are absent from the result.
func (r *Repository) ActiveSubscriptionIDs(ctx context.Context, accountID string, symbols []string) (map[string]uint, error) {
	if len(symbols) == 0 {
		return map[string]uint{}, nil
	}
	var subs []Subscription
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND symbol IN ? AND is_active = ?", accountID, symbols, true).
		Find(&subs).Error
	if err != nil {
		return nil, errors.Wrap(err, "find active subscriptions")
	}
	ids := make(map[string]uint, len(subs))
	for _, sub := range subs {
		ids[sub.Symbol] = sub.ID
	}
	return ids, nil
}

// DeactivateSubscription marks the active subscription inactive.
func (r *Repository) DeactivateSubscription(ctx context.Context, accountID, symbol string) error {
	err := r.db.WithContext(ctx).
		Model(&Subscription{}).
		Where("account_id = ? AND symbol = ? AND is_active = ?", accountID, symbol, true).
		Update("is_active", false).Error
	return errors.Wrap(err, "deactivate subscription")
}

// ListSubscriptions returns every subscription, newest first.
func (r *Repository) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error
	return subs, errors.Wrap(err, "list subscriptions")
}

// BulkInsertHistory writes a migrated batch in one statement.
func (r *Repository) BulkInsertHistory(ctx context.Context, rows []TradeHistory) error {
	if len(rows) == 0 {
		return nil
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(&rows).Error, "bulk insert history")
}

// HistoryBySubscription returns a subscription's history, oldest first.
func (r *Repository) HistoryBySubscription(ctx context.Context, subscriptionID uint) ([]TradeHistory, error) {
	var rows []TradeHistory
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, errors.Wrap(err, "list trade history")
}
