// Package ledger implements the credit operations engine: the only
// component allowed to mutate balances. It encodes the free/purchased class
// policy and delegates atomicity to the storage layer's conditional writes.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pixelforge/credits/pkg/metrics"
	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/notifier"
	"github.com/pixelforge/credits/pkg/storage"
	"github.com/pixelforge/credits/pkg/websockets"
)

// DefaultFreeGrantTTL is how long BONUS/REFERRAL credits live when the
// grant does not carry an explicit expiry.
const DefaultFreeGrantTTL = 30 * 24 * time.Hour

// Engine performs all credit mutations. Metrics, Publisher and Notifier are
// optional; a zero value for any of them disables that concern.
type Engine struct {
	Store        storage.LedgerStore
	FreeGrantTTL time.Duration
	Metrics      *metrics.Ledger
	Publisher    websockets.Publisher
	Notifier     notifier.Notifier

	now func() time.Time
}

// NewEngine creates an Engine with the default free-grant TTL.
func NewEngine(store storage.LedgerStore) *Engine {
	return &Engine{
		Store:        store,
		FreeGrantTTL: DefaultFreeGrantTTL,
		now:          time.Now,
	}
}

// GetBalance returns the user's aggregate balance, 0 for unknown users.
func (e *Engine) GetBalance(ctx context.Context, userID string) (int64, error) {
	return e.Store.GetBalance(ctx, userID)
}

// GetBalanceDetail splits the balance into free and purchased credits. Free
// is derived from the remaining amounts of open BONUS/REFERRAL grants and
// clamped so it never exceeds the aggregate balance; the clamp is a safety
// net against historical drift between the aggregate and the per-grant
// bookkeeping (spendAtomic, which skips class bookkeeping, is one source),
// so a non-trivial clamp is logged rather than silently absorbed.
func (e *Engine) GetBalanceDetail(ctx context.Context, userID string) (*models.BalanceDetail, error) {
	total, err := e.Store.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}

	grants, err := e.Store.QueryOpenGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read open grants: %w", err)
	}

	var free int64
	for _, grant := range grants {
		free += grant.Remaining()
	}
	if free > total {
		slog.Warn("free credit bookkeeping exceeds aggregate balance, clamping",
			"user_id", userID, "free", free, "total", total)
		free = total
	}
	if free < 0 {
		free = 0
	}

	purchased := total - free
	if purchased < 0 {
		purchased = 0
	}

	return &models.BalanceDetail{Total: total, Free: free, Purchased: purchased}, nil
}

// GrantParams are the inputs to Grant.
type GrantParams struct {
	UserID      string
	Amount      int64
	Type        models.TransactionType
	Description string
	Metadata    map[string]string
	ExpiresAt   *time.Time
}

// Grant adds credits to a user's balance. BONUS/REFERRAL grants are
// initialized with a full remaining amount and an expiry (defaulting to
// FreeGrantTTL from now); PURCHASE grants never expire and are not
// FIFO-tracked.
func (e *Engine) Grant(ctx context.Context, p GrantParams) (int64, error) {
	if p.UserID == "" {
		return 0, &ValidationError{Field: "userId", Message: "must not be empty"}
	}
	if p.Amount <= 0 {
		return 0, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if !p.Type.IsGrant() {
		return 0, &ValidationError{Field: "type", Message: fmt.Sprintf("%s is not a grant type", p.Type)}
	}
	if p.Type == models.PURCHASE && p.ExpiresAt != nil {
		return 0, &ValidationError{Field: "expiresAt", Message: "purchased credits never expire"}
	}

	tx := &models.Transaction{
		ID:          uuid.New().String(),
		UserID:      p.UserID,
		Amount:      p.Amount,
		Type:        p.Type,
		Description: p.Description,
		Metadata:    p.Metadata,
		CreatedAt:   e.now(),
	}
	if p.Type.IsFreeGrant() {
		remaining := p.Amount
		tx.RemainingAmount = &remaining
		expiresAt := e.now().Add(e.FreeGrantTTL)
		if p.ExpiresAt != nil {
			expiresAt = *p.ExpiresAt
		}
		tx.ExpiresAt = &expiresAt
	}

	newBalance, err := e.Store.Grant(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("failed to apply grant: %w", err)
	}

	if e.Metrics != nil {
		e.Metrics.GrantsTotal.WithLabelValues(string(p.Type)).Inc()
	}
	e.publishBalanceUpdate(ctx, tx, newBalance, "")

	return newBalance, nil
}

// GetTransactionHistory returns a page of the user's ledger, newest-first.
func (e *Engine) GetTransactionHistory(ctx context.Context, userID string, limit, offset int32, txType *models.TransactionType) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return e.Store.ListTransactions(ctx, userID, limit, offset, txType)
}

func (e *Engine) publishBalanceUpdate(ctx context.Context, tx *models.Transaction, newBalance int64, usedClass models.CreditClass) {
	if e.Publisher == nil {
		return
	}
	err := e.Publisher.Publish(ctx, websockets.Message{
		Type: websockets.MessageTypeBalanceUpdate,
		Payload: websockets.BalanceUpdatePayload{
			UserID:        tx.UserID,
			TransactionID: tx.ID,
			Change:        tx.Amount,
			NewBalance:    newBalance,
			UsedClass:     string(usedClass),
		},
	})
	if err != nil {
		slog.Error("failed to publish balance update", "user_id", tx.UserID, "error", err)
	}
}
