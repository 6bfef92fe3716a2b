package storage

import (
	"context"
	"time"

	"github.com/pixelforge/credits/pkg/models"
)

// RemainingDecrement instructs the store to consume part of a specific free
// grant as a side effect of a spend. The store must guard each decrement
// with "remaining_amount >= Amount" inside the same atomic unit as the
// balance debit.
type RemainingDecrement struct {
	TransactionID string
	Amount        int64

	// Drain marks a decrement that consumes the grant's entire remaining
	// amount, letting the store drop the row from its open-grants index in
	// the same write.
	Drain bool
}

// BalanceReader defines read access to aggregate balances.
type BalanceReader interface {
	// GetBalance returns the user's aggregate balance, 0 when no balance
	// row exists. Absence is not an error.
	GetBalance(ctx context.Context, userID string) (int64, error)
}

// TransactionReader defines read access to the per-user transaction log.
type TransactionReader interface {
	// QueryOpenGrants returns BONUS/REFERRAL transactions with a positive
	// remaining amount, ordered oldest-first for FIFO consumption.
	QueryOpenGrants(ctx context.Context, userID string) ([]models.Transaction, error)

	// ListTransactions returns the user's transaction history, newest-first,
	// optionally filtered by type.
	ListTransactions(ctx context.Context, userID string, limit, offset int32, txType *models.TransactionType) ([]models.Transaction, error)
}

// LedgerWriter defines the atomic mutations of the credit ledger. Every
// method that touches both the balance row and transaction rows applies
// them as one all-or-nothing unit.
type LedgerWriter interface {
	// Grant adds tx.Amount to the user's balance (creating the balance row
	// when absent) and appends the grant row. Returns the new balance.
	Grant(ctx context.Context, tx *models.Transaction) (int64, error)

	// SpendConditional debits -tx.Amount from the balance only if the
	// current balance covers it, appends the spend row, and applies the
	// given remaining-amount decrements to the source grant rows. Returns
	// ErrInsufficientFunds when the balance condition fails and ErrConflict
	// when a decrement lost a race with a concurrent spend or sweep.
	SpendConditional(ctx context.Context, tx *models.Transaction, decrements []RemainingDecrement) (int64, error)
}

// SweepStore defines the privileged operations of the expiry sweep.
type SweepStore interface {
	// ListExpiredGrants returns, across all users, free grants whose expiry
	// has passed and whose remaining amount is still positive.
	ListExpiredGrants(ctx context.Context, now time.Time) ([]models.Transaction, error)

	// ExpireGrants zeroes the remaining amount of the given source grants,
	// debits the user's balance by total, and appends the EXPIRED row, all
	// atomically. Each source row is guarded by "remaining_amount > 0" so a
	// re-run after partial failure cannot double-expire.
	ExpireGrants(ctx context.Context, userID string, sourceIDs []string, total int64, expiredTx *models.Transaction) error
}

// LedgerStore combines everything the credit operations engine needs.
type LedgerStore interface {
	BalanceReader
	TransactionReader
	LedgerWriter
	SweepStore
}
