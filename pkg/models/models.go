package models

import (
	"time"
)

// TransactionType is the business reason a credit transaction was written.
type TransactionType string

const (
	PURCHASE   TransactionType = "PURCHASE"
	BONUS      TransactionType = "BONUS"
	REFERRAL   TransactionType = "REFERRAL"
	GENERATION TransactionType = "GENERATION"
	UPSCALE    TransactionType = "UPSCALE"
	EXPIRED    TransactionType = "EXPIRED"
)

// IsGrant reports whether the type adds credits to a balance.
func (t TransactionType) IsGrant() bool {
	return t == PURCHASE || t == BONUS || t == REFERRAL
}

// IsSpend reports whether the type removes credits from a balance.
func (t TransactionType) IsSpend() bool {
	return t == GENERATION || t == UPSCALE
}

// IsFreeGrant reports whether the type is an expiring, FIFO-tracked grant.
func (t TransactionType) IsFreeGrant() bool {
	return t == BONUS || t == REFERRAL
}

// CreditClass identifies which pool of credits funded a spend.
type CreditClass string

const (
	ClassFree      CreditClass = "free"
	ClassPurchased CreditClass = "purchased"
)

// SpendPolicy selects which credit class a spend may draw from.
type SpendPolicy string

const (
	PolicyFree      SpendPolicy = "free"
	PolicyPurchased SpendPolicy = "purchased"
	PolicyAuto      SpendPolicy = "auto"
)

// Balance is the aggregate credit balance for one user. It is created on the
// first grant, only ever mutated through the ledger engine, and zeroed
// rather than deleted.
type Balance struct {
	UserID    string    `dynamodbav:"user_id"`
	Balance   int64     `dynamodbav:"balance"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// Transaction is one append-only row in the per-user credit log. Amount is
// signed: positive for grants, negative for spends and expiries.
// RemainingAmount is tracked only for BONUS/REFERRAL grants and decrements
// as that specific grant is consumed, which is what makes FIFO depletion
// and the free/purchased split computable.
type Transaction struct {
	ID              string            `dynamodbav:"id"`
	UserID          string            `dynamodbav:"user_id"`
	Amount          int64             `dynamodbav:"amount"`
	Type            TransactionType   `dynamodbav:"type"`
	RemainingAmount *int64            `dynamodbav:"remaining_amount,omitempty"`
	ExpiresAt       *time.Time        `dynamodbav:"expires_at,omitempty"`
	Description     string            `dynamodbav:"description,omitempty"`
	Metadata        map[string]string `dynamodbav:"metadata,omitempty"`
	CreatedAt       time.Time         `dynamodbav:"created_at"`
}

// Remaining returns the unconsumed portion of a grant, zero when untracked.
func (t *Transaction) Remaining() int64 {
	if t.RemainingAmount == nil {
		return 0
	}
	return *t.RemainingAmount
}

// BalanceDetail splits a user's total balance into the free (expiring,
// watermarking) and purchased classes. Free + Purchased == Total always.
type BalanceDetail struct {
	Total     int64 `json:"total"`
	Free      int64 `json:"free"`
	Purchased int64 `json:"purchased"`
}

// SpendResult is the outcome of a class-aware spend.
type SpendResult struct {
	NewBalance     int64       `json:"new_balance"`
	UsedClass      CreditClass `json:"used_class"`
	ApplyWatermark bool        `json:"apply_watermark"`
}

// SpendOutcome is the outcome of the single round-trip conditional spend.
// Insufficient funds is a non-exceptional result here, not an error.
type SpendOutcome struct {
	Success bool   `json:"success"`
	Balance int64  `json:"balance"`
	Message string `json:"message,omitempty"`
}

// SweepResult summarizes one run of the expiry sweep. Errors counts users
// whose expiry failed; their grants are retried on the next run.
type SweepResult struct {
	ProcessedUsers int   `json:"processed_users"`
	TotalExpired   int64 `json:"total_expired"`
	Errors         int   `json:"errors"`
}

// Relation is a named edge between a subject and an object.
type Relation string

const (
	RelationOwner  Relation = "owner"
	RelationEditor Relation = "editor"
	RelationViewer Relation = "viewer"
	RelationAdmin  Relation = "admin"
)

const (
	// SubjectTypeUser is the only subject type the product currently stores.
	SubjectTypeUser = "user"

	// WildcardSubject matches any subject when stored as a tuple's SubjectID.
	WildcardSubject = "*"

	// SystemNamespace and SystemObject scope the global admin relation.
	SystemNamespace = "system"
	SystemObject    = "global"
)

// RelationTuple is one edge in the permission graph: subject holds relation
// on (namespace, objectId). Uniqueness is by the full natural key, so
// writes are upserts.
type RelationTuple struct {
	Namespace   string    `dynamodbav:"namespace"`
	ObjectID    string    `dynamodbav:"object_id"`
	Relation    Relation  `dynamodbav:"relation"`
	SubjectType string    `dynamodbav:"subject_type"`
	SubjectID   string    `dynamodbav:"subject_id"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
}
