package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/storage"
)

// SpendParams are the inputs to Spend.
type SpendParams struct {
	UserID      string
	Amount      int64
	Type        models.TransactionType
	Description string
	Policy      models.SpendPolicy
	Metadata    map[string]string
}

// Spend debits credits according to the class policy.
//
// The free/purchased split is read without a lock: it only routes the
// policy decision. The debit itself re-validates sufficiency inside the
// store's conditional write, so a racing spend cancels cleanly instead of
// overdrawing.
//
// Under the auto policy, free credits are consumed first (FIFO) and the
// spend blends into purchased credits when free alone is short. The
// reported UsedClass stays binary even for a blended spend: free only when
// free credits covered the full amount. This matches the product's current
// accounting; the blended outcome is pinned by test.
func (e *Engine) Spend(ctx context.Context, p SpendParams) (*models.SpendResult, error) {
	if p.UserID == "" {
		return nil, &ValidationError{Field: "userId", Message: "must not be empty"}
	}
	if p.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if !p.Type.IsSpend() {
		return nil, &ValidationError{Field: "type", Message: fmt.Sprintf("%s is not a spend type", p.Type)}
	}

	detail, err := e.GetBalanceDetail(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	var (
		usedClass models.CreditClass
		freeUsed  int64
	)
	switch p.Policy {
	case models.PolicyFree:
		if detail.Free < p.Amount {
			e.countRejection("insufficient_free")
			return nil, &InsufficientCreditsError{Required: p.Amount, Available: detail.Free, Class: models.ClassFree}
		}
		usedClass = models.ClassFree
		freeUsed = p.Amount
	case models.PolicyPurchased:
		if detail.Purchased < p.Amount {
			e.countRejection("insufficient_purchased")
			return nil, &InsufficientCreditsError{Required: p.Amount, Available: detail.Purchased, Class: models.ClassPurchased}
		}
		usedClass = models.ClassPurchased
	case models.PolicyAuto:
		if detail.Total < p.Amount {
			e.countRejection("insufficient_total")
			return nil, &InsufficientCreditsError{Required: p.Amount, Available: detail.Total}
		}
		freeUsed = detail.Free
		if freeUsed > p.Amount {
			freeUsed = p.Amount
		}
		if freeUsed == p.Amount {
			usedClass = models.ClassFree
		} else {
			usedClass = models.ClassPurchased
		}
	default:
		return nil, &ValidationError{Field: "classPolicy", Message: fmt.Sprintf("unknown policy %q", p.Policy)}
	}

	var decrements []storage.RemainingDecrement
	if freeUsed > 0 {
		grants, err := e.Store.QueryOpenGrants(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to read open grants: %w", err)
		}
		decrements, err = fifoPlan(grants, freeUsed)
		if err != nil {
			return nil, err
		}
	}

	tx := e.newSpendTransaction(p.UserID, p.Amount, p.Type, p.Description, p.Metadata, usedClass)

	newBalance, err := e.Store.SpendConditional(ctx, tx, decrements)
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientFunds) {
			e.countRejection("lost_balance_race")
			return nil, &InsufficientCreditsError{Required: p.Amount, Available: detail.Total}
		}
		if errors.Is(err, storage.ErrConflict) {
			e.countRejection("lost_grant_race")
			return nil, fmt.Errorf("concurrent ledger update, spend not applied: %w", err)
		}
		return nil, fmt.Errorf("failed to apply spend: %w", err)
	}

	if e.Metrics != nil {
		e.Metrics.SpendsTotal.WithLabelValues(string(usedClass)).Inc()
	}
	e.publishBalanceUpdate(ctx, tx, newBalance, usedClass)

	return &models.SpendResult{
		NewBalance:     newBalance,
		UsedClass:      usedClass,
		ApplyWatermark: usedClass == models.ClassFree,
	}, nil
}

// SpendAtomic is the single round-trip spend: one conditional decrement,
// no class bookkeeping. Insufficient funds comes back as a non-error
// outcome carrying the current balance and a user-facing message.
func (e *Engine) SpendAtomic(ctx context.Context, userID string, amount int64, txType models.TransactionType, description string, metadata map[string]string) (*models.SpendOutcome, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Message: "must not be empty"}
	}
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if !txType.IsSpend() {
		return nil, &ValidationError{Field: "type", Message: fmt.Sprintf("%s is not a spend type", txType)}
	}

	tx := e.newSpendTransaction(userID, amount, txType, description, metadata, "")

	newBalance, err := e.Store.SpendConditional(ctx, tx, nil)
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientFunds) {
			e.countRejection("insufficient_total")
			balance, balanceErr := e.Store.GetBalance(ctx, userID)
			if balanceErr != nil {
				return nil, fmt.Errorf("failed to read balance after rejected spend: %w", balanceErr)
			}
			return &models.SpendOutcome{
				Success: false,
				Balance: balance,
				Message: fmt.Sprintf("insufficient credits: required %d, available %d", amount, balance),
			}, nil
		}
		return nil, fmt.Errorf("failed to apply spend: %w", err)
	}

	if e.Metrics != nil {
		e.Metrics.SpendsTotal.WithLabelValues("unclassified").Inc()
	}
	e.publishBalanceUpdate(ctx, tx, newBalance, "")

	return &models.SpendOutcome{Success: true, Balance: newBalance}, nil
}

// fifoPlan allocates amount across open grants, oldest first. It returns an
// error when the grants cannot cover the amount; the caller's class check
// should have ruled that out already.
func fifoPlan(grants []models.Transaction, amount int64) ([]storage.RemainingDecrement, error) {
	var plan []storage.RemainingDecrement
	need := amount
	for _, grant := range grants {
		if need == 0 {
			break
		}
		take := grant.Remaining()
		if take <= 0 {
			continue
		}
		if take > need {
			take = need
		}
		plan = append(plan, storage.RemainingDecrement{
			TransactionID: grant.ID,
			Amount:        take,
			Drain:         take == grant.Remaining(),
		})
		need -= take
	}
	if need > 0 {
		return nil, &InsufficientCreditsError{Required: amount, Available: amount - need, Class: models.ClassFree}
	}
	return plan, nil
}

func (e *Engine) newSpendTransaction(userID string, amount int64, txType models.TransactionType, description string, metadata map[string]string, usedClass models.CreditClass) *models.Transaction {
	if usedClass != "" {
		// Annotate a copy; the caller's map stays untouched.
		annotated := make(map[string]string, len(metadata)+1)
		for k, v := range metadata {
			annotated[k] = v
		}
		annotated["used_class"] = string(usedClass)
		metadata = annotated
	}
	return &models.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      -amount,
		Type:        txType,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   e.now(),
	}
}

func (e *Engine) countRejection(reason string) {
	if e.Metrics != nil {
		e.Metrics.SpendsRejected.WithLabelValues(reason).Inc()
	}
}
