package mapping

import (
	"github.com/pixelforge/credits/pkg/api"
	"github.com/pixelforge/credits/pkg/ledger"
	"github.com/pixelforge/credits/pkg/models"
)

// ToApiBalance converts a domain Balance model to an API Balance model.
func ToApiBalance(b *models.Balance) *api.Balance {
	return &api.Balance{
		UserId:  b.UserID,
		Balance: b.Balance,
	}
}

// ToApiBalanceDetail converts a domain BalanceDetail model to an API BalanceDetail model.
func ToApiBalanceDetail(d *models.BalanceDetail) *api.BalanceDetail {
	return &api.BalanceDetail{
		Total:     d.Total,
		Free:      d.Free,
		Purchased: d.Purchased,
	}
}

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	out := &api.Transaction{
		Id:              tx.ID,
		UserId:          tx.UserID,
		Amount:          tx.Amount,
		Type:            string(tx.Type),
		RemainingAmount: tx.RemainingAmount,
		ExpiresAt:       tx.ExpiresAt,
		CreatedAt:       tx.CreatedAt,
	}
	if tx.Description != "" {
		out.Description = &tx.Description
	}
	if len(tx.Metadata) > 0 {
		metadata := tx.Metadata
		out.Metadata = &metadata
	}
	return out
}

// ToApiTransactions converts a slice of domain transactions.
func ToApiTransactions(txs []models.Transaction) []api.Transaction {
	out := make([]api.Transaction, 0, len(txs))
	for i := range txs {
		out = append(out, *ToApiTransaction(&txs[i]))
	}
	return out
}

// ToDomainGrantParams converts an API NewGrant to engine grant parameters.
func ToDomainGrantParams(grant *api.NewGrant) ledger.GrantParams {
	params := ledger.GrantParams{
		UserID:    grant.UserId,
		Amount:    grant.Amount,
		Type:      models.TransactionType(grant.Type),
		ExpiresAt: grant.ExpiresAt,
	}
	if grant.Description != nil {
		params.Description = *grant.Description
	}
	if grant.Metadata != nil {
		params.Metadata = *grant.Metadata
	}
	return params
}

// ToDomainSpendParams converts an API NewSpend to engine spend parameters.
// The caller supplies the user identity; it never travels in the request body.
func ToDomainSpendParams(userID string, spend *api.NewSpend) ledger.SpendParams {
	params := ledger.SpendParams{
		UserID: userID,
		Amount: spend.Amount,
		Type:   models.TransactionType(spend.Type),
		Policy: models.SpendPolicy(spend.ClassPolicy),
	}
	if spend.Description != nil {
		params.Description = *spend.Description
	}
	if spend.Metadata != nil {
		params.Metadata = *spend.Metadata
	}
	return params
}

// ToApiSpendResult converts a domain SpendResult to its API model.
func ToApiSpendResult(res *models.SpendResult) *api.SpendResult {
	return &api.SpendResult{
		NewBalance:     res.NewBalance,
		UsedClass:      string(res.UsedClass),
		ApplyWatermark: res.ApplyWatermark,
	}
}

// ToApiSpendOutcome converts a domain SpendOutcome to its API model.
func ToApiSpendOutcome(out *models.SpendOutcome) *api.SpendOutcome {
	res := &api.SpendOutcome{
		Success: out.Success,
		Balance: out.Balance,
	}
	if out.Message != "" {
		res.Message = &out.Message
	}
	return res
}
