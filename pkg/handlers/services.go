package handlers

import (
	"context"

	"github.com/pixelforge/credits/pkg/ledger"
	"github.com/pixelforge/credits/pkg/models"
)

// CreditService is the slice of the ledger engine the HTTP layer needs.
type CreditService interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	GetBalanceDetail(ctx context.Context, userID string) (*models.BalanceDetail, error)
	GetTransactionHistory(ctx context.Context, userID string, limit, offset int32, txType *models.TransactionType) ([]models.Transaction, error)
	Grant(ctx context.Context, p ledger.GrantParams) (int64, error)
	Spend(ctx context.Context, p ledger.SpendParams) (*models.SpendResult, error)
	SpendAtomic(ctx context.Context, userID string, amount int64, txType models.TransactionType, description string, metadata map[string]string) (*models.SpendOutcome, error)
}

// PermissionService is the slice of the authorization engine the HTTP
// layer needs.
type PermissionService interface {
	Check(ctx context.Context, userID, namespace, objectID string, required models.Relation) (bool, error)
	Grant(ctx context.Context, namespace, objectID string, relation models.Relation, subjectID, grantedBy string) error
	Revoke(ctx context.Context, namespace, objectID string, relation models.Relation, subjectID, revokedBy string) error
	ListAccessible(ctx context.Context, userID, namespace string, required models.Relation) ([]string, error)
	RequireRelation(ctx context.Context, userID, namespace, objectID string, required models.Relation) error
	RequireAdmin(ctx context.Context, userID string) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
