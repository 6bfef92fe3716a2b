package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/storage"
)

// SpendConditional atomically debits the user's balance, appends the spend
// row, and consumes the given free-grant rows. The debit is guarded by
// "balance >= :amount" and every remaining-amount decrement by
// "remaining_amount >= :n", all inside one TransactWriteItems call, so two
// racing spends can never both pass a stale balance check and nothing is
// ever partially applied.
func (s *Store) SpendConditional(ctx context.Context, tx *models.Transaction, decrements []storage.RemainingDecrement) (int64, error) {
	amount := -tx.Amount // tx.Amount is negative for spends
	if amount <= 0 {
		return 0, fmt.Errorf("spend transaction must carry a negative amount, got %d", tx.Amount)
	}
	now := time.Now()

	slog.Log(ctx, slog.LevelDebug, "writing spend",
		"user_id", tx.UserID, "type", tx.Type, "amount", amount, "decrements", len(decrements))

	txAV, err := attributevalue.MarshalMap(newTransactionRecord(tx))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal spend transaction: %w", err)
	}

	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal spend timestamp: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Conditionally debit the balance.
			Update: &types.Update{
				TableName: aws.String(s.BalancesTableName),
				Key: map[string]types.AttributeValue{
					"user_id": &types.AttributeValueMemberS{Value: tx.UserID},
				},
				UpdateExpression:    aws.String("SET balance = balance - :amount, updated_at = :now"),
				ConditionExpression: aws.String("balance >= :amount"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":amount": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", amount)},
					":now":    nowAV,
				},
			},
		},
		{
			// Operation 2: Append the spend row.
			Put: &types.Put{
				TableName:           aws.String(s.TransactionsTableName),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}

	// Operations 3..n: consume the source free grants, each guarded so a
	// concurrent spend or sweep that already drained a row cancels the
	// whole transaction instead of overdrawing it.
	for _, dec := range decrements {
		// A drained grant also drops out of the expiring-grants index so
		// later sweeps stop re-evaluating it.
		updateExpr := "SET remaining_amount = remaining_amount - :n"
		if dec.Drain {
			updateExpr += " REMOVE gsi1pk"
		}
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.TransactionsTableName),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: dec.TransactionID},
				},
				UpdateExpression:    aws.String(updateExpr),
				ConditionExpression: aws.String("remaining_amount >= :n"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":n": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", dec.Amount)},
				},
			},
		})
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for i, reason := range tce.CancellationReasons {
				if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
					continue
				}
				if i == 0 {
					return 0, storage.ErrInsufficientFunds
				}
				return 0, storage.ErrConflict
			}
		}
		return 0, fmt.Errorf("failed to execute spend transaction: %w", err)
	}

	return s.GetBalance(ctx, tx.UserID)
}
