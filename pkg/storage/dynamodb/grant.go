package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pixelforge/credits/pkg/models"
)

// Grant atomically adds the grant amount to the user's balance and appends
// the grant row to the transaction log. The balance row is created on first
// grant via if_not_exists.
func (s *Store) Grant(ctx context.Context, tx *models.Transaction) (int64, error) {
	now := time.Now()
	slog.Log(ctx, slog.LevelDebug, "writing grant", "user_id", tx.UserID, "type", tx.Type, "amount", tx.Amount)

	txAV, err := attributevalue.MarshalMap(newTransactionRecord(tx))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal grant transaction: %w", err)
	}

	amountAV, err := attributevalue.Marshal(tx.Amount)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal grant amount: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal grant timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Credit the balance, creating the row if absent.
				Update: &types.Update{
					TableName: aws.String(s.BalancesTableName),
					Key: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: tx.UserID},
					},
					UpdateExpression: aws.String("SET balance = if_not_exists(balance, :zero) + :amount, created_at = if_not_exists(created_at, :now), updated_at = :now"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amountAV,
						":zero":   &types.AttributeValueMemberN{Value: "0"},
						":now":    nowAV,
					},
				},
			},
			{
				// Operation 2: Append the grant row.
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		return 0, fmt.Errorf("failed to execute grant transaction: %w", err)
	}

	return s.GetBalance(ctx, tx.UserID)
}
