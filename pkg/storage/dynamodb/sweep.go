package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/storage"
)

// ListExpiredGrants returns, across all users, free grants whose expiry has
// passed and which still carry remaining credit.
func (s *Store) ListExpiredGrants(ctx context.Context, now time.Time) ([]models.Transaction, error) {
	cutoff, err := now.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sweep cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(expiringGrantsIndex),
		KeyConditionExpression: aws.String("gsi1pk = :pk AND expires_at <= :cutoff"),
		FilterExpression:       aws.String("remaining_amount > :zero"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: openGrantPartition},
			":cutoff": &types.AttributeValueMemberS{Value: string(cutoff)},
			":zero":   &types.AttributeValueMemberN{Value: "0"},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired grants: %w", err)
	}

	var grants []models.Transaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &grants); err != nil {
		return nil, fmt.Errorf("failed to unmarshal expired grants: %w", err)
	}

	return grants, nil
}

// ExpireGrants zeroes the remaining amount on the given source grants,
// debits the user's balance by their summed remainder, and appends the
// EXPIRED row, all in one transaction. Every source row is guarded by
// "remaining_amount > 0": if a concurrent spend already drained a row the
// whole transaction cancels and the next sweep run recomputes, which is
// what makes the sweep idempotent and race-safe.
func (s *Store) ExpireGrants(ctx context.Context, userID string, sourceIDs []string, total int64, expiredTx *models.Transaction) error {
	if total <= 0 || len(sourceIDs) == 0 {
		return fmt.Errorf("nothing to expire for user %s", userID)
	}
	now := time.Now()

	txAV, err := attributevalue.MarshalMap(newTransactionRecord(expiredTx))
	if err != nil {
		return fmt.Errorf("failed to marshal expiry transaction: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal expiry timestamp: %w", err)
	}

	items := make([]types.TransactWriteItem, 0, len(sourceIDs)+2)
	for _, id := range sourceIDs {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.TransactionsTableName),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: id},
				},
				UpdateExpression:    aws.String("SET remaining_amount = :zero REMOVE gsi1pk"),
				ConditionExpression: aws.String("remaining_amount > :zero"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":zero": &types.AttributeValueMemberN{Value: "0"},
				},
			},
		})
	}
	items = append(items,
		types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.BalancesTableName),
				Key: map[string]types.AttributeValue{
					"user_id": &types.AttributeValueMemberS{Value: userID},
				},
				UpdateExpression:    aws.String("SET balance = balance - :total, updated_at = :now"),
				ConditionExpression: aws.String("balance >= :total"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":total": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", total)},
					":now":   nowAV,
				},
			},
		},
		types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.TransactionsTableName),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	)

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for _, reason := range tce.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return storage.ErrConflict
				}
			}
		}
		return fmt.Errorf("failed to execute expiry transaction: %w", err)
	}

	return nil
}
