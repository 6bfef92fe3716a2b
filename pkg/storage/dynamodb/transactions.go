package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pixelforge/credits/pkg/models"
)

// QueryOpenGrants returns the user's BONUS/REFERRAL grants that still carry
// remaining credit, oldest-first. The order is what makes free-credit
// consumption FIFO.
func (s *Store) QueryOpenGrants(ctx context.Context, userID string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(userCreatedIndex),
		KeyConditionExpression: aws.String("user_id = :userID"),
		FilterExpression:       aws.String("#type IN (:bonus, :referral) AND remaining_amount > :zero"),
		ExpressionAttributeNames: map[string]string{
			"#type": "type",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID":   &types.AttributeValueMemberS{Value: userID},
			":bonus":    &types.AttributeValueMemberS{Value: string(models.BONUS)},
			":referral": &types.AttributeValueMemberS{Value: string(models.REFERRAL)},
			":zero":     &types.AttributeValueMemberN{Value: "0"},
		},
		ScanIndexForward: aws.Bool(true), // oldest first
	}

	var grants []models.Transaction
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query open grants: %w", err)
		}

		var page []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal open grants: %w", err)
		}
		grants = append(grants, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return grants, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// ListTransactions returns a page of the user's transaction history,
// newest-first. Offset paging is done client-side over collected matches.
// Query's Limit counts evaluated items before the type filter is applied,
// so pages are followed via LastEvaluatedKey until enough matches have
// accumulated; otherwise a filtered page could silently miss rows that sit
// deeper in the history.
func (s *Store) ListTransactions(ctx context.Context, userID string, limit, offset int32, txType *models.TransactionType) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(userCreatedIndex),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false), // newest first
		Limit:            aws.Int32(limit + offset),
	}
	if txType != nil {
		input.FilterExpression = aws.String("#type = :type")
		input.ExpressionAttributeNames = map[string]string{"#type": "type"}
		input.ExpressionAttributeValues[":type"] = &types.AttributeValueMemberS{Value: string(*txType)}
	}

	needed := int(limit + offset)
	var transactions []models.Transaction
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query transaction history: %w", err)
		}

		var page []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction history: %w", err)
		}
		transactions = append(transactions, page...)

		if len(transactions) >= needed || len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	if int(offset) >= len(transactions) {
		return []models.Transaction{}, nil
	}
	transactions = transactions[offset:]
	if int(limit) < len(transactions) {
		transactions = transactions[:limit]
	}

	return transactions, nil
}
