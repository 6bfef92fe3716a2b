package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pixelforge/credits/pkg/models"
)

// GetBalance retrieves a user's aggregate balance from DynamoDB. A missing
// balance row reads as zero, not as an error, so callers never need to
// initialize balances explicitly.
func (s *Store) GetBalance(ctx context.Context, userID string) (int64, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal balance user ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.BalancesTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return 0, nil
	}

	var balance models.Balance
	if err := attributevalue.UnmarshalMap(result.Item, &balance); err != nil {
		return 0, fmt.Errorf("failed to unmarshal balance: %w", err)
	}

	return balance.Balance, nil
}
