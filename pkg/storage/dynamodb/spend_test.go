package dynamodb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/storage"
	"github.com/pixelforge/credits/pkg/storage/dynamodb/mocks"
)

func timeMustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func spendTx(userID string, amount int64) *models.Transaction {
	return &models.Transaction{
		ID:     "spend-1",
		UserID: userID,
		Amount: -amount,
		Type:   models.GENERATION,
	}
}

func balanceItem(t *testing.T, userID string, balance int64) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(&models.Balance{UserID: userID, Balance: balance})
	require.NoError(t, err)
	return item
}

func TestSpendConditional(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			// Balance debit, spend row, one decrement per source grant.
			return len(input.TransactItems) == 3
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: balanceItem(t, "user-1", 90)}, nil)

		store := newTestStore(mockClient)
		decrements := []storage.RemainingDecrement{{TransactionID: "grant-1", Amount: 10}}
		balance, err := store.SpendConditional(context.Background(), spendTx("user-1", 10), decrements)

		assert.NoError(t, err)
		assert.Equal(t, int64(90), balance)
		mockClient.AssertExpectations(t)
	})

	t.Run("Drained Grant Leaves The Expiring Index", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
			if len(input.TransactItems) != 4 {
				return false
			}
			drained := *input.TransactItems[2].Update.UpdateExpression
			partial := *input.TransactItems[3].Update.UpdateExpression
			return strings.Contains(drained, "REMOVE gsi1pk") && !strings.Contains(partial, "REMOVE gsi1pk")
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)
		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: balanceItem(t, "user-1", 50)}, nil)

		store := newTestStore(mockClient)
		decrements := []storage.RemainingDecrement{
			{TransactionID: "grant-1", Amount: 30, Drain: true},
			{TransactionID: "grant-2", Amount: 10},
		}
		_, err := store.SpendConditional(context.Background(), spendTx("user-1", 40), decrements)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("ConditionalCheckFailed")},
				{Code: aws.String("None")},
			},
		})

		store := newTestStore(mockClient)
		_, err := store.SpendConditional(context.Background(), spendTx("user-1", 100), nil)

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		mockClient.AssertExpectations(t)
	})

	t.Run("Grant Row Race Is A Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("None")},
				{Code: aws.String("None")},
				{Code: aws.String("ConditionalCheckFailed")},
			},
		})

		store := newTestStore(mockClient)
		decrements := []storage.RemainingDecrement{{TransactionID: "grant-1", Amount: 10}}
		_, err := store.SpendConditional(context.Background(), spendTx("user-1", 10), decrements)

		assert.ErrorIs(t, err, storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Other Error Is Wrapped", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		store := newTestStore(mockClient)
		_, err := store.SpendConditional(context.Background(), spendTx("user-1", 10), nil)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrInsufficientFunds)
		assert.Contains(t, err.Error(), "failed to execute spend transaction")
		mockClient.AssertExpectations(t)
	})

	t.Run("Positive Amount Rejected", func(t *testing.T) {
		store := newTestStore(new(mocks.DynamoDBAPI))
		tx := &models.Transaction{ID: "spend-1", UserID: "user-1", Amount: 10, Type: models.GENERATION}
		_, err := store.SpendConditional(context.Background(), tx, nil)

		assert.Error(t, err)
	})
}

func TestGrantWritesBalanceAndRow(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(input *dynamodb.TransactWriteItemsInput) bool {
		return len(input.TransactItems) == 2
	})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)
	mockClient.On("GetItem", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{Item: balanceItem(t, "user-1", 100)}, nil)

	remaining := int64(100)
	expiry := timeMustParse(t, "2025-07-01T00:00:00Z")
	tx := &models.Transaction{
		ID:              "grant-1",
		UserID:          "user-1",
		Amount:          100,
		Type:            models.BONUS,
		RemainingAmount: &remaining,
		ExpiresAt:       &expiry,
	}

	store := newTestStore(mockClient)
	balance, err := store.Grant(context.Background(), tx)

	assert.NoError(t, err)
	assert.Equal(t, int64(100), balance)
	mockClient.AssertExpectations(t)
}
