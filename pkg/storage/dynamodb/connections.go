package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type connectionRecord struct {
	ConnectionID string `dynamodbav:"connection_id"`
}

// AddConnection stores a live WebSocket connection ID.
func (s *Store) AddConnection(ctx context.Context, connectionID string) error {
	item, err := attributevalue.MarshalMap(connectionRecord{ConnectionID: connectionID})
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.ConnectionsTableName),
		Item:      item,
	}
	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to store connection: %w", err)
	}

	return nil
}

// RemoveConnection deletes a WebSocket connection ID.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"connection_id": connectionID})
	if err != nil {
		return fmt.Errorf("failed to marshal connection ID: %w", err)
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.ConnectionsTableName),
		Key:       key,
	}
	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	return nil
}

// GetAllConnections returns every live connection ID.
func (s *Store) GetAllConnections(ctx context.Context) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.ConnectionsTableName),
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan connections table: %w", err)
	}

	var records []connectionRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
	}

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ConnectionID
	}

	return ids, nil
}
