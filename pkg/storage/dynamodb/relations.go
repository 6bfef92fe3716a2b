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

// UpsertTuple writes a relation tuple keyed by its natural key. An
// unconditional put gives the upsert semantics: writing an existing tuple
// simply refreshes it.
func (s *Store) UpsertTuple(ctx context.Context, tuple *models.RelationTuple) error {
	item, err := attributevalue.MarshalMap(newRelationRecord(tuple))
	if err != nil {
		return fmt.Errorf("failed to marshal relation tuple: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.RelationsTableName),
		Item:      item,
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to upsert relation tuple: %w", err)
	}

	return nil
}

// FindTuples returns the tuples a subject holds on one object, optionally
// narrowed to a single relation. Wildcard tuples are not expanded here;
// the authorization engine asks for them explicitly.
func (s *Store) FindTuples(ctx context.Context, namespace, objectID, subjectID string, relation *models.Relation) ([]models.RelationTuple, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.RelationsTableName),
		KeyConditionExpression: aws.String("object_key = :ok"),
		FilterExpression:       aws.String("subject_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ok":  &types.AttributeValueMemberS{Value: objectKey(namespace, objectID)},
			":sid": &types.AttributeValueMemberS{Value: subjectID},
		},
	}
	if relation != nil {
		input.KeyConditionExpression = aws.String("object_key = :ok AND begins_with(edge_key, :rel)")
		input.ExpressionAttributeValues[":rel"] = &types.AttributeValueMemberS{Value: string(*relation) + "#"}
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query relation tuples: %w", err)
	}

	var tuples []models.RelationTuple
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &tuples); err != nil {
		return nil, fmt.Errorf("failed to unmarshal relation tuples: %w", err)
	}

	return tuples, nil
}

// ListForObject returns every tuple attached to one object.
func (s *Store) ListForObject(ctx context.Context, namespace, objectID string) ([]models.RelationTuple, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.RelationsTableName),
		KeyConditionExpression: aws.String("object_key = :ok"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ok": &types.AttributeValueMemberS{Value: objectKey(namespace, objectID)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query object tuples: %w", err)
	}

	var tuples []models.RelationTuple
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &tuples); err != nil {
		return nil, fmt.Errorf("failed to unmarshal object tuples: %w", err)
	}

	return tuples, nil
}

// ListForSubject returns every tuple a subject holds in a namespace via the
// subject-side GSI, optionally narrowed to a set of relations.
func (s *Store) ListForSubject(ctx context.Context, namespace, subjectID string, relations []models.Relation) ([]models.RelationTuple, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.RelationsTableName),
		IndexName:              aws.String(subjectIndex),
		KeyConditionExpression: aws.String("subject_key = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sk": &types.AttributeValueMemberS{Value: subjectKey(namespace, models.SubjectTypeUser, subjectID)},
		},
	}
	if len(relations) > 0 {
		placeholders := ""
		for i, rel := range relations {
			name := fmt.Sprintf(":rel%d", i)
			if i > 0 {
				placeholders += ", "
			}
			placeholders += name
			input.ExpressionAttributeValues[name] = &types.AttributeValueMemberS{Value: string(rel)}
		}
		input.FilterExpression = aws.String(fmt.Sprintf("#relation IN (%s)", placeholders))
		input.ExpressionAttributeNames = map[string]string{"#relation": "relation"}
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query subject tuples: %w", err)
	}

	var tuples []models.RelationTuple
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &tuples); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subject tuples: %w", err)
	}

	return tuples, nil
}

// DeleteTuple removes one tuple by its natural key. Deleting an absent
// tuple is a no-op.
func (s *Store) DeleteTuple(ctx context.Context, namespace, objectID string, relation models.Relation, subjectID string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.RelationsTableName),
		Key: map[string]types.AttributeValue{
			"object_key": &types.AttributeValueMemberS{Value: objectKey(namespace, objectID)},
			"edge_key":   &types.AttributeValueMemberS{Value: edgeKey(relation, models.SubjectTypeUser, subjectID)},
		},
	}

	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete relation tuple: %w", err)
	}

	return nil
}

// DeleteAllForObject removes every tuple attached to one object, used when
// the resource is deleted.
func (s *Store) DeleteAllForObject(ctx context.Context, namespace, objectID string) error {
	tuples, err := s.ListForObject(ctx, namespace, objectID)
	if err != nil {
		return fmt.Errorf("failed to list tuples for cascade delete: %w", err)
	}
	if len(tuples) == 0 {
		return nil
	}

	// BatchWriteItem caps at 25 requests per call.
	const batchSize = 25
	for start := 0; start < len(tuples); start += batchSize {
		end := start + batchSize
		if end > len(tuples) {
			end = len(tuples)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, tuple := range tuples[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"object_key": &types.AttributeValueMemberS{Value: objectKey(tuple.Namespace, tuple.ObjectID)},
						"edge_key":   &types.AttributeValueMemberS{Value: edgeKey(tuple.Relation, tuple.SubjectType, tuple.SubjectID)},
					},
				},
			})
		}

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.RelationsTableName: requests,
			},
		}
		if _, err := s.Client.BatchWriteItem(ctx, input); err != nil {
			return fmt.Errorf("failed to batch delete relation tuples: %w", err)
		}
	}

	return nil
}
