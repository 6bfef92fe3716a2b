package storage

import (
	"context"

	"github.com/pixelforge/credits/pkg/models"
)

// RelationStore defines durable storage for permission graph tuples.
// Tuples are unique by (namespace, objectId, relation, subjectType,
// subjectId); writes have upsert semantics.
type RelationStore interface {
	// UpsertTuple creates the tuple or refreshes an identical existing one.
	UpsertTuple(ctx context.Context, tuple *models.RelationTuple) error

	// FindTuples returns the tuples a subject holds on one object,
	// optionally narrowed to a single relation.
	FindTuples(ctx context.Context, namespace, objectID, subjectID string, relation *models.Relation) ([]models.RelationTuple, error)

	// ListForObject returns every tuple attached to one object.
	ListForObject(ctx context.Context, namespace, objectID string) ([]models.RelationTuple, error)

	// ListForSubject returns every tuple a subject holds in a namespace,
	// optionally narrowed to a set of relations.
	ListForSubject(ctx context.Context, namespace, subjectID string, relations []models.Relation) ([]models.RelationTuple, error)

	// DeleteTuple removes one tuple by its natural key. Deleting a tuple
	// that does not exist is not an error.
	DeleteTuple(ctx context.Context, namespace, objectID string, relation models.Relation, subjectID string) error

	// DeleteAllForObject removes every tuple attached to one object, used
	// when the resource itself is deleted.
	DeleteAllForObject(ctx context.Context, namespace, objectID string) error
}
