package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/pixelforge/credits/pkg/models"
)

// Grant creates (or refreshes) a relation tuple. When grantedBy is given,
// the grantor must hold owner on the object or be a system admin; handing
// out the owner relation itself is held to the same bar. An empty grantedBy
// is the trusted path for internal callers such as resource creation.
func (e *Engine) Grant(ctx context.Context, namespace, objectID string, relation models.Relation, subjectID, grantedBy string) error {
	if subjectID == "" {
		return fmt.Errorf("subjectId must not be empty")
	}
	if _, known := hierarchy[relation]; !known {
		return fmt.Errorf("unknown relation %q", relation)
	}

	if grantedBy != "" {
		allowed, err := e.canAdminister(ctx, grantedBy, namespace, objectID)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w: %s may not grant %s on %s/%s", ErrForbidden, grantedBy, relation, namespace, objectID)
		}
	}

	tuple := &models.RelationTuple{
		Namespace:   namespace,
		ObjectID:    objectID,
		Relation:    relation,
		SubjectType: models.SubjectTypeUser,
		SubjectID:   subjectID,
		CreatedAt:   time.Now(),
	}
	if err := e.Store.UpsertTuple(ctx, tuple); err != nil {
		return fmt.Errorf("failed to write relation tuple: %w", err)
	}

	return nil
}

// Revoke removes a relation tuple. The grantor rules mirror Grant, with one
// extra guard: a user can never revoke their own owner relation, which
// would orphan the resource. Removing someone else's owner relation takes a
// different owner or an admin.
func (e *Engine) Revoke(ctx context.Context, namespace, objectID string, relation models.Relation, subjectID, revokedBy string) error {
	if relation == models.RelationOwner && revokedBy != "" && revokedBy == subjectID {
		return fmt.Errorf("%w: cannot revoke your own owner relation on %s/%s; transfer ownership or ask an admin", ErrForbidden, namespace, objectID)
	}

	if revokedBy != "" {
		allowed, err := e.canAdminister(ctx, revokedBy, namespace, objectID)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w: %s may not revoke %s on %s/%s", ErrForbidden, revokedBy, relation, namespace, objectID)
		}
	}

	if err := e.Store.DeleteTuple(ctx, namespace, objectID, relation, subjectID); err != nil {
		return fmt.Errorf("failed to delete relation tuple: %w", err)
	}

	return nil
}

// RevokeAll removes every tuple on an object, used when the resource itself
// is deleted.
func (e *Engine) RevokeAll(ctx context.Context, namespace, objectID string) error {
	if err := e.Store.DeleteAllForObject(ctx, namespace, objectID); err != nil {
		return fmt.Errorf("failed to cascade-delete relation tuples: %w", err)
	}
	return nil
}

// canAdminister reports whether a user may hand out or take away relations
// on an object: they hold owner on it, or they are a system admin.
func (e *Engine) canAdminister(ctx context.Context, userID, namespace, objectID string) (bool, error) {
	admin, err := e.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	owner := models.RelationOwner
	tuples, err := e.Store.FindTuples(ctx, namespace, objectID, userID, &owner)
	if err != nil {
		return false, fmt.Errorf("failed to read owner tuples: %w", err)
	}
	return len(tuples) > 0, nil
}
