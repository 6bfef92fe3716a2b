// Package authz answers "may user U perform an action requiring relation R
// on (namespace, objectId)?" over a graph of relation tuples, with relation
// hierarchy inheritance and a system-scoped admin override.
//
// Denial is never an error here: Check and friends return false and reserve
// their error value for storage failures. The Require* variants exist for
// request-handler boundaries that want short-circuiting instead.
package authz

import (
	"context"
	"fmt"

	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/storage"
)

// OwnerLookup resolves the creator of a resource from its own record, used
// by CheckWithFallback to bridge resources created before the permission
// graph existed.
type OwnerLookup func(ctx context.Context, namespace, objectID string) (string, error)

// Engine evaluates and mutates the permission graph.
type Engine struct {
	Store storage.RelationStore

	// OwnerLookup is optional; without it CheckWithFallback degrades to a
	// plain Check.
	OwnerLookup OwnerLookup
}

// NewEngine creates an Engine over the given relation store.
func NewEngine(store storage.RelationStore) *Engine {
	return &Engine{Store: store}
}

// Check reports whether the user holds a relation on the object whose
// hierarchy set includes the required relation. System admins pass every
// check; a wildcard ("*") tuple on the object matches any user.
func (e *Engine) Check(ctx context.Context, userID, namespace, objectID string, required models.Relation) (bool, error) {
	if userID == "" {
		return false, nil
	}

	admin, err := e.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	for _, subject := range []string{userID, models.WildcardSubject} {
		tuples, err := e.Store.FindTuples(ctx, namespace, objectID, subject, nil)
		if err != nil {
			return false, fmt.Errorf("failed to read relation tuples: %w", err)
		}
		for _, tuple := range tuples {
			if satisfies(tuple.Relation, required) {
				return true, nil
			}
		}
	}

	return false, nil
}

// CheckAny reports whether the user satisfies at least one of the required
// relations.
func (e *Engine) CheckAny(ctx context.Context, userID, namespace, objectID string, required []models.Relation) (bool, error) {
	for _, rel := range required {
		ok, err := e.Check(ctx, userID, namespace, objectID, rel)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// CheckAll reports whether the user satisfies every one of the required
// relations.
func (e *Engine) CheckAll(ctx context.Context, userID, namespace, objectID string, required []models.Relation) (bool, error) {
	for _, rel := range required {
		ok, err := e.Check(ctx, userID, namespace, objectID, rel)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsAdmin reports whether the user holds the system-scoped admin relation.
func (e *Engine) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	admin := models.RelationAdmin
	tuples, err := e.Store.FindTuples(ctx, models.SystemNamespace, models.SystemObject, userID, &admin)
	if err != nil {
		return false, fmt.Errorf("failed to read admin tuples: %w", err)
	}
	return len(tuples) > 0, nil
}

// CheckWithFallback runs a normal Check and, when no tuple grants access,
// falls back to comparing the resource's own creator field against the
// acting user. Resources predating the permission graph have no tuples but
// do have a creator.
func (e *Engine) CheckWithFallback(ctx context.Context, userID, namespace, objectID string, required models.Relation) (bool, error) {
	ok, err := e.Check(ctx, userID, namespace, objectID, required)
	if err != nil || ok {
		return ok, err
	}
	if e.OwnerLookup == nil {
		return false, nil
	}

	creator, err := e.OwnerLookup(ctx, namespace, objectID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve resource creator: %w", err)
	}
	return creator != "" && creator == userID, nil
}

// ListAccessible returns the object IDs in a namespace where the user
// holds a tuple satisfying the given relation. Admins get an empty list by
// contract: they hold no per-object tuples, and callers must special-case
// admin to mean "all resources".
func (e *Engine) ListAccessible(ctx context.Context, userID, namespace string, required models.Relation) ([]string, error) {
	if userID == "" {
		return []string{}, nil
	}
	admin, err := e.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if admin {
		return []string{}, nil
	}

	tuples, err := e.Store.ListForSubject(ctx, namespace, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subject tuples: %w", err)
	}

	seen := make(map[string]bool)
	var objectIDs []string
	for _, tuple := range tuples {
		if !satisfies(tuple.Relation, required) || seen[tuple.ObjectID] {
			continue
		}
		seen[tuple.ObjectID] = true
		objectIDs = append(objectIDs, tuple.ObjectID)
	}

	return objectIDs, nil
}
