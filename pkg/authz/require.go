package authz

import (
	"context"
	"fmt"

	"github.com/pixelforge/credits/pkg/models"
)

// RequireRelation is the short-circuiting form of Check for request-handler
// boundaries: ErrUnauthorized when no identity is present, ErrForbidden
// when the identity lacks the relation, nil when access is granted.
func (e *Engine) RequireRelation(ctx context.Context, userID, namespace, objectID string, required models.Relation) error {
	if userID == "" {
		return ErrUnauthorized
	}
	ok, err := e.Check(ctx, userID, namespace, objectID, required)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s required on %s/%s", ErrForbidden, required, namespace, objectID)
	}
	return nil
}

// RequireAdmin is the short-circuiting form of IsAdmin.
func (e *Engine) RequireAdmin(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	admin, err := e.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("%w: system admin required", ErrForbidden)
	}
	return nil
}
