package authz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixelforge/credits/pkg/models"
)

// OwnedResource pairs a resource with its creator, the input to the
// ownership backfill.
type OwnedResource struct {
	ObjectID  string
	CreatorID string
}

// EnsureOwnerPermission creates the owner tuple for a resource's creator if
// it does not already exist. Safe to call on every resource read.
func (e *Engine) EnsureOwnerPermission(ctx context.Context, namespace, objectID, creatorID string) error {
	if creatorID == "" {
		return fmt.Errorf("creatorId must not be empty")
	}

	owner := models.RelationOwner
	tuples, err := e.Store.FindTuples(ctx, namespace, objectID, creatorID, &owner)
	if err != nil {
		return fmt.Errorf("failed to read owner tuples: %w", err)
	}
	if len(tuples) > 0 {
		return nil
	}

	return e.Grant(ctx, namespace, objectID, models.RelationOwner, creatorID, "")
}

// MigrateResourcePermissions backfills owner tuples for every resource
// missing one, from the resource's creator field. Used once to bootstrap
// the permission graph over pre-existing resources; idempotent, so re-runs
// after partial failures are safe. Returns the number of tuples created.
func (e *Engine) MigrateResourcePermissions(ctx context.Context, namespace string, resources []OwnedResource) (int, error) {
	created := 0
	for _, res := range resources {
		if res.CreatorID == "" {
			slog.Warn("skipping resource without creator", "namespace", namespace, "object_id", res.ObjectID)
			continue
		}

		owner := models.RelationOwner
		tuples, err := e.Store.FindTuples(ctx, namespace, res.ObjectID, res.CreatorID, &owner)
		if err != nil {
			return created, fmt.Errorf("failed to read owner tuples for %s/%s: %w", namespace, res.ObjectID, err)
		}
		if len(tuples) > 0 {
			continue
		}

		if err := e.Grant(ctx, namespace, res.ObjectID, models.RelationOwner, res.CreatorID, ""); err != nil {
			return created, fmt.Errorf("failed to backfill owner for %s/%s: %w", namespace, res.ObjectID, err)
		}
		created++
	}

	slog.Info("resource permission migration finished", "namespace", namespace, "created", created, "total", len(resources))

	return created, nil
}
