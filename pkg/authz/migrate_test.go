package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/credits/pkg/models"
)

func TestEnsureOwnerPermission(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.EnsureOwnerPermission(ctx, "project", "p1", "alice"))

	ok, err := engine.Check(ctx, "alice", "project", "p1", models.RelationOwner)
	require.NoError(t, err)
	assert.True(t, ok)

	// Calling again is a no-op, not a duplicate.
	require.NoError(t, engine.EnsureOwnerPermission(ctx, "project", "p1", "alice"))
	tuples, err := engine.Store.FindTuples(ctx, "project", "p1", "alice", nil)
	require.NoError(t, err)
	assert.Len(t, tuples, 1)

	assert.Error(t, engine.EnsureOwnerPermission(ctx, "project", "p2", ""))
}

func TestMigrateResourcePermissions(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	// p2 already has its owner tuple; p4 has no recorded creator.
	grantDirect(t, engine, "project", "p2", models.RelationOwner, "bob")

	resources := []OwnedResource{
		{ObjectID: "p1", CreatorID: "alice"},
		{ObjectID: "p2", CreatorID: "bob"},
		{ObjectID: "p3", CreatorID: "carol"},
		{ObjectID: "p4", CreatorID: ""},
	}

	created, err := engine.MigrateResourcePermissions(ctx, "project", resources)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	for _, tc := range []struct{ user, object string }{
		{"alice", "p1"}, {"bob", "p2"}, {"carol", "p3"},
	} {
		ok, err := engine.Check(ctx, tc.user, "project", tc.object, models.RelationOwner)
		require.NoError(t, err)
		assert.True(t, ok, "%s should own %s", tc.user, tc.object)
	}

	// Re-running the migration creates nothing new.
	created, err = engine.MigrateResourcePermissions(ctx, "project", resources)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
