package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/storage/memory"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(memory.New())
}

// grantDirect writes a tuple through the trusted path, bypassing grantor
// checks.
func grantDirect(t *testing.T, e *Engine, namespace, objectID string, relation models.Relation, subjectID string) {
	t.Helper()
	require.NoError(t, e.Grant(context.Background(), namespace, objectID, relation, subjectID, ""))
}

func TestCheck_DirectRelation(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, "project", "p1", models.RelationViewer, "alice")

	ok, err := engine.Check(ctx, "alice", "project", "p1", models.RelationViewer)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.Check(ctx, "bob", "project", "p1", models.RelationViewer)
	require.NoError(t, err)
	assert.False(t, ok)

	// A viewer on p1 has nothing on p2.
	ok, err = engine.Check(ctx, "alice", "project", "p2", models.RelationViewer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheck_HierarchyInheritance(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, "project", "p1", models.RelationOwner, "alice")
	grantDirect(t, engine, "project", "p1", models.RelationEditor, "bob")

	tests := []struct {
		user     string
		required models.Relation
		want     bool
	}{
		{"alice", models.RelationOwner, true},
		{"alice", models.RelationEditor, true},
		{"alice", models.RelationViewer, true},
		{"bob", models.RelationEditor, true},
		{"bob", models.RelationViewer, true},
		{"bob", models.RelationOwner, false},
	}

	for _, tc := range tests {
		ok, err := engine.Check(ctx, tc.user, "project", "p1", tc.required)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%s requiring %s", tc.user, tc.required)
	}
}

func TestCheck_EmptyUserDenied(t *testing.T) {
	engine := newTestEngine(t)
	grantDirect(t, engine, "project", "p1", models.RelationViewer, "*")

	// Even with a wildcard tuple present, an absent identity is denied.
	ok, err := engine.Check(context.Background(), "", "project", "p1", models.RelationViewer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheck_WildcardSubject(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, "model", "sdxl", models.RelationViewer, models.WildcardSubject)

	ok, err := engine.Check(ctx, "anyone-at-all", "model", "sdxl", models.RelationViewer)
	require.NoError(t, err)
	assert.True(t, ok)

	// The wildcard grants viewer, not editor.
	ok, err = engine.Check(ctx, "anyone-at-all", "model", "sdxl", models.RelationEditor)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheck_SystemAdminOverride(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, models.SystemNamespace, models.SystemObject, models.RelationAdmin, "root")

	ok, err := engine.Check(ctx, "root", "project", "never-granted", models.RelationOwner)
	require.NoError(t, err)
	assert.True(t, ok)

	admin, err := engine.IsAdmin(ctx, "root")
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = engine.IsAdmin(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestCheck_AdminTupleOnRegularObjectIsNotSystemAdmin(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, "project", "p1", models.RelationAdmin, "alice")

	admin, err := engine.IsAdmin(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, admin)

	// The object-scoped admin relation still satisfies everything on that
	// object.
	ok, err := engine.Check(ctx, "alice", "project", "p1", models.RelationOwner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.Check(ctx, "alice", "project", "p2", models.RelationViewer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckAnyAndCheckAll(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, "project", "p1", models.RelationEditor, "alice")

	ok, err := engine.CheckAny(ctx, "alice", "project", "p1", []models.Relation{models.RelationOwner, models.RelationEditor})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.CheckAll(ctx, "alice", "project", "p1", []models.Relation{models.RelationOwner, models.RelationEditor})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = engine.CheckAll(ctx, "alice", "project", "p1", []models.Relation{models.RelationEditor, models.RelationViewer})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckWithFallback(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	creators := map[string]string{"legacy-1": "alice"}
	engine.OwnerLookup = func(_ context.Context, namespace, objectID string) (string, error) {
		return creators[objectID], nil
	}

	t.Run("tuple wins without lookup", func(t *testing.T) {
		grantDirect(t, engine, "project", "p2", models.RelationViewer, "bob")
		ok, err := engine.CheckWithFallback(ctx, "bob", "project", "p2", models.RelationViewer)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("creator field bridges missing tuples", func(t *testing.T) {
		ok, err := engine.CheckWithFallback(ctx, "alice", "project", "legacy-1", models.RelationOwner)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = engine.CheckWithFallback(ctx, "bob", "project", "legacy-1", models.RelationViewer)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no lookup degrades to plain check", func(t *testing.T) {
		engine.OwnerLookup = nil
		ok, err := engine.CheckWithFallback(ctx, "alice", "project", "legacy-1", models.RelationOwner)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestListAccessible(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, "project", "p1", models.RelationOwner, "alice")
	grantDirect(t, engine, "project", "p2", models.RelationViewer, "alice")
	grantDirect(t, engine, "project", "p3", models.RelationEditor, "bob")
	grantDirect(t, engine, "gallery", "g1", models.RelationOwner, "alice")

	t.Run("filters by namespace and relation", func(t *testing.T) {
		ids, err := engine.ListAccessible(ctx, "alice", "project", models.RelationViewer)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"p1", "p2"}, ids)

		ids, err = engine.ListAccessible(ctx, "alice", "project", models.RelationEditor)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"p1"}, ids)
	})

	t.Run("admin gets an empty list by contract", func(t *testing.T) {
		grantDirect(t, engine, models.SystemNamespace, models.SystemObject, models.RelationAdmin, "root")
		ids, err := engine.ListAccessible(ctx, "root", "project", models.RelationViewer)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("empty user gets an empty list", func(t *testing.T) {
		ids, err := engine.ListAccessible(ctx, "", "project", models.RelationViewer)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestRequireRelation(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, "project", "p1", models.RelationEditor, "alice")

	assert.NoError(t, engine.RequireRelation(ctx, "alice", "project", "p1", models.RelationEditor))

	err := engine.RequireRelation(ctx, "", "project", "p1", models.RelationViewer)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	err = engine.RequireRelation(ctx, "bob", "project", "p1", models.RelationViewer)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestRequireAdmin(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	grantDirect(t, engine, models.SystemNamespace, models.SystemObject, models.RelationAdmin, "root")

	assert.NoError(t, engine.RequireAdmin(ctx, "root"))
	assert.True(t, errors.Is(engine.RequireAdmin(ctx, ""), ErrUnauthorized))
	assert.True(t, errors.Is(engine.RequireAdmin(ctx, "alice"), ErrForbidden))
}
