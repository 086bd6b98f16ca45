package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avdeenkov/marketplace/internal/transport"
)

func TestCategoryRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Category.CreateCategory(ctx, env.admin(), transport.CreateCategoryRequest{
		Name:        "Kitchen",
		Description: "kitchenware",
	})
	require.NoError(t, err)

	got, err := env.Category.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Kitchen", got.Name)
	require.Equal(t, "kitchenware", got.Description)
	require.Nil(t, got.ParentID)
}

func TestCategoryNameConflictCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Category.CreateCategory(ctx, env.admin(), transport.CreateCategoryRequest{Name: "Kitchen"})
	require.NoError(t, err)

	_, err = env.Category.CreateCategory(ctx, env.admin(), transport.CreateCategoryRequest{Name: "kitchen"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = env.Category.CreateCategory(ctx, env.admin(), transport.CreateCategoryRequest{Name: "KITCHEN"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestCategoryAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Category.CreateCategory(context.Background(), env.vendor(), transport.CreateCategoryRequest{Name: "X"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCategoryCycleGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root, err := env.Category.CreateCategory(ctx, env.admin(), transport.CreateCategoryRequest{Name: "root"})
	require.NoError(t, err)
	child, err := env.Category.CreateCategory(ctx, env.admin(), transport.CreateCategoryRequest{Name: "child", ParentID: &root.ID})
	require.NoError(t, err)
	grandchild, err := env.Category.CreateCategory(ctx, env.admin(), transport.CreateCategoryRequest{Name: "grandchild", ParentID: &child.ID})
	require.NoError(t, err)

	// Self-parent is rejected.
	_, err = env.Category.PatchCategory(ctx, env.admin(), root.ID, transport.PatchCategoryRequest{ParentID: &root.ID})
	require.ErrorIs(t, err, ErrValidation)

	// root -> grandchild would close the loop root > child > grandchild > root.
	_, err = env.Category.PatchCategory(ctx, env.admin(), root.ID, transport.PatchCategoryRequest{ParentID: &grandchild.ID})
	require.ErrorIs(t, err, ErrValidation)

	// Reparenting grandchild directly under root is fine.
	updated, err := env.Category.PatchCategory(ctx, env.admin(), grandchild.ID, transport.PatchCategoryRequest{ParentID: &root.ID})
	require.NoError(t, err)
	require.Equal(t, root.ID, *updated.ParentID)
}
