package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avdeenkov/marketplace/internal/models"
)

func TestNotificationMarkReadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n := models.Notification{UserID: env.CustomerID, Type: "order_created", Message: "hi"}
	require.NoError(t, env.DB.Create(&n).Error)

	require.NoError(t, env.Notifs.MarkRead(ctx, n.ID, env.CustomerID))

	items, err := env.Notifs.List(ctx, env.CustomerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].Read)

	require.NoError(t, env.Notifs.Delete(ctx, n.ID, env.CustomerID))

	items, err = env.Notifs.List(ctx, env.CustomerID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestNotificationScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n := models.Notification{UserID: env.CustomerID, Type: "order_created", Message: "hi"}
	require.NoError(t, env.DB.Create(&n).Error)

	// Another user cannot see or mutate it.
	err := env.Notifs.MarkRead(ctx, n.ID, env.VendorID)
	require.ErrorIs(t, err, ErrNotFound)

	err = env.Notifs.Delete(ctx, n.ID, env.VendorID)
	require.ErrorIs(t, err, ErrNotFound)

	items, err := env.Notifs.List(ctx, env.VendorID)
	require.NoError(t, err)
	require.Empty(t, items)
}
