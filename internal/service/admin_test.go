package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avdeenkov/marketplace/internal/transport"
)

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	popular := env.createProduct(t, "popular", 10.00, 0, 100)
	rare := env.createProduct(t, "rare", 20.00, 0, 100)

	// Paid order: 3 popular + 1 rare = 50.
	paid, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items: []transport.OrderLineRequest{
			{ProductID: popular.ID, Quantity: 3},
			{ProductID: rare.ID, Quantity: 1},
		},
		Address: testAddress,
	})
	require.NoError(t, err)
	_, err = env.Orders.PayOrder(ctx, env.customer(), paid.ID)
	require.NoError(t, err)

	// Pending order: excluded from revenue but counted.
	_, err = env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: popular.ID, Quantity: 2}},
		Address: testAddress,
	})
	require.NoError(t, err)

	stats, err := env.Admin.Stats(ctx, env.admin())
	require.NoError(t, err)

	require.EqualValues(t, 3, stats.Users)
	require.EqualValues(t, 2, stats.Products)
	require.EqualValues(t, 2, stats.Orders)
	require.True(t, stats.Revenue.Equal(decimal.NewFromInt(50)), "revenue %s", stats.Revenue)

	require.NotEmpty(t, stats.TopProducts)
	require.Equal(t, "popular", stats.TopProducts[0].Name)
	require.EqualValues(t, 5, stats.TopProducts[0].Sold)

	require.Len(t, stats.Recent, 2)
}

func TestAdminStatsForbidden(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Admin.Stats(context.Background(), env.customer())
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.Admin.Stats(context.Background(), env.vendor())
	require.ErrorIs(t, err, ErrForbidden)
}
