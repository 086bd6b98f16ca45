package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/transport"
)

var testAddress = transport.ShippingAddress{
	Street:   "1 Main St",
	City:     "Springfield",
	Country:  "US",
	Postcode: "12345",
}

func TestCreateOrderTotalsAndStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plain := env.createProduct(t, "plain", 10.00, 0, 5)
	discounted := env.createProduct(t, "discounted", 20.00, 25, 5)

	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items: []transport.OrderLineRequest{
			{ProductID: plain.ID, Quantity: 2},
			{ProductID: discounted.ID, Quantity: 3},
		},
		Address: testAddress,
	})
	require.NoError(t, err)

	// 2*10.00 + 3*(20.00*0.75) = 20 + 45 = 65
	require.True(t, order.Total.Equal(decimal.NewFromInt(65)), "total %s", order.Total)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.Items, 2)
	require.True(t, order.Items[1].PriceAtPurchase.Equal(decimal.NewFromInt(15)))

	require.Equal(t, 3, env.productStock(t, plain.ID))
	require.Equal(t, 2, env.productStock(t, discounted.ID))
	require.Equal(t, "Springfield", order.ShipCity)
}

func TestCreateOrderPriceSnapshotImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "snap", 10.00, 0, 10)
	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.NoError(t, err)

	// Raise the price after the fact; the stored order keeps the snapshot.
	require.NoError(t, env.DB.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.NewFromInt(99)).Error)

	got, err := env.Orders.GetOrder(ctx, env.customer(), order.ID)
	require.NoError(t, err)
	require.True(t, got.Total.Equal(decimal.NewFromInt(10)))
	require.True(t, got.Items[0].PriceAtPurchase.Equal(decimal.NewFromInt(10)))
}

func TestCreateOrderInsufficientStockIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.createProduct(t, "first", 5.00, 0, 10)
	second := env.createProduct(t, "second", 5.00, 0, 1)

	_, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items: []transport.OrderLineRequest{
			{ProductID: first.ID, Quantity: 2},
			{ProductID: second.ID, Quantity: 5},
		},
		Address: testAddress,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The failing second line must roll back the first line's decrement.
	require.Equal(t, 10, env.productStock(t, first.ID))
	require.Equal(t, 1, env.productStock(t, second.ID))

	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Orders.CreateOrder(context.Background(), env.customer(), transport.CreateOrderRequest{
		Address: testAddress,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderRequiresCustomerRole(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "p", 5.00, 0, 5)

	_, err := env.Orders.CreateOrder(context.Background(), env.vendor(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLastUnitGoesToExactlyOneOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "last-unit", 5.00, 0, 1)
	req := transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		Address: testAddress,
	}

	_, err := env.Orders.CreateOrder(ctx, env.customer(), req)
	require.NoError(t, err)

	_, err = env.Orders.CreateOrder(ctx, env.customer(), req)
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, 0, env.productStock(t, product.ID))
}

func TestPayOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.NoError(t, err)

	paid, err := env.Orders.PayOrder(ctx, env.customer(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPaid, paid.Status)
	require.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)

	payments, err := env.Orders.ListPayments(ctx, env.customer(), order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, models.PaymentKindCharge, payments[0].Kind)

	// Paying twice is an invalid transition.
	_, err = env.Orders.PayOrder(ctx, env.customer(), order.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPayOrderForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.NoError(t, err)

	stranger := Identity{UserID: env.createUser(t, "other", models.RoleCustomer), Role: models.RoleCustomer}
	_, err = env.Orders.PayOrder(ctx, stranger, order.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCancelPendingLeavesStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 2}},
		Address: testAddress,
	})
	require.NoError(t, err)
	require.Equal(t, 3, env.productStock(t, product.ID))

	cancelled, err := env.Orders.CancelOrder(ctx, env.customer(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	require.Equal(t, 3, env.productStock(t, product.ID))
}

func TestCancelPaidRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 2}},
		Address: testAddress,
	})
	require.NoError(t, err)
	_, err = env.Orders.PayOrder(ctx, env.customer(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 3, env.productStock(t, product.ID))

	_, err = env.Orders.CancelOrder(ctx, env.customer(), order.ID)
	require.NoError(t, err)
	require.Equal(t, 5, env.productStock(t, product.ID))
}

func TestCancelTerminalStatesRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, status := range []models.OrderStatus{
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusRefunded,
	} {
		product := env.createProduct(t, "p-"+string(status), 10.00, 0, 5)
		order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
			Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
			Address: testAddress,
		})
		require.NoError(t, err)
		require.NoError(t, env.DB.Model(&models.Order{}).
			Where("id = ?", order.ID).Update("status", status).Error)

		_, err = env.Orders.CancelOrder(ctx, env.customer(), order.ID)
		require.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestCancelByLineVendor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.NoError(t, err)

	cancelled, err := env.Orders.CancelOrder(ctx, env.vendor(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestRefundBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 2}},
		Address: testAddress,
	})
	require.NoError(t, err)

	// Refunding an unpaid order is invalid.
	_, err = env.Orders.RefundOrder(ctx, env.admin(), order.ID, decimal.NewFromInt(5))
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.Orders.PayOrder(ctx, env.customer(), order.ID)
	require.NoError(t, err)

	_, err = env.Orders.RefundOrder(ctx, env.admin(), order.ID, decimal.NewFromInt(21))
	require.ErrorIs(t, err, ErrValidation)

	// Partial refund keeps the order paid.
	partial, err := env.Orders.RefundOrder(ctx, env.admin(), order.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPaid, partial.Status)
	require.Equal(t, models.PaymentStatusPaid, partial.PaymentStatus)

	// Full refund flips both enums.
	full, err := env.Orders.RefundOrder(ctx, env.admin(), order.ID, decimal.NewFromInt(20))
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusRefunded, full.Status)
	require.Equal(t, models.PaymentStatusRefunded, full.PaymentStatus)
}

func TestShipAndDeliverByVendor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	order, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.NoError(t, err)

	// Pending orders cannot ship.
	_, err = env.Orders.ShipOrder(ctx, env.vendor(), order.ID, "TRACK-1")
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.Orders.PayOrder(ctx, env.customer(), order.ID)
	require.NoError(t, err)

	// A vendor with no line in the order is rejected.
	otherVendor := Identity{UserID: env.createUser(t, "vendor2", models.RoleVendor), Role: models.RoleVendor}
	_, err = env.Orders.ShipOrder(ctx, otherVendor, order.ID, "TRACK-1")
	require.ErrorIs(t, err, ErrForbidden)

	shipped, err := env.Orders.ShipOrder(ctx, env.vendor(), order.ID, "TRACK-1")
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusShipped, shipped.Status)
	require.Equal(t, "TRACK-1", shipped.TrackingNo)

	delivered, err := env.Orders.DeliverOrder(ctx, env.vendor(), order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusDelivered, delivered.Status)
}

func TestCheckoutClearsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	_, err := env.Cart.AddToCart(ctx, env.CustomerID, product.ID, 2)
	require.NoError(t, err)

	order, err := env.Orders.Checkout(ctx, env.customer(), testAddress)
	require.NoError(t, err)
	require.True(t, order.Total.Equal(decimal.NewFromInt(20)))

	cart, err := env.Cart.GetCart(ctx, env.CustomerID)
	require.NoError(t, err)
	require.Empty(t, cart)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Orders.Checkout(context.Background(), env.customer(), testAddress)
	require.ErrorIs(t, err, ErrValidation)
}

func TestListOrdersRoleScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine := env.createProduct(t, "mine", 10.00, 0, 10)
	otherVendorID := env.createUser(t, "vendor2", models.RoleVendor)
	foreign := models.Product{
		Name: "foreign", Description: "d",
		Price: decimal.NewFromInt(5), Stock: 10,
		VendorID: otherVendorID, Active: true,
	}
	require.NoError(t, env.DB.Create(&foreign).Error)

	_, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: mine.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.NoError(t, err)
	_, err = env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: foreign.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.NoError(t, err)

	customerOrders, err := env.Orders.ListOrders(ctx, env.customer(), 0, 20)
	require.NoError(t, err)
	require.Len(t, customerOrders, 2)

	vendorOrders, err := env.Orders.ListOrders(ctx, env.vendor(), 0, 20)
	require.NoError(t, err)
	require.Len(t, vendorOrders, 1)

	adminOrders, err := env.Orders.ListOrders(ctx, env.admin(), 0, 20)
	require.NoError(t, err)
	require.Len(t, adminOrders, 2)
}

func TestOrderNotificationsCreated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "p", 10.00, 0, 5)
	_, err := env.Orders.CreateOrder(ctx, env.customer(), transport.CreateOrderRequest{
		Items:   []transport.OrderLineRequest{{ProductID: product.ID, Quantity: 1}},
		Address: testAddress,
	})
	require.NoError(t, err)

	customerNotifs, err := env.Notifs.List(ctx, env.CustomerID)
	require.NoError(t, err)
	require.Len(t, customerNotifs, 1)
	require.Equal(t, "order_created", customerNotifs[0].Type)

	vendorNotifs, err := env.Notifs.List(ctx, env.VendorID)
	require.NoError(t, err)
	require.Len(t, vendorNotifs, 1)
}
