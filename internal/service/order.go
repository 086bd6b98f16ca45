package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/events"
	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
	"github.com/avdeenkov/marketplace/internal/transport"
	"github.com/avdeenkov/marketplace/pkg/logging"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

// transitions is the order status machine. Delivered, cancelled and
// refunded are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending: {models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusPaid:    {models.OrderStatusShipped, models.OrderStatusCancelled, models.OrderStatusRefunded},
	models.OrderStatusShipped: {models.OrderStatusDelivered},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrder converts an item list into an immutable-priced order. Every
// line's stock is decremented conditionally inside one transaction: either
// all lines succeed and the order is persisted, or nothing changes.
func (s *OrderService) CreateOrder(ctx context.Context, caller Identity, req transport.CreateOrderRequest) (*models.Order, error) {
	if !caller.IsCustomer() {
		return nil, fmt.Errorf("%w: customer role required", ErrForbidden)
	}
	return s.placeOrder(ctx, caller.UserID, req.Items, req.Address, false)
}

// Checkout builds the item list from the caller's cart and clears the cart
// in the same transaction as the order write.
func (s *OrderService) Checkout(ctx context.Context, caller Identity, addr transport.ShippingAddress) (*models.Order, error) {
	if !caller.IsCustomer() {
		return nil, fmt.Errorf("%w: customer role required", ErrForbidden)
	}

	cart, err := s.Repo.GetCart(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	items := make([]transport.OrderLineRequest, 0, len(cart))
	for i := range cart {
		items = append(items, transport.OrderLineRequest{
			ProductID: cart[i].ProductID,
			Quantity:  cart[i].Quantity,
		})
	}
	return s.placeOrder(ctx, caller.UserID, items, addr, true)
}

func (s *OrderService) placeOrder(ctx context.Context, userID uuid.UUID, items []transport.OrderLineRequest, addr transport.ShippingAddress, clearCart bool) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", userID)

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	total := decimal.Zero
	lines := make([]models.OrderItem, 0, len(items))
	for i := range items {
		if items[i].ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if items[i].Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}

		product, err := s.Repo.GetProduct(ctx, items[i].ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %s", ErrNotFound, items[i].ProductID)
			}
			return nil, err
		}
		if !product.Active {
			return nil, fmt.Errorf("%w: product %s is not available", ErrValidation, product.ID)
		}

		unitPrice := product.DiscountedPrice()
		lines = append(lines, models.OrderItem{
			ProductID:       product.ID,
			VendorID:        product.VendorID,
			Quantity:        items[i].Quantity,
			PriceAtPurchase: unitPrice,
		})
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}

	order := &models.Order{
		UserID:        userID,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Total:         total,
		ShipStreet:    addr.Street,
		ShipCity:      addr.City,
		ShipCountry:   addr.Country,
		ShipPostcode:  addr.Postcode,
		Items:         lines,
	}

	if err := s.Repo.CreateOrder(ctx, order, clearCart); err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: not enough stock for one of the items", ErrInsufficientStock)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product no longer exists", ErrNotFound)
		}
		return nil, err
	}

	l.Info("order created", "order_id", order.ID, "total", order.Total)
	s.publish(ctx, order, "order_created")
	s.notifyOrderParties(ctx, order, "order_created",
		fmt.Sprintf("order %s placed, total %s", order.ID, order.Total))
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, caller Identity, id uuid.UUID) (*models.Order, error) {
	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanViewOrder(order) {
		return nil, fmt.Errorf("%w: not your order", ErrForbidden)
	}
	return order, nil
}

// ListOrders is role-scoped: customers see their own orders, vendors the
// orders containing their products, admins everything.
func (s *OrderService) ListOrders(ctx context.Context, caller Identity, offset, limit int) ([]models.Order, error) {
	switch {
	case caller.IsAdmin():
		return s.Repo.ListOrders(ctx, offset, limit)
	case caller.IsVendor():
		return s.Repo.ListOrdersByVendor(ctx, caller.UserID, offset, limit)
	default:
		return s.Repo.ListOrdersByUser(ctx, caller.UserID, offset, limit)
	}
}

// PayOrder simulates payment settlement for a pending order.
func (s *OrderService) PayOrder(ctx context.Context, caller Identity, id uuid.UUID) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.pay", "order_id", id)

	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: not your order", ErrForbidden)
	}
	if !canTransition(order.Status, models.OrderStatusPaid) {
		return nil, fmt.Errorf("%w: cannot pay order in status %s", ErrInvalidTransition, order.Status)
	}

	order.Status = models.OrderStatusPaid
	order.PaymentStatus = models.PaymentStatusPaid
	if err := s.Repo.SaveOrderStatus(ctx, order, false); err != nil {
		return nil, err
	}
	if err := s.Repo.CreatePayment(ctx, &models.Payment{
		OrderID: order.ID,
		Kind:    models.PaymentKindCharge,
		Amount:  order.Total,
	}); err != nil {
		return nil, err
	}

	l.Info("order paid", "total", order.Total)
	s.publish(ctx, order, "order_paid")
	s.notifyUser(ctx, order.UserID, "order_paid",
		fmt.Sprintf("order %s paid, amount %s", order.ID, order.Total))
	return order, nil
}

// CancelOrder moves a pending or paid order to cancelled. Cancelling a paid
// order restores stock for every line in the same transaction as the
// status write.
func (s *OrderService) CancelOrder(ctx context.Context, caller Identity, id uuid.UUID) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.cancel", "order_id", id)

	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanCancelOrder(order) {
		return nil, fmt.Errorf("%w: not allowed to cancel this order", ErrForbidden)
	}
	if !canTransition(order.Status, models.OrderStatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel order in status %s", ErrInvalidTransition, order.Status)
	}

	restock := order.Status == models.OrderStatusPaid
	order.Status = models.OrderStatusCancelled
	if err := s.Repo.SaveOrderStatus(ctx, order, restock); err != nil {
		return nil, err
	}

	l.Info("order cancelled", "restocked", restock)
	s.publish(ctx, order, "order_cancelled")
	s.notifyUser(ctx, order.UserID, "order_cancelled",
		fmt.Sprintf("order %s cancelled", order.ID))
	return order, nil
}

// RefundOrder refunds up to the order total. A full refund flips both the
// order status and the payment status to refunded.
func (s *OrderService) RefundOrder(ctx context.Context, caller Identity, id uuid.UUID, amount decimal.Decimal) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.refund", "order_id", id)

	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanRefundOrder(order) {
		return nil, fmt.Errorf("%w: not allowed to refund this order", ErrForbidden)
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: order is not paid", ErrInvalidTransition)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: refund amount must be > 0", ErrValidation)
	}
	if amount.GreaterThan(order.Total) {
		return nil, fmt.Errorf("%w: refund amount exceeds order total", ErrValidation)
	}

	full := amount.Equal(order.Total)
	if full {
		if !canTransition(order.Status, models.OrderStatusRefunded) {
			return nil, fmt.Errorf("%w: cannot refund order in status %s", ErrInvalidTransition, order.Status)
		}
		order.Status = models.OrderStatusRefunded
		order.PaymentStatus = models.PaymentStatusRefunded
	}
	if err := s.Repo.SaveOrderStatus(ctx, order, false); err != nil {
		return nil, err
	}
	if err := s.Repo.CreatePayment(ctx, &models.Payment{
		OrderID: order.ID,
		Kind:    models.PaymentKindRefund,
		Amount:  amount,
	}); err != nil {
		return nil, err
	}

	l.Info("order refunded", "amount", amount, "full", full)
	s.publish(ctx, order, "order_refunded")
	s.notifyUser(ctx, order.UserID, "order_refunded",
		fmt.Sprintf("order %s refunded %s", order.ID, amount))
	return order, nil
}

// ShipOrder marks a paid order shipped; only a vendor owning a line item or
// an admin may do it.
func (s *OrderService) ShipOrder(ctx context.Context, caller Identity, id uuid.UUID, trackingNo string) (*models.Order, error) {
	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanFulfilOrder(order) {
		return nil, fmt.Errorf("%w: no line items owned by caller", ErrForbidden)
	}
	if !canTransition(order.Status, models.OrderStatusShipped) {
		return nil, fmt.Errorf("%w: cannot ship order in status %s", ErrInvalidTransition, order.Status)
	}

	order.Status = models.OrderStatusShipped
	order.TrackingNo = trackingNo
	if err := s.Repo.SaveOrderStatus(ctx, order, false); err != nil {
		return nil, err
	}

	s.publish(ctx, order, "order_shipped")
	s.notifyUser(ctx, order.UserID, "order_shipped",
		fmt.Sprintf("order %s shipped, tracking %s", order.ID, trackingNo))
	return order, nil
}

func (s *OrderService) DeliverOrder(ctx context.Context, caller Identity, id uuid.UUID) (*models.Order, error) {
	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanFulfilOrder(order) {
		return nil, fmt.Errorf("%w: no line items owned by caller", ErrForbidden)
	}
	if !canTransition(order.Status, models.OrderStatusDelivered) {
		return nil, fmt.Errorf("%w: cannot deliver order in status %s", ErrInvalidTransition, order.Status)
	}

	order.Status = models.OrderStatusDelivered
	if err := s.Repo.SaveOrderStatus(ctx, order, false); err != nil {
		return nil, err
	}

	s.publish(ctx, order, "order_delivered")
	s.notifyUser(ctx, order.UserID, "order_delivered",
		fmt.Sprintf("order %s delivered", order.ID))
	return order, nil
}

func (s *OrderService) ListPayments(ctx context.Context, caller Identity, orderID uuid.UUID) ([]models.Payment, error) {
	order, err := s.fetch(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.CanViewOrder(order) {
		return nil, fmt.Errorf("%w: not your order", ErrForbidden)
	}
	return s.Repo.ListPayments(ctx, orderID)
}

func (s *OrderService) fetch(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *models.Order, eventType string) {
	l := logging.FromContext(ctx)
	err := s.Producer.Publish(ctx, events.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":     eventType,
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.Total,
	})
	if err != nil {
		l.Warn("event publish failed", "order_id", order.ID, "error", err)
	}
}

func (s *OrderService) notifyUser(ctx context.Context, userID uuid.UUID, kind, message string) {
	l := logging.FromContext(ctx)
	n := &models.Notification{UserID: userID, Type: kind, Message: message}
	if err := s.Repo.CreateNotification(ctx, n); err != nil {
		l.Warn("notification create failed", "user_id", userID, "error", err)
	}
}

// notifyOrderParties notifies the customer and every distinct vendor with a
// line in the order.
func (s *OrderService) notifyOrderParties(ctx context.Context, order *models.Order, kind, message string) {
	s.notifyUser(ctx, order.UserID, kind, message)
	seen := map[uuid.UUID]bool{order.UserID: true}
	for i := range order.Items {
		vendorID := order.Items[i].VendorID
		if seen[vendorID] {
			continue
		}
		seen[vendorID] = true
		s.notifyUser(ctx, vendorID, kind, message)
	}
}
