package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/models"
)

// CreateOrder persists an order and decrements stock for every line inside
// one transaction. Any line failing the conditional decrement aborts the
// whole operation: no order row, no partial stock change. When clearCart is
// set the customer's cart rows are removed in the same transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, clearCart bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			if err := adjustStock(tx, order.Items[i].ProductID, -order.Items[i].Quantity); err != nil {
				return err
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if clearCart {
			if err := tx.Where("user_id = ?", order.UserID).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByVendor returns orders containing at least one line owned by
// the vendor.
func (r *GormRepo) ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	sub := r.DB.Model(&models.OrderItem{}).
		Select("order_id").Where("vendor_id = ?", vendorID)
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("id IN (?)", sub).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveOrderStatus writes the order's mutable fields and, when restock is
// set, returns every line's quantity to product stock in the same
// transaction. Restock accompanies cancellation of a paid order.
func (r *GormRepo) SaveOrderStatus(ctx context.Context, order *models.Order, restock bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		if restock {
			for i := range order.Items {
				if err := adjustStock(tx, order.Items[i].ProductID, order.Items[i].Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *GormRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.DB.WithContext(ctx).Create(payment).Error
}

func (r *GormRepo) ListPayments(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
