package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avdeenkov/marketplace/internal/models"
)

type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Sold      int64     `json:"sold"`
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

// Revenue sums totals over paid and delivered orders.
func (r *GormRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var out struct {
		Sum decimal.Decimal
	}
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS sum").
		Where("status IN ?", []models.OrderStatus{models.OrderStatusPaid, models.OrderStatusDelivered}).
		Scan(&out).Error
	return out.Sum, err
}

func (r *GormRepo) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.product_id AS product_id, products.name AS name, SUM(order_items.quantity) AS sold").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("order_items.product_id, products.name").
		Order("sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
