package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart merges quantity into an existing line for the same product
// instead of creating a duplicate row.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	var existing models.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Quantity += item.Quantity
		if err := r.DB.WithContext(ctx).Save(&existing).Error; err != nil {
			return err
		}
		*item = existing
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.DB.WithContext(ctx).Create(item).Error
	default:
		return err
	}
}

// RemoveFromCart decrements a line by quantity, deleting it when the line
// drops to zero or below. Returns the remaining item, nil when deleted.
func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		return nil, err
	}

	if item.Quantity > quantity {
		item.Quantity -= quantity
		if err := r.DB.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}

	if err := r.DB.WithContext(ctx).Delete(&item).Error; err != nil {
		return nil, err
	}
	return nil, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
