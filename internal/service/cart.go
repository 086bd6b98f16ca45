package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("%w: product %s is not available", ErrValidation, productID)
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	item, err := s.Repo.RemoveFromCart(ctx, userID, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s not in cart", ErrNotFound, productID)
		}
		return nil, err
	}
	return item, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.Repo.ClearCart(ctx, userID)
}
