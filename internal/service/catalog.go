package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/events"
	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
	"github.com/avdeenkov/marketplace/internal/search"
	"github.com/avdeenkov/marketplace/internal/transport"
	"github.com/avdeenkov/marketplace/pkg/logging"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Search   *search.Client
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return product, err
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

// SearchProducts queries elasticsearch when configured, with a LIKE
// fallback against the store otherwise.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}
	if s.Search != nil {
		return s.Search.Search(ctx, query, offset, limit)
	}
	return s.Repo.SearchProducts(ctx, search.LikePattern(query), offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, caller Identity, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if !caller.IsVendor() && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: vendor or admin role required", ErrForbidden)
	}
	if err := validateProductFields(req.Name, req.Price, req.Offer, req.Stock); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.Repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, *req.CategoryID)
		}
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Offer:       req.Offer,
		Stock:       req.Stock,
		WeightKG:    req.WeightKG,
		VendorID:    caller.UserID,
		CategoryID:  req.CategoryID,
		Active:      true,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, l, product, "product_created")
	return product, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, caller Identity, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.patch")

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanManageProduct(product) {
		return nil, fmt.Errorf("%w: product owned by another vendor", ErrForbidden)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Offer != nil {
		product.Offer = *req.Offer
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.WeightKG != nil {
		product.WeightKG = *req.WeightKG
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if req.CategoryID != nil {
		if _, err := s.Repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, *req.CategoryID)
		}
		product.CategoryID = req.CategoryID
	}

	if err := validateProductFields(product.Name, product.Price, product.Offer, product.Stock); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, l, product, "product_updated")
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, caller Identity, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete")

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanManageProduct(product) {
		return fmt.Errorf("%w: product owned by another vendor", ErrForbidden)
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if err := s.Search.DeleteProduct(ctx, id.String()); err != nil {
		l.Warn("search deindex failed", "product_id", id, "error", err)
	}
	if err := s.Producer.Publish(ctx, events.TopicProductEvents, id.String(), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	}); err != nil {
		l.Warn("event publish failed", "error", err)
	}
	return nil
}

func (s *CatalogService) afterWrite(ctx context.Context, l *slog.Logger, product *models.Product, eventType string) {
	if err := s.Search.IndexProduct(ctx, product); err != nil {
		l.Warn("search index failed", "product_id", product.ID, "error", err)
	}
	if err := s.Producer.Publish(ctx, events.TopicProductEvents, product.ID.String(), map[string]any{
		"type":       eventType,
		"product_id": product.ID,
		"name":       product.Name,
	}); err != nil {
		l.Warn("event publish failed", "error", err)
	}
}

func validateProductFields(name string, price decimal.Decimal, offer, stock int) error {
	if name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if offer < 0 || offer > 100 {
		return fmt.Errorf("%w: offer must be within 0..100", ErrValidation)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	return nil
}
