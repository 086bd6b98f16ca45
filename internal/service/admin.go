package service

import (
	"context"
	"fmt"

	"github.com/avdeenkov/marketplace/internal/repo"
	"github.com/avdeenkov/marketplace/internal/transport"
)

const (
	topProductsLimit = 5
	recentOrdersLimit = 10
)

type AdminService struct {
	Repo *repo.GormRepo
}

// Stats is computed on demand; nothing is cached or materialized.
func (s *AdminService) Stats(ctx context.Context, caller Identity) (*transport.AdminStats, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}

	users, err := s.Repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.Repo.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.Repo.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.ListOrders(ctx, 0, recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	views := make([]transport.TopProductView, len(top))
	for i, t := range top {
		views[i] = transport.TopProductView{ProductID: t.ProductID, Name: t.Name, Sold: t.Sold}
	}

	return &transport.AdminStats{
		Users:       users,
		Products:    products,
		Orders:      orders,
		Revenue:     revenue,
		TopProducts: views,
		Recent:      recent,
	}, nil
}
