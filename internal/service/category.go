package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
	"github.com/avdeenkov/marketplace/internal/transport"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return cat, err
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CategoryService) CreateCategory(ctx context.Context, caller Identity, req transport.CreateCategoryRequest) (*models.Category, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	taken, err := s.Repo.CategoryNameTaken(ctx, req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: category name already exists", ErrConflict)
	}

	if req.ParentID != nil {
		if _, err := s.GetCategory(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	cat := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Active:      true,
	}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) PatchCategory(ctx context.Context, caller Identity, id uuid.UUID, req transport.PatchCategoryRequest) (*models.Category, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}

	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		taken, err := s.Repo.CategoryNameTaken(ctx, *req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: category name already exists", ErrConflict)
		}
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.Active != nil {
		cat.Active = *req.Active
	}
	if req.ParentID != nil {
		if err := s.checkNoCycle(ctx, id, *req.ParentID); err != nil {
			return nil, err
		}
		cat.ParentID = req.ParentID
	}

	if err := s.Repo.SaveCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, caller Identity, id uuid.UUID) error {
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

// checkNoCycle walks the ancestor chain of the proposed parent and rejects
// the assignment if it would reach the category itself.
func (s *CategoryService) checkNoCycle(ctx context.Context, id, parentID uuid.UUID) error {
	if parentID == id {
		return fmt.Errorf("%w: category cannot be its own parent", ErrValidation)
	}
	current := parentID
	for {
		parent, err := s.GetCategory(ctx, current)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == id {
			return fmt.Errorf("%w: parent assignment would create a cycle", ErrValidation)
		}
		current = *parent.ParentID
	}
}
