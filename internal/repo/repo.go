package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a conditional stock decrement
// affects no rows for an existing product.
var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
