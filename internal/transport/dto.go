package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avdeenkov/marketplace/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Offer       int             `json:"offer"`
	Stock       int             `json:"stock"`
	WeightKG    decimal.Decimal `json:"weight_kg"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Offer       *int             `json:"offer,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	WeightKG    *decimal.Decimal `json:"weight_kg,omitempty"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
}

type PatchCategoryRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

type CartAddRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type ShippingAddress struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Postcode string `json:"postcode"`
}

type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderRequest struct {
	Items   []OrderLineRequest `json:"items"`
	Address ShippingAddress    `json:"address"`
}

type CheckoutRequest struct {
	Address ShippingAddress `json:"address"`
}

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ShipOrderRequest struct {
	TrackingNo string `json:"tracking_no"`
}

type ShippingEstimate struct {
	Method   string          `json:"method"`
	WeightKG decimal.Decimal `json:"weight_kg"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Cost     decimal.Decimal `json:"cost"`
	ETADays  int             `json:"eta_days"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}

func NewPageMeta(page, size int, total int64) PageMeta {
	if size < 1 {
		size = 1
	}
	totalPages := (total + int64(size) - 1) / int64(size)
	return PageMeta{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    int64(page) < totalPages,
	}
}

type AdminStats struct {
	Users       int64            `json:"users"`
	Products    int64            `json:"products"`
	Orders      int64            `json:"orders"`
	Revenue     decimal.Decimal  `json:"revenue"`
	TopProducts []TopProductView `json:"top_products"`
	Recent      []models.Order   `json:"recent_orders"`
}

type TopProductView struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Sold      int64     `json:"sold"`
}
