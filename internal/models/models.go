package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"not null"                 json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"not null"                 json:"role"`
	IsBlocked    bool      `gorm:"default:false"            json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"  json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"              json:"expires_at"`
	Revoked   bool      `gorm:"default:false"         json:"revoked"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"not null"             json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"      json:"parent_id,omitempty"`
	Active      bool       `gorm:"default:true"         json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"       json:"id"`
	Name        string          `gorm:"not null"                   json:"name"`
	Description string          `gorm:"not null"                   json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	// Offer is a discount percentage, 0..100.
	Offer      int             `gorm:"default:0"                  json:"offer"`
	Stock      int             `gorm:"not null;check:stock >= 0"  json:"stock"`
	WeightKG   decimal.Decimal `gorm:"type:numeric(8,3)"          json:"weight_kg"`
	VendorID   uuid.UUID       `gorm:"type:uuid;index;not null"   json:"vendor_id"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"            json:"category_id,omitempty"`
	Active     bool            `gorm:"default:true"               json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DiscountedPrice is the per-unit price with the offer percentage applied.
func (p *Product) DiscountedPrice() decimal.Decimal {
	if p.Offer <= 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(int64(100 - p.Offer)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"  json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"        json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"      json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null"  json:"user_id"`
	Status        OrderStatus     `gorm:"not null"                  json:"status"`
	PaymentStatus PaymentStatus   `gorm:"not null"                  json:"payment_status"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	ShipStreet    string          `json:"ship_street"`
	ShipCity      string          `json:"ship_city"`
	ShipCountry   string          `json:"ship_country"`
	ShipPostcode  string          `json:"ship_postcode"`
	TrackingNo    string          `json:"tracking_no,omitempty"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID"        json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"       json:"product_id"`
	VendorID  uuid.UUID `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	// PriceAtPurchase is the discounted per-unit price captured at order time.
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_at_purchase"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type PaymentKind string

const (
	PaymentKindCharge PaymentKind = "charge"
	PaymentKindRefund PaymentKind = "refund"
)

type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"     json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"order_id"`
	Kind      PaymentKind     `gorm:"not null"                 json:"kind"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Type      string    `gorm:"not null"                 json:"type"`
	Message   string    `gorm:"not null"                 json:"message"`
	Read      bool      `gorm:"default:false"            json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// All lists every model for migration.
func All() []any {
	return []any{
		&User{}, &RefreshToken{}, &Category{}, &Product{},
		&CartItem{}, &Order{}, &OrderItem{}, &Payment{}, &Notification{},
	}
}
