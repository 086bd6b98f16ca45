package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
)

type testEnv struct {
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Catalog  *CatalogService
	Category *CategoryService
	Cart     *CartService
	Orders   *OrderService
	Shipping *ShippingService
	Notifs   *NotificationService
	Admin    *AdminService
	Auth     *AuthService

	CustomerID uuid.UUID
	VendorID   uuid.UUID
	AdminID    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	r := repo.New(db)
	env := &testEnv{
		DB:       db,
		Repo:     r,
		Catalog:  &CatalogService{Repo: r},
		Category: &CategoryService{Repo: r},
		Cart:     &CartService{Repo: r},
		Orders:   &OrderService{Repo: r},
		Shipping: &ShippingService{Repo: r},
		Notifs:   &NotificationService{Repo: r},
		Admin:    &AdminService{Repo: r},
		Auth: &AuthService{
			Repo:          r,
			AccessSecret:  []byte("test-access-secret"),
			RefreshSecret: []byte("test-refresh-secret"),
		},
	}

	env.CustomerID = env.createUser(t, "customer1", models.RoleCustomer)
	env.VendorID = env.createUser(t, "vendor1", models.RoleVendor)
	env.AdminID = env.createUser(t, "admin1", models.RoleAdmin)
	return env
}

func (env *testEnv) createUser(t *testing.T, username string, role models.Role) uuid.UUID {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, env.DB.Create(&user).Error)
	return user.ID
}

func (env *testEnv) customer() Identity {
	return Identity{UserID: env.CustomerID, Role: models.RoleCustomer}
}

func (env *testEnv) vendor() Identity {
	return Identity{UserID: env.VendorID, Role: models.RoleVendor}
}

func (env *testEnv) admin() Identity {
	return Identity{UserID: env.AdminID, Role: models.RoleAdmin}
}

func (env *testEnv) createProduct(t *testing.T, name string, price float64, offer, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.NewFromFloat(price),
		Offer:       offer,
		Stock:       stock,
		WeightKG:    decimal.NewFromFloat(0.5),
		VendorID:    env.VendorID,
		Active:      true,
	}
	require.NoError(t, env.DB.Create(&product).Error)
	return &product
}

func (env *testEnv) productStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, env.DB.First(&product, "id = ?", id).Error)
	return product.Stock
}
