package service

import (
	"github.com/google/uuid"

	"github.com/avdeenkov/marketplace/internal/models"
)

// Identity is the resolved caller: the output of the auth middleware.
type Identity struct {
	UserID uuid.UUID
	Role   models.Role
}

// The role policy lives here and nowhere else. Handlers and services ask
// these predicates instead of re-checking role strings ad hoc.

func (id Identity) IsAdmin() bool    { return id.Role == models.RoleAdmin }
func (id Identity) IsVendor() bool   { return id.Role == models.RoleVendor }
func (id Identity) IsCustomer() bool { return id.Role == models.RoleCustomer }

// CanManageProduct allows admins unconditionally and vendors for their own
// products only.
func (id Identity) CanManageProduct(p *models.Product) bool {
	if id.IsAdmin() {
		return true
	}
	return id.IsVendor() && p.VendorID == id.UserID
}

// CanViewOrder allows the owning customer, an admin, or a vendor owning at
// least one line.
func (id Identity) CanViewOrder(o *models.Order) bool {
	if id.IsAdmin() || o.UserID == id.UserID {
		return true
	}
	return id.OwnsOrderLine(o)
}

// CanCancelOrder covers the owning customer, vendors of line items, and
// admins.
func (id Identity) CanCancelOrder(o *models.Order) bool {
	return id.CanViewOrder(o)
}

// CanRefundOrder is restricted to admins and the owning customer.
func (id Identity) CanRefundOrder(o *models.Order) bool {
	return id.IsAdmin() || o.UserID == id.UserID
}

// CanFulfilOrder allows a vendor owning a line item to mark the order
// shipped or delivered. Admins may as well.
func (id Identity) CanFulfilOrder(o *models.Order) bool {
	if id.IsAdmin() {
		return true
	}
	return id.IsVendor() && id.OwnsOrderLine(o)
}

func (id Identity) OwnsOrderLine(o *models.Order) bool {
	for i := range o.Items {
		if o.Items[i].VendorID == id.UserID {
			return true
		}
	}
	return false
}
