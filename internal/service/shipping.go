package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avdeenkov/marketplace/internal/repo"
	"github.com/avdeenkov/marketplace/internal/transport"
)

// FreeShippingThreshold is the cart subtotal above which shipping is free.
var FreeShippingThreshold = decimal.NewFromInt(50)

type shippingRate struct {
	base    decimal.Decimal
	perKG   decimal.Decimal
	etaDays int
}

var shippingRates = map[string]shippingRate{
	"standard": {base: decimal.NewFromFloat(4.99), perKG: decimal.NewFromFloat(0.50), etaDays: 5},
	"express":  {base: decimal.NewFromFloat(9.99), perKG: decimal.NewFromFloat(1.20), etaDays: 2},
}

// EstimateShipping is a pure function: base + perKg*weight, free above the
// subtotal threshold.
func EstimateShipping(method string, weightKG, subtotal decimal.Decimal) (transport.ShippingEstimate, error) {
	rate, ok := shippingRates[method]
	if !ok {
		return transport.ShippingEstimate{}, fmt.Errorf("%w: unknown shipping method %q", ErrValidation, method)
	}

	cost := rate.base.Add(rate.perKG.Mul(weightKG)).Round(2)
	if subtotal.GreaterThan(FreeShippingThreshold) {
		cost = decimal.Zero
	}

	return transport.ShippingEstimate{
		Method:   method,
		WeightKG: weightKG,
		Subtotal: subtotal,
		Cost:     cost,
		ETADays:  rate.etaDays,
	}, nil
}

type ShippingService struct {
	Repo *repo.GormRepo
}

// EstimateForCart computes weight and subtotal over the caller's cart and
// prices the given method.
func (s *ShippingService) EstimateForCart(ctx context.Context, userID uuid.UUID, method string) (transport.ShippingEstimate, error) {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return transport.ShippingEstimate{}, err
	}
	if len(cart) == 0 {
		return transport.ShippingEstimate{}, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	weight := decimal.Zero
	subtotal := decimal.Zero
	for i := range cart {
		product, err := s.Repo.GetProduct(ctx, cart[i].ProductID)
		if err != nil {
			return transport.ShippingEstimate{}, err
		}
		qty := decimal.NewFromInt(int64(cart[i].Quantity))
		weight = weight.Add(product.WeightKG.Mul(qty))
		subtotal = subtotal.Add(product.DiscountedPrice().Mul(qty))
	}

	return EstimateShipping(method, weight, subtotal)
}
