// Package product provides products (sellable services such as rent, cleaning,
// linen) and their per-apart, per-season prices.
package product

import (
	"context"
	"strings"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
	"dormdesk/internal/core/types"
)

// Product is a sellable item.
type Product struct {
	entity.Base

	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewFieldValidation("product is invalid", map[string][]string{
			"name": {"name is required"},
		})
	}
	return nil
}

// Price is the price of a product for one apart and season.
type Price struct {
	entity.Base

	ApartID    int64       `json:"apart_id"`
	SeasonCode string      `json:"season_code"`
	ProductID  int64       `json:"product_id"`
	Price      types.Money `json:"price"`

	// Product is embedded by the backend for card rendering
	Product *Product `json:"product,omitempty"`
}

// Validate implements entity.Validatable interface.
func (p *Price) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if p.ApartID == 0 {
		fields["apart_id"] = []string{"apart is required"}
	}
	if p.SeasonCode == "" {
		fields["season_code"] = []string{"season is required"}
	}
	if p.ProductID == 0 {
		fields["product_id"] = []string{"product is required"}
	}
	if p.Price.IsNegative() {
		fields["price"] = []string{"price cannot be negative"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("price is invalid", fields)
	}
	return nil
}

// ProductName returns the embedded product's name, or "" when absent.
func (p *Price) ProductName() string {
	if p.Product == nil {
		return ""
	}
	return p.Product.Name
}
