package registration

import (
	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/types"
	"dormdesk/internal/domain/catalogs/product"
)

// ProductSubtotal is Σ quantity × unit price over lines.
func ProductSubtotal(lines []ProductLine) types.Money {
	total := types.Zero()
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TotalAmount is the product subtotal plus the deposit.
func TotalAmount(lines []ProductLine, deposit types.Money) types.Money {
	return ProductSubtotal(lines).Add(deposit)
}

// ErrProductAlreadyAdded is returned when a product is selected twice.
// The draft is left unchanged.
func ErrProductAlreadyAdded(productID int64) error {
	return apperror.NewBusinessRule(apperror.CodeProductAlreadyAdded, "product is already added").
		WithDetail("product_id", productID)
}

// WithPrices stores the price list for the current apart and season. When it
// holds exactly one product and no line has been added yet, that product is
// added automatically. Removing lines never triggers it; only a price load does.
func (d Draft) WithPrices(prices []product.Price) Draft {
	out := d.Clone()
	out.Prices = append([]product.Price{}, prices...)
	if len(prices) == 1 && len(out.Products) == 0 {
		out.Products = append(out.Products, lineFor(prices[0]))
	}
	return out
}

// AddProduct appends a line for productID priced from the loaded price list.
func (d Draft) AddProduct(productID int64) (Draft, error) {
	for _, l := range d.Products {
		if l.ProductID == productID {
			return d, ErrProductAlreadyAdded(productID)
		}
	}
	for _, p := range d.Prices {
		if p.ProductID == productID {
			out := d.Clone()
			out.Products = append(out.Products, lineFor(p))
			return out, nil
		}
	}
	return d, apperror.NewNotFound("price", productID).
		WithDetail("apart_id", d.ApartID).
		WithDetail("season_code", d.SeasonCode)
}

// RemoveProduct drops the line for productID. Removing an absent product is a no-op.
func (d Draft) RemoveProduct(productID int64) Draft {
	out := d.Clone()
	out.Products = out.Products[:0]
	for _, l := range d.Products {
		if l.ProductID != productID {
			out.Products = append(out.Products, l)
		}
	}
	return out
}

func lineFor(p product.Price) ProductLine {
	return ProductLine{
		ProductID:   p.ProductID,
		ProductName: p.ProductName(),
		Quantity:    1,
		UnitPrice:   p.Price,
	}
}
