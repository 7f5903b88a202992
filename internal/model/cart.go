package model

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-terminal/pkg/apperror"
)

// CartLine is transient, UI-session scoped. UnitPrice is a snapshot taken
// when the line is added and does not follow later product price changes.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add appends a line for p, capping the quantity at the product's stock as
// seen right now. Adding the same product again grows the existing line.
func (c *Cart) Add(p *Product, quantity int) error {
	if quantity <= 0 {
		return apperror.Validation("quantity", "must be positive")
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			quantity += c.Lines[i].Quantity
			if quantity > p.Stock {
				quantity = p.Stock
			}
			c.Lines[i].Quantity = quantity
			return nil
		}
	}

	if quantity > p.Stock {
		quantity = p.Stock
	}
	if quantity == 0 {
		return &apperror.InsufficientStockError{
			Shortfalls: []apperror.Shortfall{{ProductID: p.ID, Name: p.Name, Requested: 1, Available: 0}},
		}
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Quantity:  quantity,
		UnitPrice: p.Price,
	})
	return nil
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.Lines = nil
}
