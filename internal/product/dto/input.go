package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Barcode  string          `json:"barcode"`
	Category string          `json:"category"`
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Stock    *int             `json:"stock"`
	Barcode  *string          `json:"barcode"`
	Category *string          `json:"category"`
}

// StockDeduction is one line of an atomic conditional stock decrement.
type StockDeduction struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
