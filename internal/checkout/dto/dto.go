package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

type CheckoutInput struct {
	Lines     []model.CartLine `json:"lines"`
	CashGiven decimal.Decimal  `json:"cash_given"`
}

type ReceiptLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Receipt is the read-only projection handed to the caller after a sale.
// Queued reports a sale recorded locally while offline, pending remote
// persistence by the reconnect sweep.
type Receipt struct {
	TransactionID string                  `json:"transaction_id"`
	Total         decimal.Decimal         `json:"total"`
	CashGiven     decimal.Decimal         `json:"cash_given"`
	Change        decimal.Decimal         `json:"change"`
	Status        model.TransactionStatus `json:"status"`
	CreatedAt     time.Time               `json:"created_at"`
	Lines         []ReceiptLine           `json:"lines"`
	Queued        bool                    `json:"queued"`
}
