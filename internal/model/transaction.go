package model

import "github.com/shopspring/decimal"

type TransactionStatus string

// Completed is the only status a sale reaches in this client; there are no
// partial or void states.
const TransactionCompleted TransactionStatus = "completed"

type Transaction struct {
	BaseModel
	Total     decimal.Decimal   `db:"total" json:"total"`
	CashGiven decimal.Decimal   `db:"cash_given" json:"cash_given"`
	Change    decimal.Decimal   `db:"change" json:"change"`
	Status    TransactionStatus `db:"status" json:"status"`
}

// TransactionItem is exclusively owned by its transaction; items never
// outlive or are shared across transactions, and Price is the unit price at
// sale time, immutable thereafter.
type TransactionItem struct {
	ID            string          `db:"id" json:"id"`
	TransactionID string          `db:"transaction_id" json:"transaction_id"`
	ProductID     string          `db:"product_id" json:"product_id"`
	Quantity      int             `db:"quantity" json:"quantity"`
	Price         decimal.Decimal `db:"price" json:"price"`
}
