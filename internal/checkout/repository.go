package checkout

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

// Repository persists sale records. CreateTransaction and CreateItems are
// deliberately two calls: the item insert only runs after the transaction
// row exists, and its failure leaves that row persisted with no items.
type Repository interface {
	// CreateTransaction inserts t and fills in the store-assigned id and
	// timestamps.
	CreateTransaction(ctx context.Context, t *model.Transaction) error
	CreateItems(ctx context.Context, items []model.TransactionItem) error

	// FindAll returns transactions, newest created first.
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindItems(ctx context.Context, transactionID string) ([]model.TransactionItem, error)
}
