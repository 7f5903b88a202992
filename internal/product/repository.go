package product

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product/dto"
)

// ErrStockConflict is returned by DeductStock when a conditional decrement
// matched no row: the product is gone or its stock dropped below the
// requested quantity since the caller last looked.
var ErrStockConflict = errors.New("stock conflict")

// Repository is the typed facade over the authoritative store's product
// rows. It is only called when the connectivity probe reports online.
type Repository interface {
	// FindAll returns every product, newest created first.
	FindAll(ctx context.Context) ([]model.Product, error)
	// Insert stores p and returns the authoritative row. A placeholder or
	// empty id is discarded; the store assigns the real one. A non-zero
	// CreatedAt is preserved so offline-created products keep their stamp.
	Insert(ctx context.Context, p *model.Product) (*model.Product, error)
	// Update applies patch to the row and returns the updated row.
	Update(ctx context.Context, id string, patch *dto.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id string) error

	// UpdateStock overwrites just the stock column.
	UpdateStock(ctx context.Context, id string, stock int) error
	// DeductStock applies every deduction in one transaction using a
	// conditional decrement (stock = stock - qty where stock >= qty),
	// failing the whole batch with ErrStockConflict if any row loses the
	// race.
	DeductStock(ctx context.Context, items []dto.StockDeduction) error
}
