package product

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product/dto"
)

// UseCase keeps the local cache and the remote store eventually consistent
// for the product catalog: read-through-and-refresh on fetch, write-through
// on mutation, degrade-to-local on failure or offline.
type UseCase interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	Update(ctx context.Context, id string, patch *dto.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
}
