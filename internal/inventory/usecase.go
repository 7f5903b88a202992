package inventory

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/inventory/dto"
)

// UseCase enforces the stock-quantity invariants: quantities are checked
// against the current catalog view, decrements never drive stock below
// zero, and the local cache is updated even when the remote write fails.
type UseCase interface {
	CheckAvailability(ctx context.Context, requested []dto.StockRequest) (*dto.AvailabilityReport, error)
	SetStock(ctx context.Context, productID string, stock int) (dto.WriteResult, error)
	BatchSetStock(ctx context.Context, updates []dto.StockUpdate) (dto.WriteResult, error)
	DeductAfterSale(ctx context.Context, items []dto.StockRequest) (dto.WriteResult, error)
}
