package checkout

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/checkout/dto"
	"github.com/fekuna/omnipos-terminal/internal/model"
)

// Coordinator orchestrates a single sale through
// Idle → Validating → Persisting → Deducting → Receipted, with Failed
// reachable from any step and recoverable back to Idle.
type Coordinator interface {
	Checkout(ctx context.Context, input *dto.CheckoutInput) (*dto.Receipt, error)
	Status() Status
	// Reset returns a terminal coordinator to Idle so the UI may retry.
	Reset()
	History(ctx context.Context) ([]model.Transaction, error)
}
