package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-terminal/internal/checkout"
	"github.com/fekuna/omnipos-terminal/internal/checkout/dto"
	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/inventory"
	invdto "github.com/fekuna/omnipos-terminal/internal/inventory/dto"
	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product"
	"github.com/fekuna/omnipos-terminal/pkg/apperror"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

var errCheckoutInFlight = errors.New("a checkout is already in progress")

type coordinator struct {
	repo     checkout.Repository
	stock    inventory.UseCase
	products product.UseCase
	store    *localstore.Store
	probe    connectivity.Probe
	logger   logger.Logger

	mu     sync.Mutex
	status checkout.Status
}

func NewCoordinator(repo checkout.Repository, stock inventory.UseCase, products product.UseCase, store *localstore.Store, probe connectivity.Probe, log logger.Logger) checkout.Coordinator {
	return &coordinator{
		repo:     repo,
		stock:    stock,
		products: products,
		store:    store,
		probe:    probe,
		logger:   log,
		status:   checkout.StatusIdle,
	}
}

func (c *coordinator) Status() checkout.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.IsTerminal() {
		c.status = checkout.StatusIdle
	}
}

func (c *coordinator) Checkout(ctx context.Context, input *dto.CheckoutInput) (*dto.Receipt, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	receipt, err := c.run(ctx, input)
	if err != nil {
		c.transition(checkout.StatusFailed)
		return nil, err
	}
	c.transition(checkout.StatusReceipted)
	return receipt, nil
}

func (c *coordinator) run(ctx context.Context, input *dto.CheckoutInput) (*dto.Receipt, error) {
	// Validating. No remote write has happened when this step aborts.
	c.transition(checkout.StatusValidating)

	if len(input.Lines) == 0 {
		return nil, apperror.Validation("cart", "must not be empty")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, apperror.Validation("quantity", "must be positive")
		}
	}

	total := cartTotal(input.Lines)
	change := input.CashGiven.Sub(total)
	if change.IsNegative() {
		return nil, apperror.Validation("cash_given", "must cover the total")
	}

	report, err := c.stock.CheckAvailability(ctx, requests(input.Lines))
	if err != nil {
		return nil, err
	}
	if !report.OK {
		return nil, &apperror.InsufficientStockError{Shortfalls: report.Shortfalls}
	}

	// Persisting. The transaction row first; items only if it succeeded.
	// An item failure after the row exists leaves the row persisted with no
	// items: a known boundary, logged and surfaced, never rolled back.
	c.transition(checkout.StatusPersisting)

	t := &model.Transaction{
		Total:     total,
		CashGiven: input.CashGiven,
		Change:    change,
		Status:    model.TransactionCompleted,
	}

	queued := !c.probe.IsOnline(ctx)
	if queued {
		t.ID = model.NewTempID()
		t.CreatedAt = time.Now()
		t.UpdatedAt = t.CreatedAt
		if err := c.queueSale(t, items(t.ID, input.Lines)); err != nil {
			return nil, err
		}
	} else {
		if err := c.repo.CreateTransaction(ctx, t); err != nil {
			return nil, apperror.Remote("persist transaction", err)
		}
		if err := c.repo.CreateItems(ctx, items(t.ID, input.Lines)); err != nil {
			perr := &apperror.PartialPersistError{Step: "persist transaction items", Err: err}
			c.logger.Error("transaction persisted without items",
				zap.String("transaction_id", t.ID), zap.Error(err))
			return nil, perr
		}
	}

	// Deducting. A failure here is logged and surfaced but the persisted
	// transaction stands.
	c.transition(checkout.StatusDeducting)

	if _, err := c.stock.DeductAfterSale(ctx, requests(input.Lines)); err != nil {
		perr := &apperror.PartialPersistError{Step: "deduct stock", Err: err}
		c.logger.Error("stock deduction failed after sale was persisted",
			zap.String("transaction_id", t.ID), zap.Error(err))
		return nil, perr
	}

	return c.receipt(ctx, t, input.Lines, queued), nil
}

func (c *coordinator) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != checkout.StatusIdle {
		return errCheckoutInFlight
	}
	c.status = checkout.StatusValidating
	return nil
}

func (c *coordinator) transition(next checkout.Status) {
	c.mu.Lock()
	c.status = next
	c.mu.Unlock()
	c.logger.Debug("checkout state", zap.String("status", next.String()))
}

func (c *coordinator) queueSale(t *model.Transaction, items []model.TransactionItem) error {
	err := c.store.EnqueuePending(localstore.PendingOp{
		Kind:     localstore.OpSale,
		Tx:       t,
		Items:    items,
		QueuedAt: time.Now(),
	})
	if err != nil {
		return &apperror.PartialPersistError{Step: "queue offline sale", Err: err}
	}
	return nil
}

func (c *coordinator) receipt(ctx context.Context, t *model.Transaction, lines []model.CartLine, queued bool) *dto.Receipt {
	names := map[string]string{}
	if view, err := c.products.List(ctx); err == nil {
		for _, p := range view {
			names[p.ID] = p.Name
		}
	}

	r := &dto.Receipt{
		TransactionID: t.ID,
		Total:         t.Total,
		CashGiven:     t.CashGiven,
		Change:        t.Change,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
		Queued:        queued,
	}
	for _, line := range lines {
		r.Lines = append(r.Lines, dto.ReceiptLine{
			ProductID: line.ProductID,
			Name:      names[line.ProductID],
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}
	return r
}

func (c *coordinator) History(ctx context.Context) ([]model.Transaction, error) {
	if !c.probe.IsOnline(ctx) {
		// Transactions are not mirrored locally; offline history is empty
		// rather than an error.
		return []model.Transaction{}, nil
	}
	transactions, err := c.repo.FindAll(ctx)
	if err != nil {
		c.logger.Warn("remote transaction fetch failed", zap.Error(err))
		return []model.Transaction{}, nil
	}
	return transactions, nil
}

func cartTotal(lines []model.CartLine) decimal.Decimal {
	cart := model.Cart{Lines: lines}
	return cart.Total()
}

func requests(lines []model.CartLine) []invdto.StockRequest {
	reqs := make([]invdto.StockRequest, 0, len(lines))
	for _, line := range lines {
		reqs = append(reqs, invdto.StockRequest{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return reqs
}

func items(transactionID string, lines []model.CartLine) []model.TransactionItem {
	out := make([]model.TransactionItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, model.TransactionItem{
			ID:            uuid.New().String(),
			TransactionID: transactionID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			Price:         line.UnitPrice,
		})
	}
	return out
}
