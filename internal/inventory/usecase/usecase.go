package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/inventory"
	"github.com/fekuna/omnipos-terminal/internal/inventory/dto"
	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product"
	productdto "github.com/fekuna/omnipos-terminal/internal/product/dto"
	"github.com/fekuna/omnipos-terminal/pkg/apperror"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type stockEngine struct {
	products product.UseCase
	repo     product.Repository
	store    *localstore.Store
	probe    connectivity.Probe
	logger   logger.Logger
}

func NewStockEngine(products product.UseCase, repo product.Repository, store *localstore.Store, probe connectivity.Probe, log logger.Logger) inventory.UseCase {
	return &stockEngine{
		products: products,
		repo:     repo,
		store:    store,
		probe:    probe,
		logger:   log,
	}
}

// CheckAvailability reports a shortfall for every requested line whose
// product is missing or whose available stock is below the requested
// quantity, as seen by the catalog view of this call.
func (e *stockEngine) CheckAvailability(ctx context.Context, requested []dto.StockRequest) (*dto.AvailabilityReport, error) {
	view, err := e.products.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Product, len(view))
	for i := range view {
		byID[view[i].ID] = &view[i]
	}

	report := &dto.AvailabilityReport{OK: true}
	for _, req := range sumByProduct(requested) {
		p, ok := byID[req.ProductID]
		if !ok {
			report.Shortfalls = append(report.Shortfalls, apperror.Shortfall{
				ProductID: req.ProductID,
				Requested: req.Quantity,
				Available: 0,
			})
			continue
		}
		if p.Stock < req.Quantity {
			report.Shortfalls = append(report.Shortfalls, apperror.Shortfall{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: req.Quantity,
				Available: p.Stock,
			})
		}
	}
	report.OK = len(report.Shortfalls) == 0
	return report, nil
}

// SetStock overwrites one product's stock. The remote write is attempted
// when online; its failure is queued for the reconnect sweep, never
// surfaced. Local truth is always updated.
func (e *stockEngine) SetStock(ctx context.Context, productID string, stock int) (dto.WriteResult, error) {
	if stock < 0 {
		return dto.WriteResult{}, apperror.Validation("stock", "must not be negative")
	}
	return e.BatchSetStock(ctx, []dto.StockUpdate{{ProductID: productID, Stock: stock}})
}

// BatchSetStock applies each remote update independently, continuing past
// per-row failures, then rewrites the cached catalog once with every
// requested value regardless of which remote writes succeeded.
func (e *stockEngine) BatchSetStock(ctx context.Context, updates []dto.StockUpdate) (dto.WriteResult, error) {
	for _, u := range updates {
		if u.Stock < 0 {
			return dto.WriteResult{}, apperror.Validation("stock", "must not be negative")
		}
	}

	res := dto.WriteResult{RemoteOK: true}
	online := e.probe.IsOnline(ctx)
	for _, u := range updates {
		if model.IsTempID(u.ProductID) {
			// Placeholder rows only exist locally; the cache write below
			// covers them and promotion carries the value upstream.
			continue
		}
		if online {
			err := e.repo.UpdateStock(ctx, u.ProductID, u.Stock)
			if err == nil {
				continue
			}
			e.logger.Error("remote stock write failed, queueing for replay",
				zap.String("product_id", u.ProductID), zap.Int("stock", u.Stock), zap.Error(err))
		}
		res.RemoteOK = false
		e.queueStockWrite(u)
	}

	res.LocalOK = e.applyToCache(updates)
	return res, nil
}

// DeductAfterSale re-checks availability and aborts without touching any
// stock value if it fails. Online, the decrement is one conditional batch
// at the storage boundary; offline, each line is floored at zero and
// applied to the cache, with the remote writes queued.
func (e *stockEngine) DeductAfterSale(ctx context.Context, items []dto.StockRequest) (dto.WriteResult, error) {
	report, err := e.CheckAvailability(ctx, items)
	if err != nil {
		return dto.WriteResult{}, err
	}
	if !report.OK {
		return dto.WriteResult{}, &apperror.InsufficientStockError{Shortfalls: report.Shortfalls}
	}

	view, err := e.products.List(ctx)
	if err != nil {
		return dto.WriteResult{}, err
	}
	updates := clampedUpdates(view, items)

	if e.probe.IsOnline(ctx) {
		deductions := make([]productdto.StockDeduction, 0, len(items))
		for _, req := range sumByProduct(items) {
			if model.IsTempID(req.ProductID) {
				continue
			}
			deductions = append(deductions, productdto.StockDeduction{ProductID: req.ProductID, Quantity: req.Quantity})
		}

		err := e.repo.DeductStock(ctx, deductions)
		if err == nil {
			return dto.WriteResult{RemoteOK: true, LocalOK: e.applyToCache(updates)}, nil
		}
		if errors.Is(err, product.ErrStockConflict) {
			// Lost a race between check and decrement; nothing was applied.
			report, cerr := e.CheckAvailability(ctx, items)
			if cerr == nil && !report.OK {
				return dto.WriteResult{}, &apperror.InsufficientStockError{Shortfalls: report.Shortfalls}
			}
			return dto.WriteResult{}, apperror.Remote("deduct stock", err)
		}
		e.logger.Warn("remote stock deduction failed, degrading to local apply", zap.Error(err))
	}

	res := dto.WriteResult{}
	for _, u := range updates {
		if !model.IsTempID(u.ProductID) {
			e.queueStockWrite(u)
		}
	}
	res.LocalOK = e.applyToCache(updates)
	return res, nil
}

func (e *stockEngine) queueStockWrite(u dto.StockUpdate) {
	err := e.store.EnqueuePending(localstore.PendingOp{
		Kind:      localstore.OpStockSet,
		ProductID: u.ProductID,
		Stock:     u.Stock,
		QueuedAt:  time.Now(),
	})
	if err != nil {
		e.logger.Error("failed to queue pending stock write",
			zap.String("product_id", u.ProductID), zap.Error(err))
	}
}

// applyToCache rewrites the cached catalog once with all updates applied.
func (e *stockEngine) applyToCache(updates []dto.StockUpdate) bool {
	products := []model.Product{}
	if _, err := e.store.Get(localstore.KeyProducts, &products); err != nil {
		e.logger.Error("failed to read cached catalog", zap.Error(err))
		return false
	}
	byID := make(map[string]int, len(updates))
	for _, u := range updates {
		byID[u.ProductID] = u.Stock
	}
	for i := range products {
		if stock, ok := byID[products[i].ID]; ok {
			products[i].Stock = stock
		}
	}
	if err := e.store.Set(localstore.KeyProducts, products); err != nil {
		e.logger.Error("failed to write cached catalog", zap.Error(err))
		return false
	}
	return true
}

func sumByProduct(requested []dto.StockRequest) []dto.StockRequest {
	order := []string{}
	totals := map[string]int{}
	for _, req := range requested {
		if _, seen := totals[req.ProductID]; !seen {
			order = append(order, req.ProductID)
		}
		totals[req.ProductID] += req.Quantity
	}
	out := make([]dto.StockRequest, 0, len(order))
	for _, id := range order {
		out = append(out, dto.StockRequest{ProductID: id, Quantity: totals[id]})
	}
	return out
}

// clampedUpdates computes max(0, stock - quantity) per line against view.
func clampedUpdates(view []model.Product, items []dto.StockRequest) []dto.StockUpdate {
	stockByID := make(map[string]int, len(view))
	for _, p := range view {
		stockByID[p.ID] = p.Stock
	}
	updates := []dto.StockUpdate{}
	for _, req := range sumByProduct(items) {
		current, ok := stockByID[req.ProductID]
		if !ok {
			continue
		}
		next := current - req.Quantity
		if next < 0 {
			next = 0
		}
		updates = append(updates, dto.StockUpdate{ProductID: req.ProductID, Stock: next})
	}
	return updates
}
