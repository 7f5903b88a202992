// Package reconcile finishes work that was recorded while the remote store
// was unreachable: it promotes placeholder-id products to authoritative
// rows and replays the pending-op outbox.
package reconcile

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-terminal/internal/checkout"
	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type Sweeper struct {
	products product.Repository
	sales    checkout.Repository
	store    *localstore.Store
	probe    connectivity.Probe
	logger   logger.Logger

	mu sync.Mutex
}

func NewSweeper(products product.Repository, sales checkout.Repository, store *localstore.Store, probe connectivity.Probe, log logger.Logger) *Sweeper {
	return &Sweeper{
		products: products,
		sales:    sales,
		store:    store,
		probe:    probe,
		logger:   log,
	}
}

// Run executes one sweep. It is a no-op when offline or when a sweep is
// already in flight. Individual failures keep their work queued for the
// next sweep; Run only errors when the local store itself misbehaves.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.probe.IsOnline(ctx) {
		return nil
	}
	if !s.mu.TryLock() {
		return nil
	}
	defer s.mu.Unlock()

	promoted, err := s.promotePlaceholders(ctx)
	if err != nil {
		return err
	}
	return s.replayPending(ctx, promoted)
}

// promotePlaceholders inserts every temp_-id cached product remotely and
// adopts the authoritative row in the cache. The server id is the only
// field allowed to change. The returned map carries each adopted id so
// queued ops referencing the temp id can follow it.
func (s *Sweeper) promotePlaceholders(ctx context.Context) (map[string]string, error) {
	products := []model.Product{}
	if _, err := s.store.Get(localstore.KeyProducts, &products); err != nil {
		return nil, err
	}

	promoted := map[string]string{}
	for i := range products {
		if !products[i].IsPlaceholder() {
			continue
		}
		draft := products[i]
		draft.ID = ""
		row, err := s.products.Insert(ctx, &draft)
		if err != nil {
			s.logger.Warn("placeholder promotion failed, keeping temp id",
				zap.String("temp_id", products[i].ID), zap.Error(err))
			continue
		}
		s.logger.Info("promoted placeholder product",
			zap.String("temp_id", products[i].ID), zap.String("id", row.ID))
		promoted[products[i].ID] = row.ID
		products[i] = *row
	}

	if len(promoted) == 0 {
		return promoted, nil
	}
	return promoted, s.store.Set(localstore.KeyProducts, products)
}

// replayPending applies outbox ops in arrival order. Each op is deleted by
// its own key only after its remote write succeeds, so ops enqueued while
// the sweep runs are never touched. Ops referencing a just-promoted temp
// product id are rewritten to the server id first; ops still holding an
// unpromoted temp id wait for a later sweep.
func (s *Sweeper) replayPending(ctx context.Context, promoted map[string]string) error {
	entries, err := s.store.PendingEntries()
	if err != nil {
		return err
	}

	var done [][]byte
	for _, entry := range entries {
		op, changed := remapProductIDs(entry.Op, promoted)
		if changed {
			// Persisted before replay: the temp ids are already gone from
			// the cache, so a crash here must not strand the old ids.
			if err := s.store.RewritePending(entry.Key, op); err != nil {
				s.logger.Error("failed to rewrite pending op with promoted id", zap.Error(err))
			}
		}
		if id, pending := referencesTempID(op); pending {
			s.logger.Warn("pending op references an unpromoted product, keeping it queued",
				zap.String("kind", string(op.Kind)), zap.String("temp_id", id))
			continue
		}
		if err := s.replayOne(ctx, op); err != nil {
			s.logger.Warn("pending op replay failed, keeping it queued",
				zap.String("kind", string(op.Kind)), zap.Error(err))
			continue
		}
		done = append(done, entry.Key)
	}
	return s.store.DeletePending(done...)
}

func (s *Sweeper) replayOne(ctx context.Context, op localstore.PendingOp) error {
	switch op.Kind {
	case localstore.OpProductDelete:
		return s.products.Delete(ctx, op.ProductID)
	case localstore.OpStockSet:
		return s.products.UpdateStock(ctx, op.ProductID, op.Stock)
	case localstore.OpSale:
		return s.replaySale(ctx, op)
	default:
		s.logger.Error("unknown pending op kind, dropping it", zap.String("kind", string(op.Kind)))
		return nil
	}
}

// replaySale persists a sale recorded offline. The placeholder transaction
// id is discarded; the store assigns the real one and the items follow it.
// Stock adjustments rode their own stock.set ops, so none happen here.
func (s *Sweeper) replaySale(ctx context.Context, op localstore.PendingOp) error {
	if op.Tx == nil {
		s.logger.Error("sale op without transaction payload, dropping it")
		return nil
	}

	t := *op.Tx
	t.ID = ""
	if err := s.sales.CreateTransaction(ctx, &t); err != nil {
		return err
	}

	items := make([]model.TransactionItem, len(op.Items))
	copy(items, op.Items)
	for i := range items {
		items[i].TransactionID = t.ID
	}
	if err := s.sales.CreateItems(ctx, items); err != nil {
		// The row exists without items now; retrying the whole op would
		// duplicate the transaction, so it is dropped and the gap logged.
		s.logger.Error("queued sale persisted without items",
			zap.String("transaction_id", t.ID), zap.Error(err))
	}
	return nil
}

// remapProductIDs replaces every promoted temp product id in op with its
// server id, in the op itself and in any sale items.
func remapProductIDs(op localstore.PendingOp, promoted map[string]string) (localstore.PendingOp, bool) {
	if len(promoted) == 0 {
		return op, false
	}
	changed := false
	if id, ok := promoted[op.ProductID]; ok {
		op.ProductID = id
		changed = true
	}
	itemsChanged := false
	for _, item := range op.Items {
		if _, ok := promoted[item.ProductID]; ok {
			itemsChanged = true
			break
		}
	}
	if itemsChanged {
		items := make([]model.TransactionItem, len(op.Items))
		copy(items, op.Items)
		for i := range items {
			if id, ok := promoted[items[i].ProductID]; ok {
				items[i].ProductID = id
			}
		}
		op.Items = items
		changed = true
	}
	return op, changed
}

// referencesTempID reports whether op still points at a placeholder product
// the remote store cannot know yet.
func referencesTempID(op localstore.PendingOp) (string, bool) {
	if model.IsTempID(op.ProductID) {
		return op.ProductID, true
	}
	for _, item := range op.Items {
		if model.IsTempID(item.ProductID) {
			return item.ProductID, true
		}
	}
	return "", false
}
