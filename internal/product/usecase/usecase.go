package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product"
	"github.com/fekuna/omnipos-terminal/internal/product/dto"
	"github.com/fekuna/omnipos-terminal/pkg/apperror"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type productUseCase struct {
	repo   product.Repository
	store  *localstore.Store
	probe  connectivity.Probe
	logger logger.Logger
}

func NewProductUseCase(repo product.Repository, store *localstore.Store, probe connectivity.Probe, log logger.Logger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		store:  store,
		probe:  probe,
		logger: log,
	}
}

// List returns the catalog, newest created first. Online it refreshes the
// cache wholesale from the remote store before returning; offline, or when
// the fetch fails, it serves whatever the cache holds. Network trouble is
// never surfaced to the caller here.
func (uc *productUseCase) List(ctx context.Context) ([]model.Product, error) {
	if uc.probe.IsOnline(ctx) {
		products, err := uc.repo.FindAll(ctx)
		if err == nil {
			if err := uc.store.Set(localstore.KeyProducts, products); err != nil {
				uc.logger.Error("failed to mirror products to local store", zap.Error(err))
			}
			return products, nil
		}
		uc.logger.Warn("remote product fetch failed, serving cached catalog", zap.Error(err))
	}
	return uc.cached(), nil
}

func (uc *productUseCase) Create(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:      input.Name,
		Price:     input.Price,
		Stock:     input.Stock,
		CreatedAt: time.Now(),
	}
	if input.Barcode != "" {
		bc := input.Barcode
		p.Barcode = &bc
	}
	if input.Category != "" {
		cat := input.Category
		p.Category = &cat
	}

	if uc.probe.IsOnline(ctx) {
		row, err := uc.repo.Insert(ctx, p)
		if err != nil {
			return nil, apperror.Remote("create product", err)
		}
		uc.prepend(row)
		return row, nil
	}

	// Offline: mint a placeholder id. The reconnect sweep promotes it to an
	// authoritative id later; structurally the caller cannot tell the
	// difference.
	p.ID = model.NewTempID()
	uc.prepend(p)
	return p, nil
}

// Update patches the product. Online the remote row is the result; offline
// the patch is merged into the cached entry and the merged value echoed
// back — a local projection only, not guaranteed to match a later sync.
func (uc *productUseCase) Update(ctx context.Context, id string, patch *dto.ProductPatch) (*model.Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if uc.probe.IsOnline(ctx) && !model.IsTempID(id) {
		row, err := uc.repo.Update(ctx, id, patch)
		if err != nil {
			return nil, apperror.Remote("update product", err)
		}
		uc.replace(row)
		return row, nil
	}

	products := uc.cached()
	merged := model.Product{ID: id}
	for i := range products {
		if products[i].ID == id {
			applyPatch(&products[i], patch)
			merged = products[i]
			if err := uc.store.Set(localstore.KeyProducts, products); err != nil {
				uc.logger.Error("failed to write cached catalog", zap.Error(err))
			}
			return &merged, nil
		}
	}
	applyPatch(&merged, patch)
	return &merged, nil
}

// Delete removes the product. Online the remote delete must succeed before
// the cache is touched; offline the cache entry goes away immediately and
// the remote delete is queued for the reconnect sweep.
func (uc *productUseCase) Delete(ctx context.Context, id string) error {
	if uc.probe.IsOnline(ctx) && !model.IsTempID(id) {
		if err := uc.repo.Delete(ctx, id); err != nil {
			return apperror.Remote("delete product", err)
		}
		uc.removeCached(id)
		return nil
	}

	uc.removeCached(id)
	if !model.IsTempID(id) {
		err := uc.store.EnqueuePending(localstore.PendingOp{
			Kind:      localstore.OpProductDelete,
			ProductID: id,
			QueuedAt:  time.Now(),
		})
		if err != nil {
			uc.logger.Error("failed to queue pending delete", zap.String("product_id", id), zap.Error(err))
		}
	}
	return nil
}

func (uc *productUseCase) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	if barcode == "" {
		return nil, apperror.Validation("barcode", "must not be empty")
	}
	products, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Barcode != nil && *products[i].Barcode == barcode {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (uc *productUseCase) cached() []model.Product {
	products := []model.Product{}
	if _, err := uc.store.Get(localstore.KeyProducts, &products); err != nil {
		uc.logger.Error("failed to read cached catalog", zap.Error(err))
		return []model.Product{}
	}
	return products
}

func (uc *productUseCase) prepend(p *model.Product) {
	products := append([]model.Product{*p}, uc.cached()...)
	if err := uc.store.Set(localstore.KeyProducts, products); err != nil {
		uc.logger.Error("failed to write cached catalog", zap.Error(err))
	}
}

func (uc *productUseCase) replace(p *model.Product) {
	products := uc.cached()
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = *p
			break
		}
	}
	if err := uc.store.Set(localstore.KeyProducts, products); err != nil {
		uc.logger.Error("failed to write cached catalog", zap.Error(err))
	}
}

func (uc *productUseCase) removeCached(id string) {
	products := uc.cached()
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := uc.store.Set(localstore.KeyProducts, kept); err != nil {
		uc.logger.Error("failed to write cached catalog", zap.Error(err))
	}
}

func validateCreate(input *dto.CreateProductInput) error {
	if input.Name == "" {
		return apperror.Validation("name", "must not be empty")
	}
	if input.Price.IsNegative() {
		return apperror.Validation("price", "must not be negative")
	}
	if input.Stock < 0 {
		return apperror.Validation("stock", "must not be negative")
	}
	return nil
}

func validatePatch(patch *dto.ProductPatch) error {
	if patch.Name != nil && *patch.Name == "" {
		return apperror.Validation("name", "must not be empty")
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return apperror.Validation("price", "must not be negative")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return apperror.Validation("stock", "must not be negative")
	}
	return nil
}

func applyPatch(p *model.Product, patch *dto.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Barcode != nil {
		bc := *patch.Barcode
		p.Barcode = &bc
	}
	if patch.Category != nil {
		cat := *patch.Category
		p.Category = &cat
	}
}
