package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product"
	"github.com/fekuna/omnipos-terminal/internal/product/dto"
	produc "github.com/fekuna/omnipos-terminal/internal/product/usecase"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

// MockRepository implements product.Repository for testing the engine.
type MockRepository struct {
	Products []model.Product

	FindErr   error
	StockErr  error
	DeductErr error

	StockWrites []dto.StockDeduction // abused as (id, value) pairs for SetStock
	Deductions  []dto.StockDeduction
}

func (m *MockRepository) FindAll(_ context.Context) ([]model.Product, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	out := make([]model.Product, len(m.Products))
	copy(out, m.Products)
	return out, nil
}

func (m *MockRepository) Insert(_ context.Context, p *model.Product) (*model.Product, error) {
	row := *p
	return &row, nil
}

func (m *MockRepository) Update(_ context.Context, id string, _ *dto.ProductPatch) (*model.Product, error) {
	return &model.Product{ID: id}, nil
}

func (m *MockRepository) Delete(_ context.Context, _ string) error { return nil }

func (m *MockRepository) UpdateStock(_ context.Context, id string, stock int) error {
	if m.StockErr != nil {
		return m.StockErr
	}
	m.StockWrites = append(m.StockWrites, dto.StockDeduction{ProductID: id, Quantity: stock})
	for i := range m.Products {
		if m.Products[i].ID == id {
			m.Products[i].Stock = stock
		}
	}
	return nil
}

func (m *MockRepository) DeductStock(_ context.Context, items []dto.StockDeduction) error {
	if m.DeductErr != nil {
		return m.DeductErr
	}
	for _, item := range items {
		for i := range m.Products {
			if m.Products[i].ID == item.ProductID {
				if m.Products[i].Stock < item.Quantity {
					return fmt.Errorf("%w: product %s", product.ErrStockConflict, item.ProductID)
				}
				m.Products[i].Stock -= item.Quantity
			}
		}
	}
	m.Deductions = append(m.Deductions, items...)
	return nil
}

// StubProbe implements connectivity.Probe for testing.
type StubProbe struct {
	Online bool
}

func (p *StubProbe) IsOnline(context.Context) bool { return p.Online }

type engineFixture struct {
	repo   *MockRepository
	store  *localstore.Store
	probe  *StubProbe
	engine *stockEngine
}

func newEngineFixture(t *testing.T, online bool, products []model.Product) *engineFixture {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "terminal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := &MockRepository{Products: products}
	probe := &StubProbe{Online: online}
	log := logger.NewNop()

	if !online {
		// Offline tests read the catalog from the cache, like the device would.
		require.NoError(t, store.Set(localstore.KeyProducts, products))
	}

	products2 := produc.NewProductUseCase(repo, store, probe, log)
	eng := NewStockEngine(products2, repo, store, probe, log).(*stockEngine)
	return &engineFixture{repo: repo, store: store, probe: probe, engine: eng}
}

func (f *engineFixture) cachedStock(t *testing.T, id string) int {
	t.Helper()
	var cached []model.Product
	_, err := f.store.Get(localstore.KeyProducts, &cached)
	require.NoError(t, err)
	for _, p := range cached {
		if p.ID == id {
			return p.Stock
		}
	}
	t.Fatalf("product %s not cached", id)
	return 0
}
