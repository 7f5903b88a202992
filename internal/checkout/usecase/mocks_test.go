package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-terminal/internal/checkout"
	invusecase "github.com/fekuna/omnipos-terminal/internal/inventory/usecase"
	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product"
	proddto "github.com/fekuna/omnipos-terminal/internal/product/dto"
	produsecase "github.com/fekuna/omnipos-terminal/internal/product/usecase"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

// MockSalesRepository implements checkout.Repository for testing.
type MockSalesRepository struct {
	CreateTxErr    error
	CreateItemsErr error

	Transactions []model.Transaction
	Items        []model.TransactionItem

	nextID int
}

func (m *MockSalesRepository) CreateTransaction(_ context.Context, t *model.Transaction) error {
	if m.CreateTxErr != nil {
		return m.CreateTxErr
	}
	m.nextID++
	t.ID = fmt.Sprintf("tx-%d", m.nextID)
	m.Transactions = append(m.Transactions, *t)
	return nil
}

func (m *MockSalesRepository) CreateItems(_ context.Context, items []model.TransactionItem) error {
	if m.CreateItemsErr != nil {
		return m.CreateItemsErr
	}
	m.Items = append(m.Items, items...)
	return nil
}

func (m *MockSalesRepository) FindAll(_ context.Context) ([]model.Transaction, error) {
	out := make([]model.Transaction, len(m.Transactions))
	copy(out, m.Transactions)
	return out, nil
}

func (m *MockSalesRepository) FindItems(_ context.Context, transactionID string) ([]model.TransactionItem, error) {
	var out []model.TransactionItem
	for _, item := range m.Items {
		if item.TransactionID == transactionID {
			out = append(out, item)
		}
	}
	return out, nil
}

// MockProductRepository implements product.Repository for testing.
type MockProductRepository struct {
	Products  []model.Product
	DeductErr error
}

func (m *MockProductRepository) FindAll(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(m.Products))
	copy(out, m.Products)
	return out, nil
}

func (m *MockProductRepository) Insert(_ context.Context, p *model.Product) (*model.Product, error) {
	row := *p
	return &row, nil
}

func (m *MockProductRepository) Update(_ context.Context, id string, _ *proddto.ProductPatch) (*model.Product, error) {
	return &model.Product{ID: id}, nil
}

func (m *MockProductRepository) Delete(_ context.Context, _ string) error { return nil }

func (m *MockProductRepository) UpdateStock(_ context.Context, id string, stock int) error {
	for i := range m.Products {
		if m.Products[i].ID == id {
			m.Products[i].Stock = stock
		}
	}
	return nil
}

func (m *MockProductRepository) DeductStock(_ context.Context, items []proddto.StockDeduction) error {
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
	return nil
}

// StubProbe implements connectivity.Probe for testing.
type StubProbe struct {
	Online bool
}

func (p *StubProbe) IsOnline(context.Context) bool { return p.Online }

type checkoutFixture struct {
	sales    *MockSalesRepository
	products *MockProductRepository
	store    *localstore.Store
	probe    *StubProbe
	uc       checkout.Coordinator
}

func newCheckoutFixture(t *testing.T, online bool, products []model.Product) *checkoutFixture {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "terminal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sales := &MockSalesRepository{}
	prodRepo := &MockProductRepository{Products: products}
	probe := &StubProbe{Online: online}
	log := logger.NewNop()

	if !online {
		require.NoError(t, store.Set(localstore.KeyProducts, products))
	}

	prodUC := produsecase.NewProductUseCase(prodRepo, store, probe, log)
	engine := invusecase.NewStockEngine(prodUC, prodRepo, store, probe, log)
	uc := NewCoordinator(sales, engine, prodUC, store, probe, log)

	return &checkoutFixture{sales: sales, products: prodRepo, store: store, probe: probe, uc: uc}
}
