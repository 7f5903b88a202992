package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product"
	"github.com/fekuna/omnipos-terminal/internal/product/dto"
)

// MockRepository implements product.Repository for testing.
type MockRepository struct {
	Products []model.Product

	FindErr   error
	InsertErr error
	UpdateErr error
	DeleteErr error
	StockErr  error
	DeductErr error

	Inserted    []model.Product
	Deleted     []string
	StockWrites map[string]int
	Deductions  []dto.StockDeduction

	nextID int
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
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	m.nextID++
	row := *p
	row.ID = fmt.Sprintf("srv-%d", m.nextID)
	m.Inserted = append(m.Inserted, row)
	m.Products = append([]model.Product{row}, m.Products...)
	return &row, nil
}

func (m *MockRepository) Update(_ context.Context, id string, patch *dto.ProductPatch) (*model.Product, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	for i := range m.Products {
		if m.Products[i].ID == id {
			if patch.Name != nil {
				m.Products[i].Name = *patch.Name
			}
			if patch.Price != nil {
				m.Products[i].Price = *patch.Price
			}
			if patch.Stock != nil {
				m.Products[i].Stock = *patch.Stock
			}
			if patch.Barcode != nil {
				bc := *patch.Barcode
				m.Products[i].Barcode = &bc
			}
			if patch.Category != nil {
				cat := *patch.Category
				m.Products[i].Category = &cat
			}
			row := m.Products[i]
			return &row, nil
		}
	}
	return nil, errors.New("product not found")
}

func (m *MockRepository) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	kept := m.Products[:0]
	for _, p := range m.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.Products = kept
	return nil
}

func (m *MockRepository) UpdateStock(_ context.Context, id string, stock int) error {
	if m.StockErr != nil {
		return m.StockErr
	}
	if m.StockWrites == nil {
		m.StockWrites = map[string]int{}
	}
	m.StockWrites[id] = stock
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

func openTestStore(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.Open(filepath.Join(t.TempDir(), "terminal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
