package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	query := `
        INSERT INTO transactions (total, cash_given, "change", status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.GetContext(ctx, &t.ID, query,
		t.Total, t.CashGiven, t.Change, t.Status, t.CreatedAt, t.UpdatedAt)
}

func (r *PGRepository) CreateItems(ctx context.Context, items []model.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
        INSERT INTO transaction_items (id, transaction_id, product_id, quantity, price)
        VALUES (:id, :transaction_id, :product_id, :quantity, :price)
    `
	_, err := r.DB.NamedExecContext(ctx, query, items)
	return err
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Transaction, error) {
	transactions := []model.Transaction{}
	query := `SELECT * FROM transactions ORDER BY created_at DESC`
	if err := r.DB.SelectContext(ctx, &transactions, query); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *PGRepository) FindItems(ctx context.Context, transactionID string) ([]model.TransactionItem, error) {
	items := []model.TransactionItem{}
	query := `SELECT * FROM transaction_items WHERE transaction_id = $1`
	if err := r.DB.SelectContext(ctx, &items, query, transactionID); err != nil {
		return nil, err
	}
	return items, nil
}
