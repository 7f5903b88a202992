package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/product"
	"github.com/fekuna/omnipos-terminal/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	query := `SELECT * FROM products ORDER BY created_at DESC`
	if err := r.DB.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) Insert(ctx context.Context, p *model.Product) (*model.Product, error) {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
        INSERT INTO products (name, price, stock, barcode, category, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING *
    `
	var row model.Product
	err := r.DB.GetContext(ctx, &row, query,
		p.Name, p.Price, p.Stock, p.Barcode, p.Category, createdAt)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *PGRepository) Update(ctx context.Context, id string, patch *dto.ProductPatch) (*model.Product, error) {
	sets := []string{}
	args := []interface{}{}

	addSet := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Price != nil {
		addSet("price", *patch.Price)
	}
	if patch.Stock != nil {
		addSet("stock", *patch.Stock)
	}
	if patch.Barcode != nil {
		addSet("barcode", *patch.Barcode)
	}
	if patch.Category != nil {
		addSet("category", *patch.Category)
	}

	if len(sets) == 0 {
		// Nothing to change; echo the current row.
		var row model.Product
		err := r.DB.GetContext(ctx, &row, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
		if err != nil {
			return nil, err
		}
		return &row, nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d RETURNING *",
		strings.Join(sets, ", "), len(args))

	var row model.Product
	err := r.DB.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s not found", id)
		}
		return nil, err
	}
	return &row, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *PGRepository) UpdateStock(ctx context.Context, id string, stock int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE products SET stock = $1 WHERE id = $2`, stock, id)
	return err
}

func (r *PGRepository) DeductStock(ctx context.Context, items []dto.StockDeduction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
	`

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}

		res, err := tx.ExecContext(ctx, query, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return fmt.Errorf("%w: product %s", product.ErrStockConflict, item.ProductID)
		}
	}

	return tx.Commit()
}
