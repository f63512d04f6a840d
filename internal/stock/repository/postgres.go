package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/stock/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByProduct(ctx context.Context, productID, sellerID string) (*model.Stock, error) {
	var st model.Stock
	query := `SELECT * FROM stocks WHERE product_id = $1 AND seller_id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &st, query, productID, sellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // caller decides whether absence is an error
		}
		return nil, err
	}
	return &st, nil
}

func (r *PGRepository) BatchGetByProducts(ctx context.Context, sellerID string, productIDs []string) ([]model.Stock, error) {
	if len(productIDs) == 0 {
		return []model.Stock{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT * FROM stocks
        WHERE seller_id = ? AND product_id IN (?)
    `, sellerID, productIDs)
	if err != nil {
		return nil, err
	}

	// Rebind for Postgres ($1, $2...)
	query = r.DB.Rebind(query)

	var items []model.Stock
	err = r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) GetBySeller(ctx context.Context, sellerID string) ([]model.Stock, error) {
	var items []model.Stock
	query := `SELECT * FROM stocks WHERE seller_id = $1 ORDER BY updated_at DESC`
	err := r.DB.SelectContext(ctx, &items, query, sellerID)
	return items, err
}

func (r *PGRepository) SaveWithHistory(ctx context.Context, st *model.Stock, history *model.StockHistory) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsertQuery := `
        INSERT INTO stocks (id, product_id, seller_id, quantity, created_at, updated_at)
        VALUES (:id, :product_id, :seller_id, :quantity, :created_at, :updated_at)
        ON CONFLICT (product_id, seller_id)
        DO UPDATE SET
            quantity = EXCLUDED.quantity,
            updated_at = EXCLUDED.updated_at
    `
	if _, err = tx.NamedExecContext(ctx, upsertQuery, st); err != nil {
		return errors.Wrap(err, "failed to update stock")
	}

	insertHistoryQuery := `
        INSERT INTO stock_histories (id, stock_id, delta, action, seller_id, admin_id, pos_id, created_at)
        VALUES (:id, :stock_id, :delta, :action, :seller_id, :admin_id, :pos_id, :created_at)
    `
	if _, err = tx.NamedExecContext(ctx, insertHistoryQuery, history); err != nil {
		return errors.Wrap(err, "failed to append stock history")
	}

	return tx.Commit()
}

func (r *PGRepository) ListHistories(ctx context.Context, f *dto.HistoryFilters) ([]model.StockHistory, int, error) {
	var items []model.StockHistory
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SellerID != "" {
		conditions = append(conditions, "seller_id = :seller_id")
		args["seller_id"] = f.SellerID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "stock_id IN (SELECT id FROM stocks WHERE product_id = :product_id)")
		args["product_id"] = f.ProductID
	}
	if f.Action != "" {
		conditions = append(conditions, "action = :action")
		args["action"] = f.Action
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_histories" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	// Oldest first, for display as a running ledger.
	query := "SELECT * FROM stock_histories" + whereClause + " ORDER BY created_at ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
