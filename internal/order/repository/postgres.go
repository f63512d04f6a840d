package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/order/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertOrderQuery = `
    INSERT INTO orders (id, customer_id, seller_id, total_amount, sales_commission, status, created_at, updated_at)
    VALUES (:id, :customer_id, :seller_id, :total_amount, :sales_commission, :status, :created_at, :updated_at)
`

const insertDetailQuery = `
    INSERT INTO order_details (id, order_id, product_id, quantity, unit_price)
    VALUES (:id, :order_id, :product_id, :quantity, :unit_price)
`

const insertHistoryQuery = `
    INSERT INTO stock_histories (id, stock_id, delta, action, seller_id, admin_id, pos_id, created_at)
    VALUES (:id, :stock_id, :delta, :action, :seller_id, :admin_id, :pos_id, :created_at)
`

const insertCustomerQuery = `
    INSERT INTO customers (id, name, address, phone, email, created_at, updated_at)
    VALUES (:id, :name, :address, :phone, :email, :created_at, :updated_at)
`

func (r *PGRepository) CreateWithDetails(ctx context.Context, o *model.Order, cust *model.Customer, details []model.OrderDetail, histories []model.StockHistory) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if cust != nil {
		if _, err = tx.NamedExecContext(ctx, insertCustomerQuery, cust); err != nil {
			return errors.Wrap(err, "failed to insert customer")
		}
	}

	if _, err = tx.NamedExecContext(ctx, insertOrderQuery, o); err != nil {
		return errors.Wrap(err, "failed to insert order")
	}

	for _, d := range details {
		if _, err = tx.NamedExecContext(ctx, insertDetailQuery, d); err != nil {
			return errors.Wrap(err, "failed to insert order detail")
		}
	}

	if err = decrementStocks(ctx, tx, o, details); err != nil {
		return err
	}

	if err = appendHistories(ctx, tx, histories); err != nil {
		return err
	}

	return tx.Commit()
}

// decrementStocks applies one conditional decrement per line. The guard makes
// the whole transaction fail instead of ever committing a negative quantity,
// even when a concurrent sale won the race after validation.
func decrementStocks(ctx context.Context, tx *sqlx.Tx, o *model.Order, details []model.OrderDetail) error {
	const query = `
        UPDATE stocks
        SET quantity = quantity - $1, updated_at = $2
        WHERE product_id = $3 AND seller_id = $4 AND quantity >= $1
    `
	for _, d := range details {
		res, err := tx.ExecContext(ctx, query, d.Quantity, o.UpdatedAt, d.ProductID, o.SellerID)
		if err != nil {
			return errors.Wrap(err, "failed to decrement stock")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return errors.Wrapf(apperrors.ErrInsufficientStock, "product %s", d.ProductID)
		}
	}
	return nil
}

func restoreStocks(ctx context.Context, tx *sqlx.Tx, o *model.Order, restores []model.OrderDetail) error {
	const query = `
        UPDATE stocks
        SET quantity = quantity + $1, updated_at = $2
        WHERE product_id = $3 AND seller_id = $4
    `
	for _, d := range restores {
		if _, err := tx.ExecContext(ctx, query, d.Quantity, o.UpdatedAt, d.ProductID, o.SellerID); err != nil {
			return errors.Wrap(err, "failed to restore stock")
		}
	}
	return nil
}

func appendHistories(ctx context.Context, tx *sqlx.Tx, histories []model.StockHistory) error {
	for _, h := range histories {
		if _, err := tx.NamedExecContext(ctx, insertHistoryQuery, h); err != nil {
			return errors.Wrap(err, "failed to append stock history")
		}
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	query := `SELECT * FROM orders WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &o, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindDetails(ctx context.Context, orderID string) ([]model.OrderDetail, error) {
	var details []model.OrderDetail
	query := `SELECT * FROM order_details WHERE order_id = $1`
	err := r.DB.SelectContext(ctx, &details, query, orderID)
	return details, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SellerID != "" {
		conditions = append(conditions, "seller_id = :seller_id")
		args["seller_id"] = f.SellerID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM orders" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &orders, args)
	return orders, count, err
}

func (r *PGRepository) UpdateWithDetails(ctx context.Context, o *model.Order, restores, details []model.OrderDetail, histories []model.StockHistory) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateQuery := `
        UPDATE orders
        SET customer_id = :customer_id,
            total_amount = :total_amount,
            sales_commission = :sales_commission,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err = tx.NamedExecContext(ctx, updateQuery, o); err != nil {
		return errors.Wrap(err, "failed to update order")
	}

	// Return the previous lines to stock before deducting the new set, so a
	// line kept across the update only needs its delta to be available.
	if err = restoreStocks(ctx, tx, o, restores); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, o.ID); err != nil {
		return errors.Wrap(err, "failed to clear order details")
	}

	for _, d := range details {
		if _, err = tx.NamedExecContext(ctx, insertDetailQuery, d); err != nil {
			return errors.Wrap(err, "failed to insert order detail")
		}
	}

	if err = decrementStocks(ctx, tx, o, details); err != nil {
		return err
	}

	if err = appendHistories(ctx, tx, histories); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) DeleteWithRestore(ctx context.Context, o *model.Order, restores []model.OrderDetail, histories []model.StockHistory) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = restoreStocks(ctx, tx, o, restores); err != nil {
		return err
	}

	if err = appendHistories(ctx, tx, histories); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, o.ID); err != nil {
		return errors.Wrap(err, "failed to delete order details")
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, o.ID); err != nil {
		return errors.Wrap(err, "failed to delete order")
	}

	return tx.Commit()
}
