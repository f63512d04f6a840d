package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/seller/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Seller) error {
	query := `
        INSERT INTO sellers (id, name, username, email, phone, role, created_at, updated_at)
        VALUES (:id, :name, :username, :email, :phone, :role, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Seller, error) {
	var s model.Seller
	query := `SELECT * FROM sellers WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SellerFilters) ([]model.Seller, int, error) {
	var sellers []model.Seller
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Role != "" {
		conditions = append(conditions, "role = :role")
		args["role"] = f.Role
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR username ILIKE :search OR email ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM sellers" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM sellers" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &sellers, args)
	return sellers, count, err
}

func (r *PGRepository) Update(ctx context.Context, s *model.Seller) error {
	query := `
        UPDATE sellers
        SET name = :name,
            username = :username,
            email = :email,
            phone = :phone,
            role = :role,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sellers WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsUsernameUnique(ctx context.Context, username, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM sellers WHERE username = $1 AND id != $2`
	if err := r.DB.GetContext(ctx, &count, query, username, excludeID); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) IsEmailUnique(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM sellers WHERE email = $1 AND id != $2`
	if err := r.DB.GetContext(ctx, &count, query, email, excludeID); err != nil {
		return false, err
	}
	return count == 0, nil
}
