package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/sellora/pos-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.PointOfSale) error {
	query := `
        INSERT INTO points_of_sale (id, name, address, phone, description, status, created_at, updated_at)
        VALUES (:id, :name, :address, :phone, :description, :status, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.PointOfSale, error) {
	var p model.PointOfSale
	query := `SELECT * FROM points_of_sale WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.PointOfSale, error) {
	var items []model.PointOfSale
	query := `SELECT * FROM points_of_sale ORDER BY name ASC`
	err := r.DB.SelectContext(ctx, &items, query)
	return items, err
}

func (r *PGRepository) Update(ctx context.Context, p *model.PointOfSale) error {
	query := `
        UPDATE points_of_sale
        SET name = :name,
            address = :address,
            phone = :phone,
            description = :description,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM points_of_sale WHERE id = $1", id)
	return err
}
