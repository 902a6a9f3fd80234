package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/washlane/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Supplier) error {
	query := `
        INSERT INTO suppliers (id, tenant_id, name, contact_person, phone, email, address, is_active, created_at, updated_at)
        VALUES (:id, :tenant_id, :name, :contact_person, :phone, :email, :address, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Supplier, error) {
	var s model.Supplier
	query := `SELECT * FROM suppliers WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, tenantID string) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	query := `SELECT * FROM suppliers WHERE tenant_id = $1 AND is_active = true ORDER BY name, id`
	err := r.DB.SelectContext(ctx, &suppliers, query, tenantID)
	return suppliers, err
}
