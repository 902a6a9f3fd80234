package supplier

import (
	"context"
	"errors"

	"github.com/washlane/inventory-service/internal/model"
)

var ErrNotFound = errors.New("supplier not found")

type CreateSupplierInput struct {
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
}

type Repository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Supplier, error)
	FindAll(ctx context.Context, tenantID string) ([]model.Supplier, error)
}

type UseCase interface {
	CreateSupplier(ctx context.Context, tenantID string, input *CreateSupplierInput) (*model.Supplier, error)
	GetSupplier(ctx context.Context, tenantID, id string) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, tenantID string) ([]model.Supplier, error)
}
