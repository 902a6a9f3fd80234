package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/internal/supplier"
	"github.com/washlane/inventory-service/pkg/logger"
)

type supplierUseCase struct {
	repo   supplier.Repository
	logger logger.ZapLogger
}

func NewSupplierUseCase(repo supplier.Repository, log logger.ZapLogger) supplier.UseCase {
	return &supplierUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *supplierUseCase) CreateSupplier(ctx context.Context, tenantID string, input *supplier.CreateSupplierInput) (*model.Supplier, error) {
	now := time.Now()
	s := &model.Supplier{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:      tenantID,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		IsActive:      true,
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *supplierUseCase) GetSupplier(ctx context.Context, tenantID, id string) (*model.Supplier, error) {
	s, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, supplier.ErrNotFound
	}
	return s, nil
}

func (uc *supplierUseCase) ListSuppliers(ctx context.Context, tenantID string) ([]model.Supplier, error) {
	return uc.repo.FindAll(ctx, tenantID)
}
