package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/internal/purchaseorder"
	"github.com/washlane/inventory-service/internal/purchaseorder/dto"
	"github.com/washlane/inventory-service/pkg/logger"
)

// validTransitions enumerates the status lifecycle. received and cancelled
// are terminal; auto-generated orders always start as draft and only a human
// moves them forward.
var validTransitions = map[string][]string{
	model.POStatusDraft:     {model.POStatusSent, model.POStatusCancelled},
	model.POStatusSent:      {model.POStatusConfirmed, model.POStatusCancelled},
	model.POStatusConfirmed: {model.POStatusReceived, model.POStatusCancelled},
}

type poUseCase struct {
	repo   purchaseorder.Repository
	logger logger.ZapLogger
}

func NewPurchaseOrderUseCase(repo purchaseorder.Repository, log logger.ZapLogger) purchaseorder.UseCase {
	return &poUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *poUseCase) CreateOrder(ctx context.Context, tenantID string, input *dto.CreatePOInput) (*model.PurchaseOrder, error) {
	now := time.Now()
	po := &model.PurchaseOrder{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:      tenantID,
		SupplierID:    input.SupplierID,
		Status:        model.POStatusDraft,
		AutoGenerated: false,
		Notes:         input.Notes,
	}

	total := decimal.Zero
	for _, line := range input.Lines {
		lineTotal := line.Quantity.Mul(line.UnitPrice)
		po.Items = append(po.Items, model.PurchaseOrderItem{
			ID:               uuid.New().String(),
			PurchaseOrderID:  po.ID,
			TenantID:         tenantID,
			ItemID:           line.ItemID,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			TotalPrice:       lineTotal,
			ReceivedQuantity: decimal.Zero,
			Outstanding:      true,
			AutoGenerated:    false,
		})
		total = total.Add(lineTotal)
	}
	po.TotalAmount = total

	if err := uc.repo.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (uc *poUseCase) GetOrder(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error) {
	po, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, purchaseorder.ErrNotFound
	}
	return po, nil
}

func (uc *poUseCase) ListOrders(ctx context.Context, filters *dto.POFilters) ([]model.PurchaseOrder, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *poUseCase) UpdateStatus(ctx context.Context, tenantID, id, status string) (*model.PurchaseOrder, error) {
	po, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, purchaseorder.ErrNotFound
	}

	allowed := false
	for _, next := range validTransitions[po.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, purchaseorder.ErrInvalidTransition
	}

	if err := uc.repo.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	return uc.repo.FindByID(ctx, tenantID, id)
}
