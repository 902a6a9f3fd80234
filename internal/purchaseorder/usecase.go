package purchaseorder

import (
	"context"

	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/internal/purchaseorder/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, tenantID string, input *dto.CreatePOInput) (*model.PurchaseOrder, error)
	GetOrder(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error)
	ListOrders(ctx context.Context, filters *dto.POFilters) ([]model.PurchaseOrder, int, error)
	UpdateStatus(ctx context.Context, tenantID, id, status string) (*model.PurchaseOrder, error)
}
