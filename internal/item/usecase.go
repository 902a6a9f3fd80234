package item

import (
	"context"

	"github.com/washlane/inventory-service/internal/item/dto"
	"github.com/washlane/inventory-service/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, tenantID string, input *dto.CreateItemInput) (*model.InventoryItem, error)
	UpdateItem(ctx context.Context, tenantID, id string, input *dto.UpdateItemInput) (*model.InventoryItem, error)
	GetItem(ctx context.Context, tenantID, id string) (*model.InventoryItem, error)
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error)
	SearchItems(ctx context.Context, tenantID, query string, size int) ([]model.InventoryItem, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryItem, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
}
