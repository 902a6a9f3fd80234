package item

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/washlane/inventory-service/internal/item/dto"
	"github.com/washlane/inventory-service/internal/model"
)

type Repository interface {
	// Items
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, tenantID, id string) (*model.InventoryItem, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error)
	IsSKUUnique(ctx context.Context, tenantID, sku, excludeID string) (bool, error)

	// Reorder engine reads/writes
	FindBelowReorderPoint(ctx context.Context, tenantID string, limit int) ([]model.InventoryItem, error)
	FindActive(ctx context.Context, tenantID string) ([]model.InventoryItem, error)
	SumOutboundSince(ctx context.Context, tenantID, itemID string, since time.Time) (decimal.Decimal, int, error)
	UpdateUsageRate(ctx context.Context, tenantID, itemID string, rate decimal.Decimal) error
	SetLastReorderDate(ctx context.Context, tenantID string, itemIDs []string, at time.Time) error

	// Transactions (append-only)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)

	// Applies the stock change and the transaction log row atomically.
	AdjustStockWithTransaction(ctx context.Context, item *model.InventoryItem, txn *model.InventoryTransaction) error
}
