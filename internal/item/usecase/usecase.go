package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/washlane/inventory-service/config"
	"github.com/washlane/inventory-service/internal/item"
	"github.com/washlane/inventory-service/internal/item/dto"
	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/pkg/cache"
	"github.com/washlane/inventory-service/pkg/logger"
	"github.com/washlane/inventory-service/pkg/search"
)

const itemIndex = "inventory_items"

type itemUseCase struct {
	repo   item.Repository
	cache  cache.Locker
	es     *search.Client
	cfg    *config.ReorderConfig
	logger logger.ZapLogger
}

func NewItemUseCase(repo item.Repository, cache cache.Locker, es *search.Client, cfg *config.ReorderConfig, log logger.ZapLogger) item.UseCase {
	return &itemUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		cfg:    cfg,
		logger: log,
	}
}

func (uc *itemUseCase) CreateItem(ctx context.Context, tenantID string, input *dto.CreateItemInput) (*model.InventoryItem, error) {
	unique, err := uc.repo.IsSKUUnique(ctx, tenantID, input.SKU, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, item.ErrSKUExists
	}

	if input.CurrentStock.IsNegative() || input.MinimumStock.IsNegative() {
		return nil, item.ErrInvalidQuantity
	}

	now := time.Now()
	leadTime := uc.cfg.DefaultLeadTimeDays
	if input.LeadTimeDays != nil {
		leadTime = *input.LeadTimeDays
	}

	it := &model.InventoryItem{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:     tenantID,
		SKU:          input.SKU,
		Name:         input.Name,
		Unit:         input.Unit,
		CurrentStock: input.CurrentStock,
		MinimumStock: input.MinimumStock,
		LeadTimeDays: leadTime,
		UnitCost:     input.UnitCost,
		SupplierID:   input.SupplierID,
		AutoReorder:  input.AutoReorder,
		IsActive:     true,
	}
	it.MaximumStock = toNullDecimal(input.MaximumStock)
	it.ReorderPoint = toNullDecimal(input.ReorderPoint)
	it.ReorderQuantity = toNullDecimal(input.ReorderQuantity)

	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	go uc.syncToElastic(context.Background(), it)

	return it, nil
}

func (uc *itemUseCase) UpdateItem(ctx context.Context, tenantID, id string, input *dto.UpdateItemInput) (*model.InventoryItem, error) {
	it, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, item.ErrNotFound
	}

	if input.Name != nil {
		it.Name = *input.Name
	}
	if input.Unit != nil {
		it.Unit = *input.Unit
	}
	if input.MinimumStock != nil {
		if input.MinimumStock.IsNegative() {
			return nil, item.ErrInvalidQuantity
		}
		it.MinimumStock = *input.MinimumStock
	}
	if input.MaximumStock != nil {
		it.MaximumStock = decimal.NullDecimal{Decimal: *input.MaximumStock, Valid: true}
	}
	if input.ReorderPoint != nil {
		it.ReorderPoint = decimal.NullDecimal{Decimal: *input.ReorderPoint, Valid: true}
	}
	if input.ReorderQuantity != nil {
		it.ReorderQuantity = decimal.NullDecimal{Decimal: *input.ReorderQuantity, Valid: true}
	}
	if input.LeadTimeDays != nil {
		it.LeadTimeDays = *input.LeadTimeDays
	}
	if input.UnitCost != nil {
		it.UnitCost = *input.UnitCost
	}
	if input.SupplierID != nil {
		it.SupplierID = input.SupplierID
	}
	if input.AutoReorder != nil {
		it.AutoReorder = *input.AutoReorder
	}
	if input.IsActive != nil {
		it.IsActive = *input.IsActive
	}
	it.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, it); err != nil {
		return nil, err
	}

	go uc.syncToElastic(context.Background(), it)

	return it, nil
}

func (uc *itemUseCase) GetItem(ctx context.Context, tenantID, id string) (*model.InventoryItem, error) {
	it, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, item.ErrNotFound
	}
	return it, nil
}

func (uc *itemUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *itemUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryItem, error) {
	// Serialize movements per item so two concurrent adjustments cannot both
	// read the same stock_before.
	lockKey := fmt.Sprintf("lock:item:%s:%s", input.TenantID, input.ItemID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, item.ErrLockBusy
	}
	defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)

	it, err := uc.repo.FindByID(ctx, input.TenantID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, item.ErrNotFound
	}

	stockBefore := it.CurrentStock

	switch input.TransactionType {
	case model.TxTypeIn:
		if !input.Quantity.IsPositive() {
			return nil, item.ErrInvalidQuantity
		}
		it.CurrentStock = it.CurrentStock.Add(input.Quantity)
	case model.TxTypeOut, model.TxTypeTransfer:
		if !input.Quantity.IsPositive() {
			return nil, item.ErrInvalidQuantity
		}
		// Stock may never go negative through a movement. Backorders are not
		// represented as negative stock.
		if input.Quantity.GreaterThan(it.CurrentStock) {
			return nil, item.ErrInsufficientStock
		}
		it.CurrentStock = it.CurrentStock.Sub(input.Quantity)
	case model.TxTypeAdjustment:
		// Adjustment sets the absolute level.
		if input.Quantity.IsNegative() {
			return nil, item.ErrInvalidQuantity
		}
		it.CurrentStock = input.Quantity
	default:
		return nil, item.ErrInvalidQuantity
	}

	now := time.Now()
	it.UpdatedAt = now

	var refID *string
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}
	var refType *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}
	var createdBy *string
	if input.CreatedBy != "" {
		createdBy = &input.CreatedBy
	}

	txn := &model.InventoryTransaction{
		ID:              uuid.New().String(),
		TenantID:        input.TenantID,
		ItemID:          input.ItemID,
		TransactionType: input.TransactionType,
		Quantity:        input.Quantity,
		StockBefore:     stockBefore,
		StockAfter:      it.CurrentStock,
		ReferenceType:   refType,
		ReferenceID:     refID,
		Notes:           input.Notes,
		CreatedBy:       createdBy,
		CreatedAt:       now,
	}

	if err := uc.repo.AdjustStockWithTransaction(ctx, it, txn); err != nil {
		return nil, err
	}

	return it, nil
}

func (uc *itemUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	return uc.repo.ListTransactions(ctx, filters)
}

func (uc *itemUseCase) SearchItems(ctx context.Context, tenantID, query string, size int) ([]model.InventoryItem, error) {
	if uc.es == nil {
		// Degraded mode: fall back to a LIKE scan on the store.
		items, _, err := uc.repo.FindAll(ctx, &dto.ItemFilters{
			TenantID: tenantID,
			Search:   query,
			Page:     1,
			PageSize: size,
		})
		return items, err
	}

	if size <= 0 {
		size = 20
	}
	esQuery := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"tenant_id": tenantID}},
				},
				"must": []interface{}{
					map[string]interface{}{"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"name", "sku"},
					}},
				},
			},
		},
	}

	sources, err := uc.es.Search(ctx, itemIndex, esQuery)
	if err != nil {
		return nil, err
	}

	items := make([]model.InventoryItem, 0, len(sources))
	for _, src := range sources {
		var it model.InventoryItem
		if err := json.Unmarshal(src, &it); err != nil {
			uc.logger.Warn("failed to decode search hit", zap.Error(err))
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func (uc *itemUseCase) syncToElastic(ctx context.Context, it *model.InventoryItem) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"tenant_id": { "type": "keyword" },
				"sku": { "type": "keyword" },
				"name": { "type": "text" },
				"unit": { "type": "keyword" },
				"auto_reorder": { "type": "boolean" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, itemIndex, mapping)

	if err := uc.es.Index(ctx, itemIndex, it.ID, it); err != nil {
		uc.logger.Error("failed to index inventory item", zap.Error(err))
	}
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
