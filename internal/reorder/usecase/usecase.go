package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/washlane/inventory-service/config"
	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/internal/purchaseorder"
	"github.com/washlane/inventory-service/internal/reorder"
	"github.com/washlane/inventory-service/pkg/logger"
)

const passLockTTL = 30 * time.Second

type reorderUseCase struct {
	items  reorder.ItemStore
	orders reorder.OrderStore
	locker reorder.Locker
	cfg    *config.ReorderConfig
	logger logger.ZapLogger
}

func NewReorderUseCase(items reorder.ItemStore, orders reorder.OrderStore, locker reorder.Locker, cfg *config.ReorderConfig, log logger.ZapLogger) reorder.UseCase {
	return &reorderUseCase{
		items:  items,
		orders: orders,
		locker: locker,
		cfg:    cfg,
		logger: log,
	}
}

func (uc *reorderUseCase) RunAutoReorder(ctx context.Context, tenantID string) (*reorder.PassResult, error) {
	// One pass per tenant at a time. The lock is best effort: the partial
	// unique index on outstanding auto lines is the authoritative guard
	// against double-ordering when instances race.
	lockKey := "lock:reorder:" + tenantID
	lockValue := uuid.New().String()
	ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, passLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reorder.ErrPassInProgress
	}
	defer uc.locker.ReleaseLock(ctx, lockKey, lockValue)

	limit := uc.cfg.MaxItemsPerPass
	below, err := uc.items.FindBelowReorderPoint(ctx, tenantID, limit+1)
	if err != nil {
		return nil, err
	}

	result := &reorder.PassResult{
		PurchaseOrders: []model.PurchaseOrder{},
		Skipped:        []reorder.SkippedItem{},
		Errors:         []reorder.SupplierError{},
	}
	if limit > 0 && len(below) > limit {
		below = below[:limit]
		result.Truncated = true
	}
	if len(below) == 0 {
		return result, nil
	}

	outstanding, err := uc.orders.FindOutstandingItemIDs(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// Partition the below-threshold set: items already on an open order and
	// items without a supplier are reported, the rest grouped per supplier.
	// Items arrive ordered by id, so groups and skips are reproducible.
	groups := map[string][]model.InventoryItem{}
	for _, it := range below {
		switch {
		case outstanding[it.ID]:
			result.Skipped = append(result.Skipped, reorder.SkippedItem{
				ItemID: it.ID,
				Reason: reorder.SkipReasonDuplicate,
			})
		case it.SupplierID == nil || *it.SupplierID == "":
			result.Skipped = append(result.Skipped, reorder.SkippedItem{
				ItemID: it.ID,
				Reason: reorder.SkipReasonNoSupplier,
			})
		default:
			groups[*it.SupplierID] = append(groups[*it.SupplierID], it)
		}
	}

	supplierIDs := make([]string, 0, len(groups))
	for id := range groups {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Strings(supplierIDs)

	now := time.Now()
	for _, supplierID := range supplierIDs {
		uc.orderSupplierGroup(ctx, tenantID, supplierID, groups[supplierID], now, result, true)
	}

	return result, nil
}

// orderSupplierGroup builds and persists one supplier's draft order. Lines
// with unusable quantity data are skipped individually so they never sink
// their siblings.
func (uc *reorderUseCase) orderSupplierGroup(ctx context.Context, tenantID, supplierID string, items []model.InventoryItem, now time.Time, result *reorder.PassResult, retryOnConflict bool) {
	po, skipped := uc.buildDraftOrder(tenantID, supplierID, items, now)
	result.Skipped = append(result.Skipped, skipped...)
	if len(po.Items) == 0 {
		result.Errors = append(result.Errors, reorder.SupplierError{
			SupplierID: supplierID,
			Message:    "no orderable lines in group",
		})
		return
	}

	if err := uc.orders.Create(ctx, po); err != nil {
		// The unique index fired: another pass ordered at least one of these
		// items between our outstanding check and the insert.
		if errors.Is(err, purchaseorder.ErrDuplicateOutstandingLine) {
			uc.resolveOrderConflict(ctx, tenantID, supplierID, po, items, now, result, retryOnConflict)
			return
		}
		// One supplier's failure must not block the others.
		uc.logger.Error("failed to create auto purchase order",
			zap.String("tenant_id", tenantID),
			zap.String("supplier_id", supplierID),
			zap.Error(err),
		)
		result.Errors = append(result.Errors, reorder.SupplierError{
			SupplierID: supplierID,
			Message:    err.Error(),
		})
		return
	}

	result.PurchaseOrders = append(result.PurchaseOrders, *po)
	result.CreatedCount++

	orderedIDs := make([]string, len(po.Items))
	for i, line := range po.Items {
		orderedIDs[i] = line.ItemID
	}
	if err := uc.items.SetLastReorderDate(ctx, tenantID, orderedIDs, now); err != nil {
		uc.logger.Warn("failed to stamp last reorder date",
			zap.String("tenant_id", tenantID),
			zap.Strings("item_ids", orderedIDs),
			zap.Error(err),
		)
	}
}

// resolveOrderConflict handles a unique-index hit on insert. The tx rolled
// back every line, so only the items the racing pass actually ordered are
// duplicates; the rest get one retry on their own order.
func (uc *reorderUseCase) resolveOrderConflict(ctx context.Context, tenantID, supplierID string, po *model.PurchaseOrder, items []model.InventoryItem, now time.Time, result *reorder.PassResult, retry bool) {
	ordered := make(map[string]bool, len(po.Items))
	for _, line := range po.Items {
		ordered[line.ItemID] = true
	}

	var refreshed map[string]bool
	if retry {
		var err error
		refreshed, err = uc.orders.FindOutstandingItemIDs(ctx, tenantID)
		if err != nil {
			uc.logger.Warn("failed to re-read outstanding lines after index conflict",
				zap.String("tenant_id", tenantID),
				zap.Error(err),
			)
			retry = false
		}
	}
	if !retry {
		// Cannot tell which line collided; concede the group to the
		// racing pass.
		for _, it := range items {
			if ordered[it.ID] {
				result.Skipped = append(result.Skipped, reorder.SkippedItem{
					ItemID: it.ID,
					Reason: reorder.SkipReasonDuplicate,
				})
			}
		}
		return
	}

	var remaining []model.InventoryItem
	for _, it := range items {
		if !ordered[it.ID] {
			continue
		}
		if refreshed[it.ID] {
			result.Skipped = append(result.Skipped, reorder.SkippedItem{
				ItemID: it.ID,
				Reason: reorder.SkipReasonDuplicate,
			})
		} else {
			remaining = append(remaining, it)
		}
	}
	if len(remaining) == 0 {
		return
	}
	uc.orderSupplierGroup(ctx, tenantID, supplierID, remaining, now, result, false)
}

func (uc *reorderUseCase) buildDraftOrder(tenantID, supplierID string, items []model.InventoryItem, now time.Time) (*model.PurchaseOrder, []reorder.SkippedItem) {
	po := &model.PurchaseOrder{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:      tenantID,
		SupplierID:    supplierID,
		Status:        model.POStatusDraft,
		AutoGenerated: true,
		Notes:         "Auto-generated by reorder engine",
	}

	var skipped []reorder.SkippedItem
	total := decimal.Zero
	for _, it := range items {
		qty := uc.orderQuantity(&it)
		if !qty.IsPositive() {
			uc.logger.Warn("skipping line with non-positive order quantity",
				zap.String("tenant_id", tenantID),
				zap.String("item_id", it.ID),
			)
			skipped = append(skipped, reorder.SkippedItem{
				ItemID: it.ID,
				Reason: reorder.SkipReasonBadQuantity,
			})
			continue
		}
		lineTotal := qty.Mul(it.UnitCost)
		po.Items = append(po.Items, model.PurchaseOrderItem{
			ID:               uuid.New().String(),
			PurchaseOrderID:  po.ID,
			TenantID:         tenantID,
			ItemID:           it.ID,
			Quantity:         qty,
			UnitPrice:        it.UnitCost,
			TotalPrice:       lineTotal,
			ReceivedQuantity: decimal.Zero,
			Outstanding:      true,
			AutoGenerated:    true,
		})
		total = total.Add(lineTotal)
	}
	po.TotalAmount = total
	return po, skipped
}

// orderQuantity resolves the line quantity: the configured reorder quantity,
// else a top-up to maximum stock, else the policy default batch.
func (uc *reorderUseCase) orderQuantity(it *model.InventoryItem) decimal.Decimal {
	if it.ReorderQuantity.Valid && it.ReorderQuantity.Decimal.IsPositive() {
		return it.ReorderQuantity.Decimal
	}
	if it.MaximumStock.Valid && it.MaximumStock.Decimal.GreaterThan(it.CurrentStock) {
		return it.MaximumStock.Decimal.Sub(it.CurrentStock)
	}
	return decimal.NewFromInt(int64(uc.cfg.DefaultBatchQty))
}

func (uc *reorderUseCase) UpdateUsageRates(ctx context.Context, tenantID, itemID string) (int, error) {
	var items []model.InventoryItem

	if itemID != "" {
		it, err := uc.items.FindByID(ctx, tenantID, itemID)
		if err != nil {
			return 0, err
		}
		if it == nil {
			// Missing items are skipped, never fatal for the estimator.
			uc.logger.Warn("usage rate update skipped missing item",
				zap.String("tenant_id", tenantID),
				zap.String("item_id", itemID),
			)
			return 0, nil
		}
		items = []model.InventoryItem{*it}
	} else {
		var err error
		items, err = uc.items.FindActive(ctx, tenantID)
		if err != nil {
			return 0, err
		}
	}

	windowDays := uc.cfg.UsageLookbackDays
	if windowDays <= 0 {
		windowDays = 30
	}
	since := time.Now().AddDate(0, 0, -windowDays)

	updated := 0
	for _, it := range items {
		total, count, err := uc.items.SumOutboundSince(ctx, tenantID, it.ID, since)
		if err != nil {
			return updated, err
		}
		// No outbound history in the window: keep the previous rate rather
		// than resetting it to zero and suppressing future reorders.
		if count == 0 {
			continue
		}

		rate := total.Div(decimal.NewFromInt(int64(windowDays)))
		if err := uc.items.UpdateUsageRate(ctx, tenantID, it.ID, rate); err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}

func (uc *reorderUseCase) ReorderAlerts(ctx context.Context, tenantID string) ([]reorder.Alert, error) {
	below, err := uc.items.FindBelowReorderPoint(ctx, tenantID, uc.cfg.MaxItemsPerPass)
	if err != nil {
		return nil, err
	}

	alerts := make([]reorder.Alert, 0, len(below))
	for _, it := range below {
		alerts = append(alerts, reorder.Alert{
			Item:       it,
			Threshold:  it.ReorderThreshold(),
			Actionable: it.SupplierID != nil && *it.SupplierID != "",
		})
	}
	return alerts, nil
}
