package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/inventory-service/config"
	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/internal/purchaseorder"
	"github.com/washlane/inventory-service/internal/reorder"
	"github.com/washlane/inventory-service/pkg/logger"
)

type outboundWindow struct {
	total decimal.Decimal
	count int
}

type fakeItemStore struct {
	items       map[string]*model.InventoryItem
	outbound    map[string]outboundWindow
	rates       map[string]decimal.Decimal
	lastReorder map[string]time.Time

	failFindBelow error
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{
		items:       map[string]*model.InventoryItem{},
		outbound:    map[string]outboundWindow{},
		rates:       map[string]decimal.Decimal{},
		lastReorder: map[string]time.Time{},
	}
}

func (s *fakeItemStore) add(it model.InventoryItem) {
	copied := it
	s.items[it.ID] = &copied
}

func (s *fakeItemStore) FindByID(_ context.Context, tenantID, id string) (*model.InventoryItem, error) {
	it, ok := s.items[id]
	if !ok || it.TenantID != tenantID {
		return nil, nil
	}
	copied := *it
	return &copied, nil
}

func (s *fakeItemStore) FindActive(_ context.Context, tenantID string) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, it := range s.items {
		if it.TenantID == tenantID && it.IsActive {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeItemStore) FindBelowReorderPoint(_ context.Context, tenantID string, limit int) ([]model.InventoryItem, error) {
	if s.failFindBelow != nil {
		return nil, s.failFindBelow
	}
	var out []model.InventoryItem
	for _, it := range s.items {
		if it.TenantID == tenantID && it.IsActive && it.AutoReorder && it.BelowThreshold() {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeItemStore) SumOutboundSince(_ context.Context, _, itemID string, _ time.Time) (decimal.Decimal, int, error) {
	w, ok := s.outbound[itemID]
	if !ok {
		return decimal.Zero, 0, nil
	}
	return w.total, w.count, nil
}

func (s *fakeItemStore) UpdateUsageRate(_ context.Context, _, itemID string, rate decimal.Decimal) error {
	s.rates[itemID] = rate
	if it, ok := s.items[itemID]; ok {
		it.AverageUsageRate = decimal.NullDecimal{Decimal: rate, Valid: true}
	}
	return nil
}

func (s *fakeItemStore) SetLastReorderDate(_ context.Context, _ string, itemIDs []string, at time.Time) error {
	for _, id := range itemIDs {
		s.lastReorder[id] = at
	}
	return nil
}

type fakeOrderStore struct {
	created         []model.PurchaseOrder
	outstanding     map[string]bool
	outstandingAuto map[string]bool
	failSuppliers   map[string]error
	// raceInsert commits a concurrent pass's lines right after the next
	// outstanding read, so that read is already stale.
	raceInsert map[string]bool
	seq        int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		outstanding:     map[string]bool{},
		outstandingAuto: map[string]bool{},
		failSuppliers:   map[string]error{},
	}
}

func (s *fakeOrderStore) Create(_ context.Context, po *model.PurchaseOrder) error {
	if err := s.failSuppliers[po.SupplierID]; err != nil {
		return err
	}
	for _, line := range po.Items {
		if line.AutoGenerated && line.Outstanding && s.outstandingAuto[line.ItemID] {
			return purchaseorder.ErrDuplicateOutstandingLine
		}
	}
	s.seq++
	po.OrderNumber = fmt.Sprintf("PO-%06d", s.seq)
	for _, line := range po.Items {
		s.outstanding[line.ItemID] = true
		if line.AutoGenerated {
			s.outstandingAuto[line.ItemID] = true
		}
	}
	s.created = append(s.created, *po)
	return nil
}

func (s *fakeOrderStore) FindOutstandingItemIDs(_ context.Context, _ string) (map[string]bool, error) {
	out := make(map[string]bool, len(s.outstanding))
	for k, v := range s.outstanding {
		out[k] = v
	}
	for id := range s.raceInsert {
		s.outstanding[id] = true
		s.outstandingAuto[id] = true
	}
	s.raceInsert = nil
	return out, nil
}

type fakeLocker struct {
	held map[string]bool
}

func (l *fakeLocker) AcquireLock(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) ReleaseLock(_ context.Context, key, _ string) error {
	delete(l.held, key)
	return nil
}

func testConfig() *config.ReorderConfig {
	return &config.ReorderConfig{
		UsageLookbackDays:   30,
		DefaultLeadTimeDays: 7,
		DefaultBatchQty:     10,
		MaxItemsPerPass:     1000,
	}
}

func newTestEngine(items *fakeItemStore, orders *fakeOrderStore, cfg *config.ReorderConfig) reorder.UseCase {
	if cfg == nil {
		cfg = testConfig()
	}
	return NewReorderUseCase(items, orders, &fakeLocker{}, cfg, logger.NewNop())
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func nullDec(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

func strPtr(s string) *string { return &s }

func autoItem(id, tenantID string, stock, reorderPoint int64, supplierID string) model.InventoryItem {
	it := model.InventoryItem{
		BaseModel:    model.BaseModel{ID: id},
		TenantID:     tenantID,
		SKU:          "SKU-" + id,
		Name:         "Item " + id,
		Unit:         "l",
		CurrentStock: dec(stock),
		MinimumStock: dec(1),
		ReorderPoint: nullDec(reorderPoint),
		UnitCost:     dec(3),
		AutoReorder:  true,
		IsActive:     true,
	}
	if supplierID != "" {
		it.SupplierID = strPtr(supplierID)
	}
	return it
}

func TestRunAutoReorder_CreatesDraftOrder(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	x := autoItem("item-x", "t1", 5, 10, "supplier-7")
	x.ReorderQuantity = nullDec(50)
	items.add(x)

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.CreatedCount)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.Errors)
	require.Len(t, result.PurchaseOrders, 1)

	po := result.PurchaseOrders[0]
	assert.Equal(t, "supplier-7", po.SupplierID)
	assert.Equal(t, model.POStatusDraft, po.Status)
	assert.True(t, po.AutoGenerated)
	require.Len(t, po.Items, 1)
	line := po.Items[0]
	assert.Equal(t, "item-x", line.ItemID)
	assert.True(t, line.Quantity.Equal(dec(50)), "quantity should be the configured reorder quantity")
	assert.True(t, line.Outstanding)
	assert.True(t, line.AutoGenerated)
	assert.True(t, po.TotalAmount.Equal(dec(150)), "total should be qty * unit cost")

	_, stamped := items.lastReorder["item-x"]
	assert.True(t, stamped, "last reorder date should be stamped")
}

func TestRunAutoReorder_InclusiveBoundary(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	// Stock exactly at the reorder point must trigger.
	items.add(autoItem("item-a", "t1", 10, 10, "sup-1"))

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
}

func TestRunAutoReorder_MinimumStockFallbackThreshold(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	it := autoItem("item-a", "t1", 2, 0, "sup-1")
	it.ReorderPoint = decimal.NullDecimal{} // unset: minimum stock is the threshold
	it.MinimumStock = dec(2)
	items.add(it)

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
}

func TestRunAutoReorder_ManualOnlyItemNeverOrdered(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	it := autoItem("item-manual", "t1", 0, 10, "sup-1")
	it.AutoReorder = false
	items.add(it)

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.CreatedCount)
	assert.Empty(t, result.Skipped)
	for _, po := range orders.created {
		for _, line := range po.Items {
			assert.NotEqual(t, "item-manual", line.ItemID)
		}
	}
}

func TestRunAutoReorder_GroupsBySupplier(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	items.add(autoItem("item-a", "t1", 1, 10, "sup-1"))
	items.add(autoItem("item-b", "t1", 2, 10, "sup-2"))
	items.add(autoItem("item-c", "t1", 3, 10, "sup-1"))

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	require.Equal(t, 2, result.CreatedCount)
	require.Len(t, result.PurchaseOrders, 2)

	// Suppliers are processed in sorted order.
	first, second := result.PurchaseOrders[0], result.PurchaseOrders[1]
	assert.Equal(t, "sup-1", first.SupplierID)
	assert.Equal(t, "sup-2", second.SupplierID)

	require.Len(t, first.Items, 2)
	assert.Equal(t, "item-a", first.Items[0].ItemID)
	assert.Equal(t, "item-c", first.Items[1].ItemID)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "item-b", second.Items[0].ItemID)
}

func TestRunAutoReorder_SecondPassIsIdempotent(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	x := autoItem("item-x", "t1", 5, 10, "supplier-7")
	x.ReorderQuantity = nullDec(50)
	items.add(x)

	engine := newTestEngine(items, orders, nil)

	first, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 1, first.CreatedCount)

	// No stock change, first order still outstanding.
	second, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedCount)
	assert.Empty(t, second.PurchaseOrders)
	require.Len(t, second.Skipped, 1)
	assert.Equal(t, "item-x", second.Skipped[0].ItemID)
	assert.Equal(t, reorder.SkipReasonDuplicate, second.Skipped[0].Reason)
}

func TestRunAutoReorder_NoSupplierSkipped(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	items.add(autoItem("item-orphan", "t1", 0, 10, ""))

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.CreatedCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, reorder.SkipReasonNoSupplier, result.Skipped[0].Reason)
}

func TestRunAutoReorder_PartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	items.add(autoItem("item-a", "t1", 1, 10, "sup-a"))
	items.add(autoItem("item-b", "t1", 1, 10, "sup-b"))
	orders.failSuppliers["sup-a"] = errors.New("constraint violation")

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.CreatedCount)
	require.Len(t, result.PurchaseOrders, 1)
	assert.Equal(t, "sup-b", result.PurchaseOrders[0].SupplierID)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "sup-a", result.Errors[0].SupplierID)
}

func TestRunAutoReorder_UniqueIndexConflictReportedAsDuplicate(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	items.add(autoItem("item-x", "t1", 1, 10, "sup-1"))
	// Another pass inserted its line after our outstanding check: the fake
	// simulates this by pre-marking the auto index without the lookup map.
	orders.outstandingAuto["item-x"] = true

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.CreatedCount)
	assert.Empty(t, result.Errors, "index conflict is not a user-facing failure")
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, reorder.SkipReasonDuplicate, result.Skipped[0].Reason)
}

func TestRunAutoReorder_IndexConflictSparesSiblings(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	a := autoItem("item-a", "t1", 1, 10, "sup-1")
	a.ReorderQuantity = nullDec(20)
	items.add(a)
	x := autoItem("item-x", "t1", 1, 10, "sup-1")
	x.ReorderQuantity = nullDec(30)
	items.add(x)

	// A concurrent pass orders item-x between our outstanding read and the
	// insert; only item-x is a duplicate, item-a still needs its order.
	orders.raceInsert = map[string]bool{"item-x": true}

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.CreatedCount)
	assert.Empty(t, result.Errors)
	require.Len(t, result.PurchaseOrders, 1)
	require.Len(t, result.PurchaseOrders[0].Items, 1)
	assert.Equal(t, "item-a", result.PurchaseOrders[0].Items[0].ItemID)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "item-x", result.Skipped[0].ItemID)
	assert.Equal(t, reorder.SkipReasonDuplicate, result.Skipped[0].Reason)

	_, stamped := items.lastReorder["item-a"]
	assert.True(t, stamped)
	_, stamped = items.lastReorder["item-x"]
	assert.False(t, stamped, "duplicate item must not be stamped")
}

func TestRunAutoReorder_BadLineDoesNotSinkSiblings(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	good := autoItem("item-good", "t1", 2, 10, "sup-1")
	good.ReorderQuantity = nullDec(25)
	items.add(good)
	// No reorder quantity, no maximum stock, and a zero default batch: the
	// quantity chain bottoms out at zero for this one.
	items.add(autoItem("item-bad", "t1", 2, 10, "sup-1"))

	cfg := testConfig()
	cfg.DefaultBatchQty = 0

	engine := newTestEngine(items, orders, cfg)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.CreatedCount)
	assert.Empty(t, result.Errors)
	require.Len(t, result.PurchaseOrders, 1)
	po := result.PurchaseOrders[0]
	require.Len(t, po.Items, 1)
	assert.Equal(t, "item-good", po.Items[0].ItemID)
	assert.True(t, po.Items[0].Quantity.Equal(dec(25)))

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "item-bad", result.Skipped[0].ItemID)
	assert.Equal(t, reorder.SkipReasonBadQuantity, result.Skipped[0].Reason)

	_, stamped := items.lastReorder["item-good"]
	assert.True(t, stamped)
	_, stamped = items.lastReorder["item-bad"]
	assert.False(t, stamped, "skipped item must not be stamped")
}

func TestRunAutoReorder_GroupWithNoOrderableLines(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	items.add(autoItem("item-bad", "t1", 2, 10, "sup-1"))

	cfg := testConfig()
	cfg.DefaultBatchQty = 0

	engine := newTestEngine(items, orders, cfg)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.CreatedCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, reorder.SkipReasonBadQuantity, result.Skipped[0].Reason)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "sup-1", result.Errors[0].SupplierID)
}

func TestRunAutoReorder_QuantityFallbackChain(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	explicit := autoItem("item-1", "t1", 2, 10, "sup-1")
	explicit.ReorderQuantity = nullDec(25)
	items.add(explicit)

	topUp := autoItem("item-2", "t1", 4, 10, "sup-1")
	topUp.MaximumStock = nullDec(60)
	items.add(topUp)

	fallback := autoItem("item-3", "t1", 0, 10, "sup-1")
	items.add(fallback)

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, result.PurchaseOrders, 1)

	lines := result.PurchaseOrders[0].Items
	require.Len(t, lines, 3)
	byItem := map[string]decimal.Decimal{}
	for _, l := range lines {
		byItem[l.ItemID] = l.Quantity
	}
	assert.True(t, byItem["item-1"].Equal(dec(25)), "explicit reorder quantity wins")
	assert.True(t, byItem["item-2"].Equal(dec(56)), "top-up to maximum stock: 60 - 4")
	assert.True(t, byItem["item-3"].Equal(dec(10)), "policy default batch")
}

func TestRunAutoReorder_PassLockBusy(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()
	items.add(autoItem("item-a", "t1", 1, 10, "sup-1"))

	locker := &fakeLocker{held: map[string]bool{"lock:reorder:t1": true}}
	engine := NewReorderUseCase(items, orders, locker, testConfig(), logger.NewNop())

	_, err := engine.RunAutoReorder(ctx, "t1")
	assert.ErrorIs(t, err, reorder.ErrPassInProgress)
}

func TestRunAutoReorder_PassCapTruncates(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	items.add(autoItem("item-1", "t1", 0, 10, "sup-1"))
	items.add(autoItem("item-2", "t1", 0, 10, "sup-1"))
	items.add(autoItem("item-3", "t1", 0, 10, "sup-1"))

	cfg := testConfig()
	cfg.MaxItemsPerPass = 2
	engine := newTestEngine(items, orders, cfg)

	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	assert.True(t, result.Truncated)
	require.Len(t, result.PurchaseOrders, 1)
	// Deterministic order means the first two ids are processed.
	require.Len(t, result.PurchaseOrders[0].Items, 2)
	assert.Equal(t, "item-1", result.PurchaseOrders[0].Items[0].ItemID)
	assert.Equal(t, "item-2", result.PurchaseOrders[0].Items[1].ItemID)
}

func TestRunAutoReorder_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	items.add(autoItem("item-a", "t1", 0, 10, "sup-1"))
	items.add(autoItem("item-b", "t2", 0, 10, "sup-1"))

	engine := newTestEngine(items, orders, nil)
	result, err := engine.RunAutoReorder(ctx, "t1")
	require.NoError(t, err)

	require.Len(t, result.PurchaseOrders, 1)
	require.Len(t, result.PurchaseOrders[0].Items, 1)
	assert.Equal(t, "item-a", result.PurchaseOrders[0].Items[0].ItemID)
}

func TestUpdateUsageRates_ComputesArithmeticMean(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	it := autoItem("item-a", "t1", 100, 10, "sup-1")
	items.add(it)
	// 600 units out over the 30-day window -> 20/day.
	items.outbound["item-a"] = outboundWindow{total: dec(600), count: 12}

	engine := newTestEngine(items, orders, nil)
	updated, err := engine.UpdateUsageRates(ctx, "t1", "")
	require.NoError(t, err)

	assert.Equal(t, 1, updated)
	assert.True(t, items.rates["item-a"].Equal(dec(20)))
}

func TestUpdateUsageRates_EmptyWindowLeavesRateUnchanged(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	orders := newFakeOrderStore()

	it := autoItem("item-a", "t1", 100, 10, "sup-1")
	it.AverageUsageRate = nullDec(7)
	items.add(it)

	engine := newTestEngine(items, orders, nil)
	updated, err := engine.UpdateUsageRates(ctx, "t1", "")
	require.NoError(t, err)

	assert.Equal(t, 0, updated)
	stored := items.items["item-a"].AverageUsageRate
	require.True(t, stored.Valid)
	assert.True(t, stored.Decimal.Equal(dec(7)), "rate must not be reset to zero")
}

func TestUpdateUsageRates_MissingItemSkipped(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(newFakeItemStore(), newFakeOrderStore(), nil)

	updated, err := engine.UpdateUsageRates(ctx, "t1", "no-such-item")
	require.NoError(t, err, "a missing item must not abort the pass")
	assert.Equal(t, 0, updated)
}

func TestUpdateUsageRates_SingleItem(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	items.add(autoItem("item-a", "t1", 100, 10, "sup-1"))
	items.add(autoItem("item-b", "t1", 100, 10, "sup-1"))
	items.outbound["item-a"] = outboundWindow{total: dec(90), count: 3}
	items.outbound["item-b"] = outboundWindow{total: dec(30), count: 1}

	engine := newTestEngine(items, newFakeOrderStore(), nil)
	updated, err := engine.UpdateUsageRates(ctx, "t1", "item-a")
	require.NoError(t, err)

	assert.Equal(t, 1, updated)
	assert.True(t, items.rates["item-a"].Equal(dec(3)))
	_, touched := items.rates["item-b"]
	assert.False(t, touched)
}

func TestReorderAlerts_SeparatesDetectionFromActionability(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()

	items.add(autoItem("item-a", "t1", 1, 10, "sup-1"))
	items.add(autoItem("item-b", "t1", 1, 10, ""))

	engine := newTestEngine(items, newFakeOrderStore(), nil)
	alerts, err := engine.ReorderAlerts(ctx, "t1")
	require.NoError(t, err)

	require.Len(t, alerts, 2)
	byItem := map[string]reorder.Alert{}
	for _, a := range alerts {
		byItem[a.Item.ID] = a
	}
	assert.True(t, byItem["item-a"].Actionable)
	assert.False(t, byItem["item-b"].Actionable, "item without supplier is alerted but unactionable")
	assert.True(t, byItem["item-a"].Threshold.Equal(dec(10)))
}

func TestReorderAlerts_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemStore()
	items.failFindBelow = errors.New("connection refused")

	engine := newTestEngine(items, newFakeOrderStore(), nil)
	_, err := engine.ReorderAlerts(ctx, "t1")
	assert.Error(t, err)
}
