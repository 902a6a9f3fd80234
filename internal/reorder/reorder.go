package reorder

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/washlane/inventory-service/internal/model"
)

// Skip reasons reported per item in a pass summary.
const (
	SkipReasonNoSupplier  = "no supplier"
	SkipReasonDuplicate   = "duplicate outstanding order"
	SkipReasonBadQuantity = "invalid order quantity"
)

// ErrPassInProgress means another invocation holds the per-tenant pass lock.
var ErrPassInProgress = errors.New("a reorder pass is already running for this tenant")

type SkippedItem struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

// SupplierError records a failure creating one supplier's order. Other
// suppliers in the same pass are unaffected.
type SupplierError struct {
	SupplierID string `json:"supplier_id"`
	Message    string `json:"message"`
}

// PassResult summarizes one auto-reorder invocation. A caller can distinguish
// full success (no Skipped, no Errors), partial success, and failure (the
// invocation itself errored and no PassResult is returned).
type PassResult struct {
	CreatedCount   int                   `json:"created_count"`
	PurchaseOrders []model.PurchaseOrder `json:"purchase_orders"`
	Skipped        []SkippedItem         `json:"skipped"`
	Errors         []SupplierError       `json:"errors"`
	// Truncated is set when the tenant had more below-threshold items than
	// the per-pass cap; the remainder is picked up by the next invocation.
	Truncated bool `json:"truncated"`
}

// Alert is one below-threshold item. Detection and actionability are separate
// concerns: an item without a supplier is alerted but never ordered.
type Alert struct {
	Item       model.InventoryItem `json:"item"`
	Threshold  decimal.Decimal     `json:"threshold"`
	Actionable bool                `json:"actionable"`
}

// ItemStore is the slice of the inventory store the engine reads and writes.
// Satisfied by the item repository.
type ItemStore interface {
	FindByID(ctx context.Context, tenantID, id string) (*model.InventoryItem, error)
	FindActive(ctx context.Context, tenantID string) ([]model.InventoryItem, error)
	FindBelowReorderPoint(ctx context.Context, tenantID string, limit int) ([]model.InventoryItem, error)
	SumOutboundSince(ctx context.Context, tenantID, itemID string, since time.Time) (decimal.Decimal, int, error)
	UpdateUsageRate(ctx context.Context, tenantID, itemID string, rate decimal.Decimal) error
	SetLastReorderDate(ctx context.Context, tenantID string, itemIDs []string, at time.Time) error
}

// OrderStore is the slice of the purchase-order store the engine uses.
// Satisfied by the purchase-order repository.
type OrderStore interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindOutstandingItemIDs(ctx context.Context, tenantID string) (map[string]bool, error)
}

// Locker serializes passes per tenant. Satisfied by the redis client.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type UseCase interface {
	// RunAutoReorder executes one synchronous pass for the tenant: evaluate
	// thresholds, group actionable items by supplier, create draft orders.
	RunAutoReorder(ctx context.Context, tenantID string) (*PassResult, error)
	// UpdateUsageRates recomputes average consumption for every active item,
	// or for a single item when itemID is non-empty. Returns the number of
	// items whose rate was written.
	UpdateUsageRates(ctx context.Context, tenantID, itemID string) (int, error)
	// ReorderAlerts returns the below-threshold set without creating orders.
	ReorderAlerts(ctx context.Context, tenantID string) ([]Alert, error)
}
