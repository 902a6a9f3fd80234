package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked consumable owned by one tenant. Stock levels and
// thresholds are decimals because laundry supplies are often measured in
// fractional units (liters, kilograms).
type InventoryItem struct {
	BaseModel
	TenantID         string              `db:"tenant_id" json:"tenant_id"`
	SKU              string              `db:"sku" json:"sku"`
	Name             string              `db:"name" json:"name"`
	Unit             string              `db:"unit" json:"unit"`
	CurrentStock     decimal.Decimal     `db:"current_stock" json:"current_stock"`
	MinimumStock     decimal.Decimal     `db:"minimum_stock" json:"minimum_stock"`
	MaximumStock     decimal.NullDecimal `db:"maximum_stock" json:"maximum_stock"`
	ReorderPoint     decimal.NullDecimal `db:"reorder_point" json:"reorder_point"`
	ReorderQuantity  decimal.NullDecimal `db:"reorder_quantity" json:"reorder_quantity"`
	AverageUsageRate decimal.NullDecimal `db:"average_usage_rate" json:"average_usage_rate"`
	LeadTimeDays     int                 `db:"lead_time_days" json:"lead_time_days"`
	UnitCost         decimal.Decimal     `db:"unit_cost" json:"unit_cost"`
	SupplierID       *string             `db:"supplier_id" json:"supplier_id"`
	AutoReorder      bool                `db:"auto_reorder" json:"auto_reorder"`
	LastReorderDate  *time.Time          `db:"last_reorder_date" json:"last_reorder_date"`
	IsActive         bool                `db:"is_active" json:"is_active"`
}

// ReorderThreshold is the level at or below which the item should be
// replenished: the configured reorder point, or minimum stock when no reorder
// point is set.
func (i *InventoryItem) ReorderThreshold() decimal.Decimal {
	if i.ReorderPoint.Valid {
		return i.ReorderPoint.Decimal
	}
	return i.MinimumStock
}

// BelowThreshold reports whether the item is at or under its reorder
// threshold. The comparison is inclusive: stock exactly at the threshold
// triggers replenishment.
func (i *InventoryItem) BelowThreshold() bool {
	return i.CurrentStock.LessThanOrEqual(i.ReorderThreshold())
}

const (
	TxTypeIn         = "in"
	TxTypeOut        = "out"
	TxTypeAdjustment = "adjustment"
	TxTypeTransfer   = "transfer"
)

// InventoryTransaction is an immutable stock movement record. Rows are only
// ever appended; the usage-rate estimator reads them as history.
type InventoryTransaction struct {
	ID              string          `db:"id" json:"id"`
	TenantID        string          `db:"tenant_id" json:"tenant_id"`
	ItemID          string          `db:"item_id" json:"item_id"`
	TransactionType string          `db:"transaction_type" json:"transaction_type"`
	Quantity        decimal.Decimal `db:"quantity" json:"quantity"`
	StockBefore     decimal.Decimal `db:"stock_before" json:"stock_before"`
	StockAfter      decimal.Decimal `db:"stock_after" json:"stock_after"`
	ReferenceType   *string         `db:"reference_type" json:"reference_type"`
	ReferenceID     *string         `db:"reference_id" json:"reference_id"`
	Notes           string          `db:"notes" json:"notes"`
	CreatedBy       *string         `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
