package dto

import "github.com/shopspring/decimal"

type CreateItemInput struct {
	SKU             string           `json:"sku" binding:"required"`
	Name            string           `json:"name" binding:"required"`
	Unit            string           `json:"unit" binding:"required"`
	CurrentStock    decimal.Decimal  `json:"current_stock"`
	MinimumStock    decimal.Decimal  `json:"minimum_stock"`
	MaximumStock    *decimal.Decimal `json:"maximum_stock"`
	ReorderPoint    *decimal.Decimal `json:"reorder_point"`
	ReorderQuantity *decimal.Decimal `json:"reorder_quantity"`
	LeadTimeDays    *int             `json:"lead_time_days"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
	SupplierID      *string          `json:"supplier_id"`
	AutoReorder     bool             `json:"auto_reorder"`
}

type UpdateItemInput struct {
	Name            *string          `json:"name"`
	Unit            *string          `json:"unit"`
	MinimumStock    *decimal.Decimal `json:"minimum_stock"`
	MaximumStock    *decimal.Decimal `json:"maximum_stock"`
	ReorderPoint    *decimal.Decimal `json:"reorder_point"`
	ReorderQuantity *decimal.Decimal `json:"reorder_quantity"`
	LeadTimeDays    *int             `json:"lead_time_days"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	SupplierID      *string          `json:"supplier_id"`
	AutoReorder     *bool            `json:"auto_reorder"`
	IsActive        *bool            `json:"is_active"`
}

// AdjustStockInput applies one stock movement. For "in" and "out" Quantity is
// the positive magnitude moved; for "adjustment" it is the new absolute level.
type AdjustStockInput struct {
	TenantID        string
	ItemID          string
	TransactionType string          `json:"transaction_type" binding:"required,oneof=in out adjustment transfer"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Notes           string          `json:"notes"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id"`
	CreatedBy       string          `json:"-"`
}
