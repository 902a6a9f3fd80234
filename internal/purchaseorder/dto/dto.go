package dto

import "github.com/shopspring/decimal"

type POFilters struct {
	TenantID      string
	SupplierID    string
	Status        string
	AutoGenerated *bool
	Page          int
	PageSize      int
}

type CreatePOInput struct {
	SupplierID string              `json:"supplier_id" binding:"required"`
	Notes      string              `json:"notes"`
	Lines      []CreatePOLineInput `json:"lines" binding:"required,min=1,dive"`
}

type CreatePOLineInput struct {
	ItemID    string          `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required,oneof=draft sent confirmed received cancelled"`
}
