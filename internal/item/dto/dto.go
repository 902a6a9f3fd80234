package dto

import "time"

type ItemFilters struct {
	TenantID    string
	SupplierID  string
	Search      string // matches name or SKU
	LowStock    bool   // current_stock <= COALESCE(reorder_point, minimum_stock)
	AutoReorder *bool
	ActiveOnly  bool
	Page        int
	PageSize    int
}

type TransactionFilters struct {
	TenantID        string
	ItemID          string
	TransactionType string
	StartDate       *time.Time
	EndDate         *time.Time
	Page            int
	PageSize        int
}
