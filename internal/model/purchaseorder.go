package model

import (
	"github.com/shopspring/decimal"
)

const (
	POStatusDraft     = "draft"
	POStatusSent      = "sent"
	POStatusConfirmed = "confirmed"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// OutstandingPOStatuses are the states in which an order still counts against
// new replenishment for its items.
var OutstandingPOStatuses = []string{POStatusDraft, POStatusSent, POStatusConfirmed}

// IsOutstandingStatus reports whether orders in the given status still count
// against new replenishment.
func IsOutstandingStatus(status string) bool {
	for _, s := range OutstandingPOStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Supplier struct {
	BaseModel
	TenantID      string  `db:"tenant_id" json:"tenant_id"`
	Name          string  `db:"name" json:"name"`
	ContactPerson *string `db:"contact_person" json:"contact_person"`
	Phone         *string `db:"phone" json:"phone"`
	Email         *string `db:"email" json:"email"`
	Address       *string `db:"address" json:"address"`
	IsActive      bool    `db:"is_active" json:"is_active"`
}

type PurchaseOrder struct {
	BaseModel
	TenantID      string              `db:"tenant_id" json:"tenant_id"`
	SupplierID    string              `db:"supplier_id" json:"supplier_id"`
	OrderNumber   string              `db:"order_number" json:"order_number"`
	Status        string              `db:"status" json:"status"`
	TotalAmount   decimal.Decimal     `db:"total_amount" json:"total_amount"`
	AutoGenerated bool                `db:"auto_generated" json:"auto_generated"`
	Notes         string              `db:"notes" json:"notes"`
	Items         []PurchaseOrderItem `db:"-" json:"items"`
}

type PurchaseOrderItem struct {
	ID               string          `db:"id" json:"id"`
	PurchaseOrderID  string          `db:"purchase_order_id" json:"purchase_order_id"`
	TenantID         string          `db:"tenant_id" json:"tenant_id"`
	ItemID           string          `db:"item_id" json:"item_id"`
	Quantity         decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice        decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice       decimal.Decimal `db:"total_price" json:"total_price"`
	ReceivedQuantity decimal.Decimal `db:"received_quantity" json:"received_quantity"`
	// Outstanding mirrors "parent order open and line not fully received".
	// It is denormalized onto the line so the partial unique index that
	// prevents double-ordering can see it.
	Outstanding   bool `db:"outstanding" json:"outstanding"`
	AutoGenerated bool `db:"auto_generated" json:"auto_generated"`
}
