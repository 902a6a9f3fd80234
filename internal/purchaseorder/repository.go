package purchaseorder

import (
	"context"
	"errors"

	"github.com/washlane/inventory-service/internal/purchaseorder/dto"
	"github.com/washlane/inventory-service/internal/model"
)

var (
	ErrNotFound = errors.New("purchase order not found")
	// ErrDuplicateOutstandingLine is returned when the partial unique index
	// rejects an auto-generated line because another outstanding auto line
	// already covers the same item. Callers treat it as "already ordered",
	// not as a failure.
	ErrDuplicateOutstandingLine = errors.New("item already has an outstanding auto-generated order line")
	ErrInvalidTransition        = errors.New("invalid purchase order status transition")
)

type Repository interface {
	// Create inserts the header and all lines in one transaction and
	// allocates the per-tenant order number onto po.OrderNumber.
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error)
	FindAll(ctx context.Context, filters *dto.POFilters) ([]model.PurchaseOrder, int, error)
	// UpdateStatus transitions the order and, when the new status leaves the
	// outstanding set, clears the outstanding flag on its lines.
	UpdateStatus(ctx context.Context, tenantID, id, status string) error
	// FindOutstandingItemIDs returns the ids of items covered by an
	// un-received line on any order in draft/sent/confirmed.
	FindOutstandingItemIDs(ctx context.Context, tenantID string) (map[string]bool, error)
}
