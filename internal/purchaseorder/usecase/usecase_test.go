package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/internal/purchaseorder"
	"github.com/washlane/inventory-service/internal/purchaseorder/dto"
	"github.com/washlane/inventory-service/pkg/logger"
)

type fakePORepo struct {
	orders map[string]*model.PurchaseOrder
	seq    int
}

func newFakePORepo() *fakePORepo {
	return &fakePORepo{orders: map[string]*model.PurchaseOrder{}}
}

func (r *fakePORepo) Create(_ context.Context, po *model.PurchaseOrder) error {
	r.seq++
	po.OrderNumber = fmt.Sprintf("PO-%06d", r.seq)
	copied := *po
	r.orders[po.ID] = &copied
	return nil
}

func (r *fakePORepo) FindByID(_ context.Context, tenantID, id string) (*model.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok || po.TenantID != tenantID {
		return nil, nil
	}
	copied := *po
	return &copied, nil
}

func (r *fakePORepo) FindAll(_ context.Context, f *dto.POFilters) ([]model.PurchaseOrder, int, error) {
	var out []model.PurchaseOrder
	for _, po := range r.orders {
		if po.TenantID == f.TenantID {
			out = append(out, *po)
		}
	}
	return out, len(out), nil
}

func (r *fakePORepo) UpdateStatus(_ context.Context, tenantID, id, status string) error {
	po, ok := r.orders[id]
	if !ok || po.TenantID != tenantID {
		return purchaseorder.ErrNotFound
	}
	po.Status = status
	if !model.IsOutstandingStatus(status) {
		for i := range po.Items {
			po.Items[i].Outstanding = false
		}
	}
	return nil
}

func (r *fakePORepo) FindOutstandingItemIDs(_ context.Context, _ string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestUseCase(repo *fakePORepo) purchaseorder.UseCase {
	return NewPurchaseOrderUseCase(repo, logger.NewNop())
}

func TestCreateOrder_ComputesTotals(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)

	po, err := uc.CreateOrder(context.Background(), "t1", &dto.CreatePOInput{
		SupplierID: "sup-1",
		Lines: []dto.CreatePOLineInput{
			{ItemID: "item-1", Quantity: dec(10), UnitPrice: dec(3)},
			{ItemID: "item-2", Quantity: dec(2), UnitPrice: dec(5)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.POStatusDraft, po.Status)
	assert.False(t, po.AutoGenerated)
	assert.Equal(t, "PO-000001", po.OrderNumber)
	assert.True(t, po.TotalAmount.Equal(dec(40)))
	require.Len(t, po.Items, 2)
	assert.True(t, po.Items[0].TotalPrice.Equal(dec(30)))
	assert.True(t, po.Items[0].Outstanding)
	assert.False(t, po.Items[0].AutoGenerated)
}

func TestCreateOrder_SequentialOrderNumbers(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)

	input := &dto.CreatePOInput{
		SupplierID: "sup-1",
		Lines:      []dto.CreatePOLineInput{{ItemID: "item-1", Quantity: dec(1), UnitPrice: dec(1)}},
	}
	first, err := uc.CreateOrder(context.Background(), "t1", input)
	require.NoError(t, err)
	second, err := uc.CreateOrder(context.Background(), "t1", input)
	require.NoError(t, err)

	assert.Equal(t, "PO-000001", first.OrderNumber)
	assert.Equal(t, "PO-000002", second.OrderNumber)
}

func createDraft(t *testing.T, uc purchaseorder.UseCase, tenantID string) *model.PurchaseOrder {
	t.Helper()
	po, err := uc.CreateOrder(context.Background(), tenantID, &dto.CreatePOInput{
		SupplierID: "sup-1",
		Lines:      []dto.CreatePOLineInput{{ItemID: "item-1", Quantity: dec(5), UnitPrice: dec(2)}},
	})
	require.NoError(t, err)
	return po
}

func TestUpdateStatus_DraftToSent(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)
	po := createDraft(t, uc, "t1")

	updated, err := uc.UpdateStatus(context.Background(), "t1", po.ID, model.POStatusSent)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusSent, updated.Status)
}

func TestUpdateStatus_FullLifecycle(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)
	po := createDraft(t, uc, "t1")

	for _, status := range []string{model.POStatusSent, model.POStatusConfirmed, model.POStatusReceived} {
		_, err := uc.UpdateStatus(context.Background(), "t1", po.ID, status)
		require.NoError(t, err, "transition to %s", status)
	}

	final := repo.orders[po.ID]
	assert.Equal(t, model.POStatusReceived, final.Status)
	assert.False(t, final.Items[0].Outstanding, "received orders no longer block auto reordering")
}

func TestUpdateStatus_RejectsSkippingStates(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)
	po := createDraft(t, uc, "t1")

	_, err := uc.UpdateStatus(context.Background(), "t1", po.ID, model.POStatusReceived)
	assert.ErrorIs(t, err, purchaseorder.ErrInvalidTransition)
}

func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)
	po := createDraft(t, uc, "t1")

	_, err := uc.UpdateStatus(context.Background(), "t1", po.ID, model.POStatusCancelled)
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), "t1", po.ID, model.POStatusSent)
	assert.ErrorIs(t, err, purchaseorder.ErrInvalidTransition)
}

func TestUpdateStatus_CancelClearsOutstanding(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)
	po := createDraft(t, uc, "t1")

	_, err := uc.UpdateStatus(context.Background(), "t1", po.ID, model.POStatusCancelled)
	require.NoError(t, err)
	assert.False(t, repo.orders[po.ID].Items[0].Outstanding)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)

	_, err := uc.UpdateStatus(context.Background(), "t1", "nope", model.POStatusSent)
	assert.ErrorIs(t, err, purchaseorder.ErrNotFound)
}

func TestGetOrder_TenantScoped(t *testing.T) {
	repo := newFakePORepo()
	uc := newTestUseCase(repo)
	po := createDraft(t, uc, "t1")

	_, err := uc.GetOrder(context.Background(), "t2", po.ID)
	assert.ErrorIs(t, err, purchaseorder.ErrNotFound)
}
