package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/washlane/inventory-service/internal/model"
	"github.com/washlane/inventory-service/internal/purchaseorder"
	"github.com/washlane/inventory-service/internal/purchaseorder/dto"
)

const outstandingAutoIndex = "uq_po_items_outstanding_auto"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Per-tenant gapless sequence for order numbers.
	var seq int64
	err = tx.GetContext(ctx, &seq, `
        INSERT INTO purchase_order_counters (tenant_id, seq)
        VALUES ($1, 1)
        ON CONFLICT (tenant_id) DO UPDATE SET seq = purchase_order_counters.seq + 1
        RETURNING seq
    `, po.TenantID)
	if err != nil {
		return errors.Wrap(err, "poRepo.Create.allocateOrderNumber")
	}
	po.OrderNumber = fmt.Sprintf("PO-%06d", seq)

	headerQuery := `
        INSERT INTO purchase_orders (
            id, tenant_id, supplier_id, order_number, status,
            total_amount, auto_generated, notes, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :supplier_id, :order_number, :status,
            :total_amount, :auto_generated, :notes, :created_at, :updated_at
        )
    `
	if _, err = tx.NamedExecContext(ctx, headerQuery, po); err != nil {
		return errors.Wrap(err, "poRepo.Create.insertHeader")
	}

	lineQuery := `
        INSERT INTO purchase_order_items (
            id, purchase_order_id, tenant_id, item_id, quantity,
            unit_price, total_price, received_quantity, outstanding, auto_generated
        )
        VALUES (
            :id, :purchase_order_id, :tenant_id, :item_id, :quantity,
            :unit_price, :total_price, :received_quantity, :outstanding, :auto_generated
        )
    `
	for i := range po.Items {
		if _, err = tx.NamedExecContext(ctx, lineQuery, &po.Items[i]); err != nil {
			if isUniqueViolation(err, outstandingAutoIndex) {
				return purchaseorder.ErrDuplicateOutstandingLine
			}
			return errors.Wrap(err, "poRepo.Create.insertLine")
		}
	}

	return errors.Wrap(tx.Commit(), "poRepo.Create.commit")
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	query := `SELECT * FROM purchase_orders WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &po, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	lineQuery := `SELECT * FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY item_id`
	if err := r.DB.SelectContext(ctx, &po.Items, lineQuery, id); err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.POFilters) ([]model.PurchaseOrder, int, error) {
	var orders []model.PurchaseOrder
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.AutoGenerated != nil {
		conditions = append(conditions, "auto_generated = :auto_generated")
		args["auto_generated"] = *f.AutoGenerated
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM purchase_orders" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM purchase_orders" + whereClause + " ORDER BY created_at DESC, id"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &orders, args); err != nil {
		return nil, 0, err
	}

	if len(orders) > 0 {
		ids := make([]string, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
		}
		lineQuery, lineArgs, err := sqlx.In(`SELECT * FROM purchase_order_items WHERE purchase_order_id IN (?) ORDER BY item_id`, ids)
		if err != nil {
			return nil, 0, err
		}
		lineQuery = r.DB.Rebind(lineQuery)

		var lines []model.PurchaseOrderItem
		if err := r.DB.SelectContext(ctx, &lines, lineQuery, lineArgs...); err != nil {
			return nil, 0, err
		}

		byOrder := make(map[string][]model.PurchaseOrderItem, len(orders))
		for _, l := range lines {
			byOrder[l.PurchaseOrderID] = append(byOrder[l.PurchaseOrderID], l)
		}
		for i := range orders {
			orders[i].Items = byOrder[orders[i].ID]
		}
	}

	return orders, count, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, tenantID, id, status string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE purchase_orders SET status = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, status,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return purchaseorder.ErrNotFound
	}

	// Once the order leaves the open set its lines no longer block new
	// replenishment for their items.
	if !model.IsOutstandingStatus(status) {
		_, err = tx.ExecContext(ctx,
			`UPDATE purchase_order_items SET outstanding = false WHERE purchase_order_id = $1`,
			id,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindOutstandingItemIDs(ctx context.Context, tenantID string) (map[string]bool, error) {
	query, args, err := sqlx.In(`
        SELECT DISTINCT i.item_id
        FROM purchase_order_items i
        JOIN purchase_orders o ON o.id = i.purchase_order_id
        WHERE i.tenant_id = ?
          AND o.status IN (?)
          AND i.received_quantity < i.quantity
    `, tenantID, model.OutstandingPOStatuses)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var ids []string
	if err := r.DB.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, err
	}

	result := make(map[string]bool, len(ids))
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return false
}
