package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/washlane/inventory-service/internal/item/dto"
	"github.com/washlane/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
        INSERT INTO inventory_items (
            id, tenant_id, sku, name, unit,
            current_stock, minimum_stock, maximum_stock, reorder_point, reorder_quantity,
            average_usage_rate, lead_time_days, unit_cost, supplier_id, auto_reorder,
            last_reorder_date, is_active, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :sku, :name, :unit,
            :current_stock, :minimum_stock, :maximum_stock, :reorder_point, :reorder_quantity,
            :average_usage_rate, :lead_time_days, :unit_cost, :supplier_id, :auto_reorder,
            :last_reorder_date, :is_active, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return errors.Wrap(err, "itemRepo.Create")
}

func (r *PGRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	query := `
        UPDATE inventory_items SET
            name = :name,
            unit = :unit,
            minimum_stock = :minimum_stock,
            maximum_stock = :maximum_stock,
            reorder_point = :reorder_point,
            reorder_quantity = :reorder_quantity,
            lead_time_days = :lead_time_days,
            unit_cost = :unit_cost,
            supplier_id = :supplier_id,
            auto_reorder = :auto_reorder,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND tenant_id = :tenant_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return errors.Wrap(err, "itemRepo.Update")
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	query := `SELECT * FROM inventory_items WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &item, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.InventoryItem, int, error) {
	var items []model.InventoryItem
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}
	if f.LowStock {
		conditions = append(conditions, "current_stock <= COALESCE(reorder_point, minimum_stock)")
	}
	if f.AutoReorder != nil {
		conditions = append(conditions, "auto_reorder = :auto_reorder")
		args["auto_reorder"] = *f.AutoReorder
	}
	if f.ActiveOnly {
		conditions = append(conditions, "is_active = true")
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM inventory_items" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_items" + whereClause + " ORDER BY id"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, tenantID, sku, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM inventory_items WHERE tenant_id = $1 AND sku = $2 AND id != $3`
	err := r.DB.GetContext(ctx, &count, query, tenantID, sku, excludeID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// FindBelowReorderPoint returns active auto-reorder items at or under their
// threshold. Ordered by id so a pass over the result is deterministic.
func (r *PGRepository) FindBelowReorderPoint(ctx context.Context, tenantID string, limit int) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	query := `
        SELECT * FROM inventory_items
        WHERE tenant_id = $1
          AND is_active = true
          AND auto_reorder = true
          AND current_stock <= COALESCE(reorder_point, minimum_stock)
        ORDER BY id
    `
	args := []interface{}{tenantID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	err := r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) FindActive(ctx context.Context, tenantID string) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	query := `SELECT * FROM inventory_items WHERE tenant_id = $1 AND is_active = true ORDER BY id`
	err := r.DB.SelectContext(ctx, &items, query, tenantID)
	return items, err
}

func (r *PGRepository) SumOutboundSince(ctx context.Context, tenantID, itemID string, since time.Time) (decimal.Decimal, int, error) {
	var row struct {
		Total decimal.Decimal `db:"total"`
		Count int             `db:"count"`
	}
	query := `
        SELECT COALESCE(SUM(quantity), 0) AS total, count(*) AS count
        FROM inventory_transactions
        WHERE tenant_id = $1 AND item_id = $2 AND transaction_type = 'out' AND created_at >= $3
    `
	err := r.DB.GetContext(ctx, &row, query, tenantID, itemID, since)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}

func (r *PGRepository) UpdateUsageRate(ctx context.Context, tenantID, itemID string, rate decimal.Decimal) error {
	query := `UPDATE inventory_items SET average_usage_rate = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	_, err := r.DB.ExecContext(ctx, query, tenantID, itemID, rate)
	return err
}

func (r *PGRepository) SetLastReorderDate(ctx context.Context, tenantID string, itemIDs []string, at time.Time) error {
	if len(itemIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(
		`UPDATE inventory_items SET last_reorder_date = ?, updated_at = ? WHERE tenant_id = ? AND id IN (?)`,
		at, at, tenantID, itemIDs,
	)
	if err != nil {
		return err
	}
	query = r.DB.Rebind(query)
	_, err = r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	var txns []model.InventoryTransaction
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ItemID != "" {
		conditions = append(conditions, "item_id = :item_id")
		args["item_id"] = f.ItemID
	}
	if f.TransactionType != "" {
		conditions = append(conditions, "transaction_type = :transaction_type")
		args["transaction_type"] = f.TransactionType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM inventory_transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_transactions" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &txns, args)
	return txns, count, err
}

func (r *PGRepository) AdjustStockWithTransaction(ctx context.Context, item *model.InventoryItem, txn *model.InventoryTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateQuery := `
        UPDATE inventory_items SET
            current_stock = :current_stock,
            updated_at = :updated_at
        WHERE id = :id AND tenant_id = :tenant_id
    `
	res, err := tx.NamedExecContext(ctx, updateQuery, item)
	if err != nil {
		return errors.Wrap(err, "itemRepo.AdjustStockWithTransaction.update")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	insertQuery := `
        INSERT INTO inventory_transactions (
            id, tenant_id, item_id, transaction_type, quantity,
            stock_before, stock_after, reference_type, reference_id,
            notes, created_by, created_at
        )
        VALUES (
            :id, :tenant_id, :item_id, :transaction_type, :quantity,
            :stock_before, :stock_after, :reference_type, :reference_id,
            :notes, :created_by, :created_at
        )
    `
	_, err = tx.NamedExecContext(ctx, insertQuery, txn)
	if err != nil {
		return errors.Wrap(err, "itemRepo.AdjustStockWithTransaction.insert")
	}

	return errors.Wrap(tx.Commit(), "itemRepo.AdjustStockWithTransaction.commit")
}
