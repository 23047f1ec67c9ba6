package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Veraticus/spice-etl/internal/model"
)

// Fact inserts skip rows whose natural id already exists: they neither fail nor overwrite.
// Each call writes in one transaction and returns how many rows were actually inserted.

// InsertTransactionFacts writes fact_transactions rows.
func (w *Warehouse) InsertTransactionFacts(ctx context.Context, facts []model.TransactionFact) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateFactIDs(facts, func(f model.TransactionFact) string { return f.TxnID }, "txn_id"); err != nil {
		return 0, err
	}

	insert := w.dialect.insertIgnore + ` INTO fact_transactions (
		txn_id, date_id, account_id, category_id, vendor_id,
		description, amount, txn_type, payment_method, is_recurring
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return w.insertFacts(ctx, "fact_transactions", len(facts), func(tx *sqlx.Tx, i int) (int64, error) {
		f := facts[i]
		return execAffected(ctx, tx, insert,
			f.TxnID, f.DateID, f.AccountID, f.CategoryID, f.VendorID,
			f.Description, f.Amount, f.TxnType, f.PaymentMethod, f.IsRecurring)
	})
}

// InsertSalesFacts writes fact_sales_funnel rows.
func (w *Warehouse) InsertSalesFacts(ctx context.Context, facts []model.SalesFact) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateFactIDs(facts, func(f model.SalesFact) string { return f.LeadID }, "lead_id"); err != nil {
		return 0, err
	}

	insert := w.dialect.insertIgnore + ` INTO fact_sales_funnel (
		lead_id, customer_id, source, stage, stage_date,
		expected_value, actual_value, sales_rep
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	return w.insertFacts(ctx, "fact_sales_funnel", len(facts), func(tx *sqlx.Tx, i int) (int64, error) {
		f := facts[i]
		return execAffected(ctx, tx, insert,
			f.LeadID, f.CustomerID, f.Source, string(f.Stage), f.StageDate.String(),
			f.ExpectedValue, f.ActualValue, f.SalesRep)
	})
}

// InsertInventoryFacts writes fact_inventory_moves rows.
func (w *Warehouse) InsertInventoryFacts(ctx context.Context, facts []model.InventoryFact) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateFactIDs(facts, func(f model.InventoryFact) string { return f.MoveID }, "move_id"); err != nil {
		return 0, err
	}

	insert := w.dialect.insertIgnore + ` INTO fact_inventory_moves (
		move_id, product_id, date_id, quantity, move_type, unit_price, warehouse
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	return w.insertFacts(ctx, "fact_inventory_moves", len(facts), func(tx *sqlx.Tx, i int) (int64, error) {
		f := facts[i]
		return execAffected(ctx, tx, insert,
			f.MoveID, f.ProductID, f.DateID, f.Quantity, string(f.MoveType), f.UnitPrice, f.Warehouse)
	})
}

func (w *Warehouse) insertFacts(ctx context.Context, table string, n int, insertRow func(tx *sqlx.Tx, i int) (int64, error)) (int64, error) {
	var inserted int64
	err := w.inTx(ctx, "insert", table, func(tx *sqlx.Tx) error {
		for i := 0; i < n; i++ {
			affected, err := insertRow(tx, i)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			inserted += affected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func execAffected(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
