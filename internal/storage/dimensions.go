package storage

import (
	"context"
	"fmt"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/jmoiron/sqlx"

	"github.com/Veraticus/spice-etl/internal/model"
)

// Each GetOrCreate method inserts the keys that are not yet present and reads the whole
// dimension back inside one transaction. The returned mapping covers every row in the
// table, not only the keys passed in. Re-inserting an existing key is a no-op, and
// non-key attributes (calendar fields, category_type, product_category, unit_price) are
// written on first insert only.

type idName struct {
	Name string `db:"name"`
	ID   int64  `db:"id"`
}

// GetOrCreateDates resolves dim_date rows.
func (w *Warehouse) GetOrCreateDates(ctx context.Context, dates []model.DateAttributes) (map[civil.Date]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDates(dates); err != nil {
		return nil, err
	}

	insert := w.dialect.insertIgnore + ` INTO dim_date
		(full_date, year_num, month_num, day_num, month_name, yearmonth)
		VALUES (?, ?, ?, ?, ?, ?)`

	var mapping map[civil.Date]int64
	err := w.inTx(ctx, "get-or-create", "dim_date", func(tx *sqlx.Tx) error {
		for _, d := range dates {
			if _, err := tx.ExecContext(ctx, insert,
				d.FullDate.String(), d.Year, d.Month, d.Day, d.MonthName, d.YearMonth); err != nil {
				return fmt.Errorf("failed to insert date %s: %w", d.FullDate, err)
			}
		}

		var rows []struct {
			FullDate dbDate `db:"full_date"`
			ID       int64  `db:"id"`
		}
		if err := tx.SelectContext(ctx, &rows, `SELECT date_id AS id, full_date FROM dim_date`); err != nil {
			return fmt.Errorf("failed to read dates: %w", err)
		}
		mapping = make(map[civil.Date]int64, len(rows))
		for _, r := range rows {
			mapping[r.FullDate.Date] = r.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

// GetOrCreateNames resolves a name-only dimension (dim_account or dim_vendor).
func (w *Warehouse) GetOrCreateNames(ctx context.Context, dim model.NameDimension, names []string) (map[string]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateNameDimension(dim); err != nil {
		return nil, err
	}
	if err := validateNames(names, dim.NameColumn()); err != nil {
		return nil, err
	}

	insert := fmt.Sprintf("%s INTO %s (%s) VALUES (?)", w.dialect.insertIgnore, dim.Table(), dim.NameColumn())
	readBack := fmt.Sprintf("SELECT %s AS id, %s AS name FROM %s", dim.IDColumn(), dim.NameColumn(), dim.Table())

	var mapping map[string]int64
	err := w.inTx(ctx, "get-or-create", dim.Table(), func(tx *sqlx.Tx) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, insert, name); err != nil {
				return fmt.Errorf("failed to insert %q: %w", name, err)
			}
		}
		var err error
		mapping, err = selectNames(ctx, tx, readBack)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

// GetOrCreateCategories resolves dim_category rows. category_type is kept from the first
// insert of a name even when a later seed disagrees. Within one call a typed seed is preferred
// over an untyped one for the same name.
func (w *Warehouse) GetOrCreateCategories(ctx context.Context, seeds []model.CategorySeed) (map[string]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	for i, s := range seeds {
		if err := validateKey(s.Name, fmt.Sprintf("category_name[%d]", i)); err != nil {
			return nil, err
		}
	}

	insert := w.dialect.insertIgnore + ` INTO dim_category (category_name, category_type) VALUES (?, ?)`
	seeds = model.UniqueCategorySeeds(seeds)

	var mapping map[string]int64
	err := w.inTx(ctx, "get-or-create", "dim_category", func(tx *sqlx.Tx) error {
		for _, s := range seeds {
			if _, err := tx.ExecContext(ctx, insert, s.Name, s.Type); err != nil {
				return fmt.Errorf("failed to insert %q: %w", s.Name, err)
			}
		}
		var err error
		mapping, err = selectNames(ctx, tx, `SELECT category_id AS id, category_name AS name FROM dim_category`)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

// GetOrCreateCustomers resolves dim_customer rows keyed by (name, region). Rows stored with a
// NULL region match the empty region.
func (w *Warehouse) GetOrCreateCustomers(ctx context.Context, keys []model.CustomerKey) (map[model.CustomerKey]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	for i, k := range keys {
		if err := validateKey(k.Name, fmt.Sprintf("customer_name[%d]", i)); err != nil {
			return nil, err
		}
		if utf8.RuneCountInString(k.Region) > model.MaxKeyLength {
			return nil, fmt.Errorf("%w: region[%d]", ErrKeyTooLong, i)
		}
	}

	insert := w.dialect.insertIgnore + ` INTO dim_customer (customer_name, region)
		SELECT ?, ?` + w.dialect.fromDual + `
		WHERE NOT EXISTS (
			SELECT 1 FROM dim_customer WHERE customer_name = ? AND COALESCE(region, '') = ?
		)`

	var mapping map[model.CustomerKey]int64
	err := w.inTx(ctx, "get-or-create", "dim_customer", func(tx *sqlx.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, insert, k.Name, k.Region, k.Name, k.Region); err != nil {
				return fmt.Errorf("failed to insert (%q, %q): %w", k.Name, k.Region, err)
			}
		}

		var rows []struct {
			Name   string `db:"name"`
			Region string `db:"region"`
			ID     int64  `db:"id"`
		}
		if err := tx.SelectContext(ctx, &rows,
			`SELECT customer_id AS id, customer_name AS name, COALESCE(region, '') AS region FROM dim_customer`); err != nil {
			return fmt.Errorf("failed to read customers: %w", err)
		}
		mapping = make(map[model.CustomerKey]int64, len(rows))
		for _, r := range rows {
			key := model.CustomerKey{Name: r.Name, Region: r.Region}
			// Keep the oldest row if legacy data holds both NULL and '' regions.
			if _, seen := mapping[key]; !seen || r.ID < mapping[key] {
				mapping[key] = r.ID
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

// GetOrCreateProducts resolves dim_product rows keyed by name. product_category and
// unit_price are kept from the first insert.
func (w *Warehouse) GetOrCreateProducts(ctx context.Context, seeds []model.ProductSeed) (map[string]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	for i, s := range seeds {
		if err := validateKey(s.Name, fmt.Sprintf("product_name[%d]", i)); err != nil {
			return nil, err
		}
	}

	insert := w.dialect.insertIgnore + ` INTO dim_product (product_name, product_category, unit_price) VALUES (?, ?, ?)`

	var mapping map[string]int64
	err := w.inTx(ctx, "get-or-create", "dim_product", func(tx *sqlx.Tx) error {
		for _, s := range seeds {
			if _, err := tx.ExecContext(ctx, insert, s.Name, s.Category, s.UnitPrice); err != nil {
				return fmt.Errorf("failed to insert %q: %w", s.Name, err)
			}
		}
		var err error
		mapping, err = selectNames(ctx, tx, `SELECT product_id AS id, product_name AS name FROM dim_product`)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func selectNames(ctx context.Context, tx *sqlx.Tx, query string) (map[string]int64, error) {
	var rows []idName
	if err := tx.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}
	mapping := make(map[string]int64, len(rows))
	for _, r := range rows {
		mapping[r.Name] = r.ID
	}
	return mapping, nil
}
