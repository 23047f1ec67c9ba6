// Package loader maps cleaned records onto the star schema: it resolves natural keys to
// dimension surrogate keys and writes fact rows.
package loader

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/Veraticus/spice-etl/internal/model"
)

// DimensionStore resolves natural keys to surrogate keys. Every method is an atomic
// get-or-create: keys that are absent are inserted, existing keys are left untouched, and
// the whole table is read back in the same transaction. Calling a method twice with the same
// input creates nothing the second time and returns the same ids.
type DimensionStore interface {
	GetOrCreateDates(ctx context.Context, dates []model.DateAttributes) (map[civil.Date]int64, error)
	GetOrCreateNames(ctx context.Context, dim model.NameDimension, names []string) (map[string]int64, error)
	GetOrCreateCategories(ctx context.Context, seeds []model.CategorySeed) (map[string]int64, error)
	GetOrCreateCustomers(ctx context.Context, keys []model.CustomerKey) (map[model.CustomerKey]int64, error)
	GetOrCreateProducts(ctx context.Context, seeds []model.ProductSeed) (map[string]int64, error)
}

// FactStore writes fact rows, skipping rows whose natural id already exists. Each call is
// one transaction and returns the number of rows actually inserted.
type FactStore interface {
	InsertTransactionFacts(ctx context.Context, facts []model.TransactionFact) (int64, error)
	InsertSalesFacts(ctx context.Context, facts []model.SalesFact) (int64, error)
	InsertInventoryFacts(ctx context.Context, facts []model.InventoryFact) (int64, error)
}

// Store is the full warehouse surface the loader needs.
type Store interface {
	DimensionStore
	FactStore
}
