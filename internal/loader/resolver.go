package loader

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"

	"github.com/Veraticus/spice-etl/internal/model"
)

// Resolver turns natural-key values into surrogate-key mappings. Each method drops missing
// values, deduplicates the rest keeping the first occurrence, and hands the distinct keys to
// the store.
type Resolver struct {
	store DimensionStore
}

// NewResolver creates a resolver backed by store.
func NewResolver(store DimensionStore) *Resolver {
	return &Resolver{store: store}
}

// Dates resolves dim_date. Calendar attributes are derived here, once per date.
func (r *Resolver) Dates(ctx context.Context, dates []civil.Date) (map[civil.Date]int64, error) {
	valid := lo.Filter(dates, func(d civil.Date, _ int) bool { return d.IsValid() })
	attrs := lo.Map(lo.Uniq(valid), func(d civil.Date, _ int) model.DateAttributes {
		return model.NewDateAttributes(d)
	})

	mapping, err := r.store.GetOrCreateDates(ctx, attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dates: %w", err)
	}
	return mapping, nil
}

// Accounts resolves dim_account.
func (r *Resolver) Accounts(ctx context.Context, names []model.Optional[string]) (map[string]int64, error) {
	return r.names(ctx, model.DimAccount, names)
}

// Vendors resolves dim_vendor.
func (r *Resolver) Vendors(ctx context.Context, names []model.Optional[string]) (map[string]int64, error) {
	return r.names(ctx, model.DimVendor, names)
}

func (r *Resolver) names(ctx context.Context, dim model.NameDimension, names []model.Optional[string]) (map[string]int64, error) {
	present := lo.FilterMap(names, func(n model.Optional[string], _ int) (string, bool) {
		return n.Get()
	})

	mapping, err := r.store.GetOrCreateNames(ctx, dim, lo.Uniq(present))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dim.Table(), err)
	}
	return mapping, nil
}

// Categories resolves dim_category. When a category appears with more than one type, the
// first typed seed decides, and a category already in the warehouse keeps its stored type.
func (r *Resolver) Categories(ctx context.Context, seeds []model.CategorySeed) (map[string]int64, error) {
	unique := model.UniqueCategorySeeds(seeds)

	mapping, err := r.store.GetOrCreateCategories(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dim_category: %w", err)
	}
	return mapping, nil
}

// Customers resolves dim_customer. Keys are already region-normalized, so (name, missing)
// and (name, "") collapse here.
func (r *Resolver) Customers(ctx context.Context, keys []model.CustomerKey) (map[model.CustomerKey]int64, error) {
	mapping, err := r.store.GetOrCreateCustomers(ctx, lo.Uniq(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dim_customer: %w", err)
	}
	return mapping, nil
}

// Products resolves dim_product. The first seed for a name supplies its category and price.
func (r *Resolver) Products(ctx context.Context, seeds []model.ProductSeed) (map[string]int64, error) {
	unique := lo.UniqBy(seeds, func(s model.ProductSeed) string { return s.Name })

	mapping, err := r.store.GetOrCreateProducts(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dim_product: %w", err)
	}
	return mapping, nil
}
