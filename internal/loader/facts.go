package loader

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"

	"github.com/Veraticus/spice-etl/internal/model"
)

// Summary reports the outcome of loading one domain.
type Summary struct {
	Domain     model.Domain
	Records    int
	Inserted   int64
	Skipped    int64
	Unresolved int
}

// FactLoader resolves dimensions for a cleaned record set and writes its fact rows. All
// dimensions a domain references are committed before its facts are inserted.
type FactLoader struct {
	store    Store
	resolver *Resolver
	logger   *slog.Logger
}

// NewFactLoader creates a loader writing to store. A nil logger uses slog.Default().
func NewFactLoader(store Store, logger *slog.Logger) *FactLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactLoader{store: store, resolver: NewResolver(store), logger: logger}
}

// reference maps an optional natural key through a dimension mapping. A key that is missing,
// or absent from the mapping, yields a null foreign key.
func reference[K comparable](mapping map[K]int64, key K, present bool) (model.Optional[int64], bool) {
	if !present {
		return model.None[int64](), false
	}
	id, ok := mapping[key]
	if !ok {
		return model.None[int64](), false
	}
	return model.Some(id), true
}

// LoadTransactions loads fact_transactions and its date, account, vendor and category
// dimensions.
func (l *FactLoader) LoadTransactions(ctx context.Context, recs []model.Transaction) (Summary, error) {
	summary := Summary{Domain: model.DomainTransactions, Records: len(recs)}
	if len(recs) == 0 {
		return summary, nil
	}

	dates, err := l.resolver.Dates(ctx, lo.Map(recs, func(t model.Transaction, _ int) civil.Date { return t.Date }))
	if err != nil {
		return summary, err
	}
	accounts, err := l.resolver.Accounts(ctx, lo.Map(recs, func(t model.Transaction, _ int) model.Optional[string] { return t.Account }))
	if err != nil {
		return summary, err
	}
	vendors, err := l.resolver.Vendors(ctx, lo.Map(recs, func(t model.Transaction, _ int) model.Optional[string] { return t.Vendor }))
	if err != nil {
		return summary, err
	}
	categories, err := l.resolver.Categories(ctx, lo.FilterMap(recs, func(t model.Transaction, _ int) (model.CategorySeed, bool) {
		return t.CategorySeed()
	}))
	if err != nil {
		return summary, err
	}

	facts := make([]model.TransactionFact, 0, len(recs))
	for _, t := range recs {
		dateID, dateOK := reference(dates, t.Date, true)
		account, accountOK := t.Account.Get()
		accountID, accountOK := reference(accounts, account, accountOK)
		vendor, vendorOK := t.Vendor.Get()
		vendorID, vendorOK := reference(vendors, vendor, vendorOK)
		category, categoryOK := t.Category.Get()
		categoryID, categoryOK := reference(categories, category, categoryOK)

		if !dateOK || !accountOK || !vendorOK || !categoryOK {
			summary.Unresolved++
		}
		facts = append(facts, model.TransactionFact{
			TxnID:         t.TransactionID,
			DateID:        dateID,
			AccountID:     accountID,
			CategoryID:    categoryID,
			VendorID:      vendorID,
			Description:   t.Description,
			Amount:        model.Measure(t.Amount),
			TxnType:       t.Type,
			PaymentMethod: t.PaymentMethod,
			IsRecurring:   t.IsRecurring,
		})
	}

	inserted, err := l.store.InsertTransactionFacts(ctx, facts)
	if err != nil {
		return summary, fmt.Errorf("failed to load transactions: %w", err)
	}
	return l.finish(summary, inserted), nil
}

// LoadSales loads fact_sales_funnel and dim_customer. Stage dates are also added to dim_date
// so the calendar covers them.
func (l *FactLoader) LoadSales(ctx context.Context, recs []model.SalesLead) (Summary, error) {
	summary := Summary{Domain: model.DomainSales, Records: len(recs)}
	if len(recs) == 0 {
		return summary, nil
	}

	if _, err := l.resolver.Dates(ctx, lo.Map(recs, func(s model.SalesLead, _ int) civil.Date { return s.StageDate })); err != nil {
		return summary, err
	}
	customers, err := l.resolver.Customers(ctx, lo.FilterMap(recs, func(s model.SalesLead, _ int) (model.CustomerKey, bool) {
		return s.CustomerKey()
	}))
	if err != nil {
		return summary, err
	}

	facts := make([]model.SalesFact, 0, len(recs))
	for _, s := range recs {
		key, ok := s.CustomerKey()
		customerID, ok := reference(customers, key, ok)
		if !ok {
			summary.Unresolved++
		}
		facts = append(facts, model.SalesFact{
			LeadID:        s.LeadID,
			CustomerID:    customerID,
			Source:        s.Source,
			Stage:         s.Stage,
			StageDate:     s.StageDate,
			ExpectedValue: measure(s.ExpectedValue),
			ActualValue:   measure(s.ActualValue),
			SalesRep:      s.SalesRep,
		})
	}

	inserted, err := l.store.InsertSalesFacts(ctx, facts)
	if err != nil {
		return summary, fmt.Errorf("failed to load sales: %w", err)
	}
	return l.finish(summary, inserted), nil
}

// LoadInventory loads fact_inventory_moves and its date and product dimensions.
func (l *FactLoader) LoadInventory(ctx context.Context, recs []model.InventoryMove) (Summary, error) {
	summary := Summary{Domain: model.DomainInventory, Records: len(recs)}
	if len(recs) == 0 {
		return summary, nil
	}

	dates, err := l.resolver.Dates(ctx, lo.Map(recs, func(m model.InventoryMove, _ int) civil.Date { return m.Date }))
	if err != nil {
		return summary, err
	}
	products, err := l.resolver.Products(ctx, lo.FilterMap(recs, func(m model.InventoryMove, _ int) (model.ProductSeed, bool) {
		return m.ProductSeed()
	}))
	if err != nil {
		return summary, err
	}

	facts := make([]model.InventoryFact, 0, len(recs))
	for _, m := range recs {
		dateID, dateOK := reference(dates, m.Date, true)
		product, productOK := m.ProductName.Get()
		productID, productOK := reference(products, product, productOK)
		if !dateOK || !productOK {
			summary.Unresolved++
		}
		facts = append(facts, model.InventoryFact{
			MoveID:    m.MoveID,
			ProductID: productID,
			DateID:    dateID,
			MoveType:  m.MoveType,
			Warehouse: m.Warehouse,
			Quantity:  m.Quantity,
			UnitPrice: measure(m.UnitPrice),
		})
	}

	inserted, err := l.store.InsertInventoryFacts(ctx, facts)
	if err != nil {
		return summary, fmt.Errorf("failed to load inventory: %w", err)
	}
	return l.finish(summary, inserted), nil
}

// measure re-checks an optional measure so NaN or infinities never reach the warehouse.
func measure(v model.Optional[float64]) model.Optional[float64] {
	f, ok := v.Get()
	if !ok {
		return v
	}
	return model.Measure(f)
}

func (l *FactLoader) finish(summary Summary, inserted int64) Summary {
	summary.Inserted = inserted
	summary.Skipped = int64(summary.Records) - inserted

	table := summary.Domain.FactTable()
	if summary.Unresolved > 0 {
		l.logger.Warn("Fact rows stored with unresolved references",
			"domain", summary.Domain,
			"table", table,
			"rows", summary.Unresolved)
	}
	l.logger.Info("Loaded facts",
		"domain", summary.Domain,
		"table", table,
		"rows", summary.Records,
		"inserted", summary.Inserted,
		"skipped", summary.Skipped)
	return summary
}
