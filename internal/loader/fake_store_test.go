package loader

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/Veraticus/spice-etl/internal/model"
)

// fakeStore is an in-memory Store with the same insert-if-absent semantics as the warehouse.
type fakeStore struct {
	failOn       string
	dates        map[civil.Date]int64
	names        map[model.NameDimension]map[string]int64
	categories   map[string]int64
	categoryType map[string]model.Optional[model.CategoryType]
	customers    map[model.CustomerKey]int64
	products     map[string]int64
	productSeeds map[string]model.ProductSeed
	txns         map[string]model.TransactionFact
	sales        map[string]model.SalesFact
	moves        map[string]model.InventoryFact
	calls        []string
	nextID       int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		dates:        make(map[civil.Date]int64),
		names:        map[model.NameDimension]map[string]int64{model.DimAccount: {}, model.DimVendor: {}},
		categories:   make(map[string]int64),
		categoryType: make(map[string]model.Optional[model.CategoryType]),
		customers:    make(map[model.CustomerKey]int64),
		products:     make(map[string]int64),
		productSeeds: make(map[string]model.ProductSeed),
		txns:         make(map[string]model.TransactionFact),
		sales:        make(map[string]model.SalesFact),
		moves:        make(map[string]model.InventoryFact),
	}
}

type failure string

func (f failure) Error() string { return string(f) }

func (s *fakeStore) begin(call string) error {
	s.calls = append(s.calls, call)
	if s.failOn == call {
		return failure("injected failure: " + call)
	}
	return nil
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) GetOrCreateDates(_ context.Context, dates []model.DateAttributes) (map[civil.Date]int64, error) {
	if err := s.begin("dates"); err != nil {
		return nil, err
	}
	for _, d := range dates {
		if _, ok := s.dates[d.FullDate]; !ok {
			s.dates[d.FullDate] = s.id()
		}
	}
	return copyMap(s.dates), nil
}

func (s *fakeStore) GetOrCreateNames(_ context.Context, dim model.NameDimension, names []string) (map[string]int64, error) {
	if err := s.begin(string(dim)); err != nil {
		return nil, err
	}
	for _, n := range names {
		if _, ok := s.names[dim][n]; !ok {
			s.names[dim][n] = s.id()
		}
	}
	return copyMap(s.names[dim]), nil
}

func (s *fakeStore) GetOrCreateCategories(_ context.Context, seeds []model.CategorySeed) (map[string]int64, error) {
	if err := s.begin("category"); err != nil {
		return nil, err
	}
	for _, c := range seeds {
		if _, ok := s.categories[c.Name]; !ok {
			s.categories[c.Name] = s.id()
			s.categoryType[c.Name] = c.Type
		}
	}
	return copyMap(s.categories), nil
}

func (s *fakeStore) GetOrCreateCustomers(_ context.Context, keys []model.CustomerKey) (map[model.CustomerKey]int64, error) {
	if err := s.begin("customer"); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if _, ok := s.customers[k]; !ok {
			s.customers[k] = s.id()
		}
	}
	return copyMap(s.customers), nil
}

func (s *fakeStore) GetOrCreateProducts(_ context.Context, seeds []model.ProductSeed) (map[string]int64, error) {
	if err := s.begin("product"); err != nil {
		return nil, err
	}
	for _, p := range seeds {
		if _, ok := s.products[p.Name]; !ok {
			s.products[p.Name] = s.id()
			s.productSeeds[p.Name] = p
		}
	}
	return copyMap(s.products), nil
}

func (s *fakeStore) InsertTransactionFacts(_ context.Context, facts []model.TransactionFact) (int64, error) {
	if err := s.begin("fact_transactions"); err != nil {
		return 0, err
	}
	return insertAbsent(s.txns, facts, func(f model.TransactionFact) string { return f.TxnID }), nil
}

func (s *fakeStore) InsertSalesFacts(_ context.Context, facts []model.SalesFact) (int64, error) {
	if err := s.begin("fact_sales_funnel"); err != nil {
		return 0, err
	}
	return insertAbsent(s.sales, facts, func(f model.SalesFact) string { return f.LeadID }), nil
}

func (s *fakeStore) InsertInventoryFacts(_ context.Context, facts []model.InventoryFact) (int64, error) {
	if err := s.begin("fact_inventory_moves"); err != nil {
		return 0, err
	}
	return insertAbsent(s.moves, facts, func(f model.InventoryFact) string { return f.MoveID }), nil
}

func insertAbsent[T any](table map[string]T, facts []T, id func(T) string) int64 {
	var inserted int64
	for _, f := range facts {
		if _, ok := table[id(f)]; ok {
			continue
		}
		table[id(f)] = f
		inserted++
	}
	return inserted
}

func copyMap[K comparable](m map[K]int64) map[K]int64 {
	out := make(map[K]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
