package model

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestNewDateAttributes(t *testing.T) {
	d := civil.Date{Year: 2024, Month: time.March, Day: 5}
	got := NewDateAttributes(d)

	assert.Equal(t, DateAttributes{
		FullDate:  d,
		Year:      2024,
		Month:     3,
		Day:       5,
		MonthName: "March",
		YearMonth: "2024-03",
	}, got)
	assert.Equal(t, got, NewDateAttributes(d), "attributes must be recomputed identically")
}

func TestNewCustomerKey_FoldsMissingRegion(t *testing.T) {
	missing := NewCustomerKey("Acme Corp", None[string]())
	empty := NewCustomerKey("Acme Corp", Some(""))
	north := NewCustomerKey("Acme Corp", Some("North"))

	assert.Equal(t, missing, empty)
	assert.NotEqual(t, missing, north)
}

func TestCategoryTypeOf(t *testing.T) {
	tests := []struct {
		name string
		in   Optional[string]
		want Optional[CategoryType]
	}{
		{name: "income", in: Some("income"), want: Some(CategoryTypeIncome)},
		{name: "expense mixed case", in: Some(" Expense "), want: Some(CategoryTypeExpense)},
		{name: "transfer has no type", in: Some("transfer"), want: None[CategoryType]()},
		{name: "missing", in: None[string](), want: None[CategoryType]()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryTypeOf(tt.in))
		})
	}
}

func TestNameDimension_Columns(t *testing.T) {
	assert.Equal(t, "dim_vendor", DimVendor.Table())
	assert.Equal(t, "vendor_id", DimVendor.IDColumn())
	assert.Equal(t, "account_name", DimAccount.NameColumn())
	assert.False(t, NameDimension("category").Valid())
}

func TestInventoryMove_ProductSeedDefaultsCategory(t *testing.T) {
	m := InventoryMove{MoveID: "M1", ProductName: Some("Widget")}
	seed, ok := m.ProductSeed()
	assert.True(t, ok)
	assert.Equal(t, UnknownProductCategory, seed.Category)

	_, ok = InventoryMove{MoveID: "M2"}.ProductSeed()
	assert.False(t, ok)
}

func TestUniqueCategorySeeds(t *testing.T) {
	untyped := None[CategoryType]()
	seeds := []CategorySeed{
		{Name: "Rent", Type: untyped},
		{Name: "Salary", Type: Some(CategoryTypeIncome)},
		{Name: "Rent", Type: Some(CategoryTypeExpense)},
		{Name: "Rent", Type: Some(CategoryTypeIncome)},
		{Name: "Misc", Type: untyped},
		{Name: "Misc", Type: untyped},
	}

	assert.Equal(t, []CategorySeed{
		{Name: "Rent", Type: Some(CategoryTypeExpense)},
		{Name: "Salary", Type: Some(CategoryTypeIncome)},
		{Name: "Misc", Type: untyped},
	}, UniqueCategorySeeds(seeds))
	assert.Empty(t, UniqueCategorySeeds(nil))
}
