package model

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// UnknownProductCategory is stored for products first seen without a category.
const UnknownProductCategory = "Unknown"

// MaxKeyLength is the longest natural key, in characters, the warehouse stores.
const MaxKeyLength = 255

// NameDimension is a dimension whose only attribute is its natural-key name.
type NameDimension string

// Name-only dimensions.
const (
	DimAccount NameDimension = "account"
	DimVendor  NameDimension = "vendor"
)

// Table returns the dimension table name.
func (d NameDimension) Table() string { return "dim_" + string(d) }

// IDColumn returns the surrogate key column.
func (d NameDimension) IDColumn() string { return string(d) + "_id" }

// NameColumn returns the natural key column.
func (d NameDimension) NameColumn() string { return string(d) + "_name" }

// Valid reports whether d is a known name dimension.
func (d NameDimension) Valid() bool {
	return d == DimAccount || d == DimVendor
}

// DateAttributes is a dim_date row. Every field other than FullDate is derived from it.
type DateAttributes struct {
	FullDate  civil.Date
	MonthName string
	YearMonth string
	Year      int
	Month     int
	Day       int
}

// NewDateAttributes derives the calendar attributes of d.
func NewDateAttributes(d civil.Date) DateAttributes {
	return DateAttributes{
		FullDate:  d,
		Year:      d.Year,
		Month:     int(d.Month),
		Day:       d.Day,
		MonthName: d.Month.String(),
		YearMonth: fmt.Sprintf("%04d-%02d", d.Year, int(d.Month)),
	}
}

// CustomerKey is the dim_customer natural key. A missing region is the empty string, so
// (name, NULL) and (name, "") are the same customer.
type CustomerKey struct {
	Name   string
	Region string
}

// NewCustomerKey builds a key, folding a missing region to "".
func NewCustomerKey(name string, region Optional[string]) CustomerKey {
	return CustomerKey{Name: name, Region: region.OrElse("")}
}

// ProductSeed is a candidate dim_product row. Category and UnitPrice are first-seen
// attributes: they are written on insert and never revised.
type ProductSeed struct {
	Name      string
	Category  string
	UnitPrice Optional[float64]
}
