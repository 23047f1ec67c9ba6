package model

import "cloud.google.com/go/civil"

// MoveType is the direction of an inventory movement.
type MoveType string

// Inventory movement directions.
const (
	MoveIn  MoveType = "IN"
	MoveOut MoveType = "OUT"
)

// InventoryMove is one cleaned row of the inventory export.
type InventoryMove struct {
	Date            civil.Date
	MoveID          string
	ProductName     Optional[string]
	ProductCategory Optional[string]
	Warehouse       Optional[string]
	MoveType        MoveType
	UnitPrice       Optional[float64]
	Quantity        float64
}

// ProductSeed returns the dim_product row this move contributes, or false when the move
// names no product.
func (m InventoryMove) ProductSeed() (ProductSeed, bool) {
	name, ok := m.ProductName.Get()
	if !ok {
		return ProductSeed{}, false
	}
	return ProductSeed{
		Name:      name,
		Category:  m.ProductCategory.OrElse(UnknownProductCategory),
		UnitPrice: m.UnitPrice,
	}, true
}
