package model

import "cloud.google.com/go/civil"

// TransactionFact is a fact_transactions row.
type TransactionFact struct {
	TxnID         string
	DateID        Optional[int64]
	AccountID     Optional[int64]
	CategoryID    Optional[int64]
	VendorID      Optional[int64]
	Description   Optional[string]
	TxnType       Optional[string]
	PaymentMethod Optional[string]
	Amount        Optional[float64]
	IsRecurring   bool
}

// SalesFact is a fact_sales_funnel row.
type SalesFact struct {
	StageDate     civil.Date
	LeadID        string
	CustomerID    Optional[int64]
	Source        Optional[string]
	Stage         Stage
	SalesRep      Optional[string]
	ExpectedValue Optional[float64]
	ActualValue   Optional[float64]
}

// InventoryFact is a fact_inventory_moves row.
type InventoryFact struct {
	MoveID    string
	ProductID Optional[int64]
	DateID    Optional[int64]
	MoveType  MoveType
	Warehouse Optional[string]
	Quantity  float64
	UnitPrice Optional[float64]
}
