// Package model defines the records, dimensions and fact rows that flow through the pipeline.
package model

import "cloud.google.com/go/civil"

// TransactionType is the lowercase direction of a financial transaction.
type TransactionType string

// Known transaction types.
const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is one cleaned row of the transactions export.
type Transaction struct {
	Date          civil.Date
	TransactionID string
	Account       Optional[string]
	Category      Optional[string]
	Vendor        Optional[string]
	Description   Optional[string]
	Type          Optional[string]
	PaymentMethod Optional[string]
	Amount        float64
	IsRecurring   bool
}

// CategorySeed returns the (category, category_type) pair this transaction contributes to
// dim_category. The second result is false when the transaction has no category.
func (t Transaction) CategorySeed() (CategorySeed, bool) {
	name, ok := t.Category.Get()
	if !ok {
		return CategorySeed{}, false
	}
	return CategorySeed{Name: name, Type: CategoryTypeOf(t.Type)}, true
}
