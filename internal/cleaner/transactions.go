package cleaner

import (
	"github.com/Veraticus/spice-etl/internal/model"
	"github.com/Veraticus/spice-etl/internal/normalize"
	"github.com/Veraticus/spice-etl/internal/tabular"
)

// TransactionColumns is the cleaned transactions header.
var TransactionColumns = []string{
	"transaction_id", "date", "account", "category", "vendor",
	"description", "amount", "type", "payment_method", "is_recurring",
}

var requiredTransactionColumns = []string{
	"transaction_id", "date", "account", "category", "vendor", "amount", "type",
}

// categorySynonyms maps title-cased category spellings to their canonical name. Names not in
// the table are kept as they are.
var categorySynonyms = map[string]string{
	"Grocery":      "Groceries",
	"Groceries":    "Groceries",
	"Food":         "Food",
	"Subscription": "Subscription",
	"Mobile":       "Mobile",
}

// Transactions cleans a raw transactions export.
func Transactions(t *tabular.Table) (Result[model.Transaction], error) {
	return clean(t, requiredTransactionColumns, parseTransaction, func(tx model.Transaction) string {
		return tx.TransactionID
	})
}

func parseTransaction(row tabular.Row) (model.Transaction, DropReason) {
	id, ok := normalize.Free(row.Get("transaction_id")).Get()
	if !ok {
		return model.Transaction{}, DropMissingID
	}
	date, ok := normalize.Date(row.Get("date"))
	if !ok {
		return model.Transaction{}, DropInvalidDate
	}
	amount, ok := normalize.Number(row.Get("amount")).Get()
	if !ok {
		return model.Transaction{}, DropInvalidAmount
	}

	category := normalize.Text(row.Get("category"))
	if name, ok := category.Get(); ok {
		if canonical, known := categorySynonyms[name]; known {
			category = model.Some(canonical)
		}
	}
	account := normalize.Text(row.Get("account"))
	vendor := normalize.Text(row.Get("vendor"))
	if tooLong(id, account.OrElse(""), vendor.OrElse(""), category.OrElse("")) {
		return model.Transaction{}, DropKeyTooLong
	}

	return model.Transaction{
		TransactionID: id,
		Date:          date,
		Account:       account,
		Category:      category,
		Vendor:        vendor,
		Description:   normalize.Free(row.Get("description")),
		Amount:        amount,
		Type:          normalize.Lower(row.Get("type")),
		PaymentMethod: normalize.Text(row.Get("payment_method")),
		IsRecurring:   normalize.YesNo(row.Get("is_recurring")),
	}, ""
}

// EncodeTransactions renders cleaned transactions as CSV rows under TransactionColumns.
func EncodeTransactions(recs []model.Transaction) ([]string, [][]string) {
	rows := make([][]string, 0, len(recs))
	for _, tx := range recs {
		rows = append(rows, []string{
			tx.TransactionID,
			tx.Date.String(),
			tx.Account.String(),
			tx.Category.String(),
			tx.Vendor.String(),
			tx.Description.String(),
			formatFloat(tx.Amount),
			tx.Type.String(),
			tx.PaymentMethod.String(),
			yesNo(tx.IsRecurring),
		})
	}
	return TransactionColumns, rows
}
