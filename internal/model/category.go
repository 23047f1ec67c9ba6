package model

import "strings"

// CategoryType classifies a category as income or expense.
type CategoryType string

const (
	// CategoryTypeIncome marks categories first seen on income transactions.
	CategoryTypeIncome CategoryType = "Income"
	// CategoryTypeExpense marks categories first seen on expense transactions.
	CategoryTypeExpense CategoryType = "Expense"
)

// CategorySeed is a candidate dim_category row.
//
// Type is assigned the first time a category name is inserted and never revised, even when a
// later run sees the same name with the other type. Within one batch, see UniqueCategorySeeds.
type CategorySeed struct {
	Name string
	Type Optional[CategoryType]
}

// CategoryTypeOf maps a transaction type to a category type. Types other than income and
// expense have no category type.
func CategoryTypeOf(txnType Optional[string]) Optional[CategoryType] {
	t, ok := txnType.Get()
	if !ok {
		return None[CategoryType]()
	}
	switch TransactionType(strings.ToLower(strings.TrimSpace(t))) {
	case TransactionIncome:
		return Some(CategoryTypeIncome)
	case TransactionExpense:
		return Some(CategoryTypeExpense)
	default:
		return None[CategoryType]()
	}
}

// UniqueCategorySeeds keeps one seed per name in first-seen order. The kept seed is the first
// one that carries a type; a name is stored untyped only when none of its seeds has a type.
func UniqueCategorySeeds(seeds []CategorySeed) []CategorySeed {
	index := make(map[string]int, len(seeds))
	out := make([]CategorySeed, 0, len(seeds))
	for _, s := range seeds {
		i, seen := index[s.Name]
		if !seen {
			index[s.Name] = len(out)
			out = append(out, s)
			continue
		}
		if !out[i].Type.IsSet() && s.Type.IsSet() {
			out[i] = s
		}
	}
	return out
}
