package model

import "fmt"

// Domain identifies one of the source datasets.
type Domain string

// Source datasets, in load order.
const (
	DomainTransactions Domain = "transactions"
	DomainSales        Domain = "sales"
	DomainInventory    Domain = "inventory"
)

// Domains lists every dataset in the order the load stage processes them.
var Domains = []Domain{DomainTransactions, DomainSales, DomainInventory}

// ParseDomain maps a user-supplied name to a Domain.
func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

// FactTable returns the warehouse fact table loaded from this domain.
func (d Domain) FactTable() string {
	switch d {
	case DomainTransactions:
		return "fact_transactions"
	case DomainSales:
		return "fact_sales_funnel"
	case DomainInventory:
		return "fact_inventory_moves"
	default:
		return ""
	}
}
