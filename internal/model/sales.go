package model

import "cloud.google.com/go/civil"

// Stage is a sales-funnel stage.
type Stage string

// Funnel stages, in funnel order.
const (
	StageLead       Stage = "Lead"
	StageQualified  Stage = "Qualified"
	StageProposal   Stage = "Proposal"
	StageClosedWon  Stage = "Closed Won"
	StageClosedLost Stage = "Closed Lost"
)

// Stages lists every valid stage.
var Stages = []Stage{StageLead, StageQualified, StageProposal, StageClosedWon, StageClosedLost}

// SalesLead is one cleaned row of the sales-funnel export.
type SalesLead struct {
	StageDate     civil.Date
	LeadID        string
	CustomerName  Optional[string]
	Region        Optional[string]
	Source        Optional[string]
	Stage         Stage
	SalesRep      Optional[string]
	ExpectedValue Optional[float64]
	ActualValue   Optional[float64]
}

// CustomerKey returns the dim_customer natural key for the lead, or false when the
// lead has no customer name.
func (s SalesLead) CustomerKey() (CustomerKey, bool) {
	name, ok := s.CustomerName.Get()
	if !ok {
		return CustomerKey{}, false
	}
	return NewCustomerKey(name, s.Region), true
}
