package cleaner

import (
	"strings"

	"github.com/Veraticus/spice-etl/internal/model"
	"github.com/Veraticus/spice-etl/internal/normalize"
	"github.com/Veraticus/spice-etl/internal/tabular"
)

// SalesColumns is the cleaned sales-funnel header.
var SalesColumns = []string{
	"lead_id", "customer_name", "region", "source", "stage",
	"stage_date", "expected_value", "actual_value", "sales_rep",
}

var requiredSalesColumns = []string{"lead_id", "customer_name", "stage", "stage_date"}

var stagesByKey = map[string]model.Stage{
	"lead":        model.StageLead,
	"qualified":   model.StageQualified,
	"proposal":    model.StageProposal,
	"closed won":  model.StageClosedWon,
	"closed lost": model.StageClosedLost,
}

// Sales cleans a raw sales-funnel export.
func Sales(t *tabular.Table) (Result[model.SalesLead], error) {
	return clean(t, requiredSalesColumns, parseSalesLead, func(l model.SalesLead) string {
		return l.LeadID
	})
}

func parseSalesLead(row tabular.Row) (model.SalesLead, DropReason) {
	id, ok := normalize.Free(row.Get("lead_id")).Get()
	if !ok {
		return model.SalesLead{}, DropMissingID
	}
	stage, ok := stagesByKey[strings.ToLower(strings.TrimSpace(row.Get("stage")))]
	if !ok {
		return model.SalesLead{}, DropInvalidStage
	}
	date, ok := normalize.Date(row.Get("stage_date"))
	if !ok {
		return model.SalesLead{}, DropInvalidDate
	}

	customer := normalize.Text(row.Get("customer_name"))
	region := normalize.Text(row.Get("region"))
	if tooLong(id, customer.OrElse(""), region.OrElse("")) {
		return model.SalesLead{}, DropKeyTooLong
	}

	return model.SalesLead{
		LeadID:        id,
		CustomerName:  customer,
		Region:        region,
		Source:        normalize.Text(row.Get("source")),
		Stage:         stage,
		StageDate:     date,
		ExpectedValue: normalize.Number(row.Get("expected_value")),
		ActualValue:   normalize.Number(row.Get("actual_value")),
		SalesRep:      normalize.Text(row.Get("sales_rep")),
	}, ""
}

// EncodeSales renders cleaned leads as CSV rows under SalesColumns.
func EncodeSales(recs []model.SalesLead) ([]string, [][]string) {
	rows := make([][]string, 0, len(recs))
	for _, l := range recs {
		rows = append(rows, []string{
			l.LeadID,
			l.CustomerName.String(),
			l.Region.String(),
			l.Source.String(),
			string(l.Stage),
			l.StageDate.String(),
			formatOptionalFloat(l.ExpectedValue),
			formatOptionalFloat(l.ActualValue),
			l.SalesRep.String(),
		})
	}
	return SalesColumns, rows
}
