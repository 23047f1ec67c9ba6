package cleaner

import (
	"github.com/Veraticus/spice-etl/internal/model"
	"github.com/Veraticus/spice-etl/internal/normalize"
	"github.com/Veraticus/spice-etl/internal/tabular"
)

// InventoryColumns is the cleaned inventory header.
var InventoryColumns = []string{
	"move_id", "product_name", "product_category", "warehouse",
	"move_type", "quantity", "unit_price", "date",
}

var requiredInventoryColumns = []string{"move_id", "product_name", "move_type", "quantity", "date"}

// Inventory cleans a raw inventory export. Quantities must be strictly positive.
func Inventory(t *tabular.Table) (Result[model.InventoryMove], error) {
	return clean(t, requiredInventoryColumns, parseInventoryMove, func(m model.InventoryMove) string {
		return m.MoveID
	})
}

func parseInventoryMove(row tabular.Row) (model.InventoryMove, DropReason) {
	id, ok := normalize.Free(row.Get("move_id")).Get()
	if !ok {
		return model.InventoryMove{}, DropMissingID
	}
	date, ok := normalize.Date(row.Get("date"))
	if !ok {
		return model.InventoryMove{}, DropInvalidDate
	}
	moveType := model.MoveType(normalize.Upper(row.Get("move_type")).OrElse(""))
	if moveType != model.MoveIn && moveType != model.MoveOut {
		return model.InventoryMove{}, DropInvalidMoveType
	}
	qty, ok := normalize.Number(row.Get("quantity")).Get()
	if !ok || qty <= 0 {
		return model.InventoryMove{}, DropInvalidQuantity
	}

	product := normalize.Text(row.Get("product_name"))
	if tooLong(id, product.OrElse("")) {
		return model.InventoryMove{}, DropKeyTooLong
	}

	return model.InventoryMove{
		MoveID:          id,
		ProductName:     product,
		ProductCategory: normalize.Text(row.Get("product_category")),
		Warehouse:       normalize.Text(row.Get("warehouse")),
		MoveType:        moveType,
		Quantity:        qty,
		UnitPrice:       normalize.Number(row.Get("unit_price")),
		Date:            date,
	}, ""
}

// EncodeInventory renders cleaned moves as CSV rows under InventoryColumns.
func EncodeInventory(recs []model.InventoryMove) ([]string, [][]string) {
	rows := make([][]string, 0, len(recs))
	for _, m := range recs {
		rows = append(rows, []string{
			m.MoveID,
			m.ProductName.String(),
			m.ProductCategory.String(),
			m.Warehouse.String(),
			string(m.MoveType),
			formatFloat(m.Quantity),
			formatOptionalFloat(m.UnitPrice),
			m.Date.String(),
		})
	}
	return InventoryColumns, rows
}
