package export

import (
	"fmt"

	"pricematch-service/internal/matching/model"
	"pricematch-service/internal/matching/service"
)

// Project строит строки выгрузки в порядке кандидатов, нумерация с 1.
// Входные данные не изменяются.
func Project(filtered []model.MatchCandidate, discounts model.DiscountTable) []model.ExportRow {
	out := make([]model.ExportRow, 0, len(filtered))
	for i, c := range filtered {
		out = append(out, projectOne(i+1, c, discounts))
	}
	return out
}

func projectOne(no int, c model.MatchCandidate, discounts model.DiscountTable) model.ExportRow {
	qty := lookupNumber(c.Row, QtyKeys, 1)
	price := lookupNumber(c.Row, PriceKeys, 0)
	disc := service.ResolveDiscount(c.Row.Supplier, discounts)
	total := qty * price
	return model.ExportRow{
		No:              no,
		SourceLine:      c.SpecLine.RawText,
		MatchedName:     lookupString(c.Row, NameKeys, AnalogKeys),
		Score:           c.Score,
		ScoreText:       fmt.Sprintf("%d%%", c.Score),
		Quantity:        qty,
		UnitPrice:       price,
		LineTotal:       total,
		Link:            lookupString(c.Row, LinkKeys),
		SupplierPrice:   price,
		Supplier:        c.Row.Supplier,
		Discount:        disc,
		DiscountedTotal: total * (1 - disc/100),
		Unmatched:       c.Unmatched,
	}
}
