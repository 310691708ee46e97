package export

import (
	"fmt"

	excelize "github.com/xuri/excelize/v2"

	"pricematch-service/internal/matching/model"
)

// DefaultStartRow — первая строка данных; выше шапка/легенда шаблона.
const DefaultStartRow = 4

// Колонки области данных шаблона (1-based).
const (
	ColNo = iota + 1
	ColSourceLine
	ColMatchedName
	ColScore
	ColQuantity
	ColUnitPrice
	ColLineTotal
	ColLink
	ColSupplierPrice
	ColSupplier
	ColDiscount
	ColDiscountedTotal
)

// Cell — одна запись в сетку: значение либо формула (без ведущего "=").
type Cell struct {
	Ref     string `json:"ref"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Value   any    `json:"value,omitempty"`
	Formula string `json:"formula,omitempty"`
}

// Grid раскладывает строки выгрузки по ячейкам начиная со startRow,
// по одной физической строке на ExportRow. Итог и итог со скидкой пишутся
// формулами, чтобы правки количества/цены/скидки в документе пересчитывались.
func Grid(rows []model.ExportRow, startRow int) ([]Cell, error) {
	if startRow < 1 {
		startRow = DefaultStartRow
	}
	cells := make([]Cell, 0, len(rows)*ColDiscountedTotal)
	for i, r := range rows {
		rn := startRow + i
		ref := func(col int) (string, error) { return excelize.CoordinatesToCellName(col, rn) }

		qtyRef, err := ref(ColQuantity)
		if err != nil {
			return nil, err
		}
		priceRef, _ := ref(ColUnitPrice)
		totalRef, _ := ref(ColLineTotal)
		discRef, _ := ref(ColDiscount)

		add := func(col int, v any, formula string) {
			name, _ := ref(col)
			cells = append(cells, Cell{Ref: name, Row: rn, Col: col, Value: v, Formula: formula})
		}
		add(ColNo, r.No, "")
		add(ColSourceLine, r.SourceLine, "")
		add(ColMatchedName, r.MatchedName, "")
		add(ColScore, r.ScoreText, "")
		add(ColQuantity, r.Quantity, "")
		add(ColUnitPrice, r.UnitPrice, "")
		add(ColLineTotal, nil, fmt.Sprintf("%s*%s", qtyRef, priceRef))
		add(ColLink, r.Link, "")
		add(ColSupplierPrice, r.SupplierPrice, "")
		add(ColSupplier, r.Supplier, "")
		add(ColDiscount, r.Discount, "")
		add(ColDiscountedTotal, nil, fmt.Sprintf("%s*(1-%s/100)", totalRef, discRef))
	}
	return cells, nil
}
