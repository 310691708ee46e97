package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pricematch-service/internal/fileio"
	"pricematch-service/internal/matching/model"
	"pricematch-service/internal/utils"
)

var (
	supplierKeys = []string{"supplier", "поставщик"}
	discountKeys = []string{"discount", "скидка"}
)

// ErrNoDiscountColumns — в файле скидок не нашлось колонок поставщика и скидки.
var ErrNoDiscountColumns = errors.New("discount source has no supplier/discount columns")

// LoadDiscounts читает пары (поставщик, скидка %) из CSV/XLS/XLSX.
// Строки без поставщика или с нечисловой скидкой пропускаются.
func LoadDiscounts(src Source, headerRow int) ([]model.DiscountEntry, error) {
	tbl, err := fileio.ReadTable(src.Reader, src.Filename, headerRow)
	if err != nil {
		return nil, fmt.Errorf("read discounts %s: %w", src.Filename, err)
	}
	supCol := findColumn(tbl.Header, supplierKeys)
	discCol := findColumn(tbl.Header, discountKeys)
	if supCol == "" || discCol == "" {
		return nil, ErrNoDiscountColumns
	}
	out := make([]model.DiscountEntry, 0, len(tbl.Records))
	for _, rec := range tbl.Records {
		sup := strings.TrimSpace(rec[supCol])
		pct, ok := utils.ParseFloatRU(rec[discCol])
		if sup == "" || !ok {
			continue
		}
		out = append(out, model.DiscountEntry{Supplier: sup, Percent: pct})
	}
	return out, nil
}

// ParseDiscountsJSON разбирает объект {"Поставщик": 10, ...}.
func ParseDiscountsJSON(s string) ([]model.DiscountEntry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var m map[string]float64
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("parse discounts: %w", err)
	}
	out := make([]model.DiscountEntry, 0, len(m))
	for k, v := range m {
		out = append(out, model.DiscountEntry{Supplier: k, Percent: v})
	}
	return out, nil
}

func findColumn(header []string, keys []string) string {
	for _, k := range keys {
		for _, h := range header {
			if strings.Contains(strings.ToLower(h), k) {
				return h
			}
		}
	}
	return ""
}
