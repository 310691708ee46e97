package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d\.,\-]`)

// целое число с разделителями разрядов и необязательной дробной частью:
// "1000", "1 234,50", "-12.5", "197 ,00"
var rxNumericCell = regexp.MustCompile(`^[+-]?\d[\d \x{00A0}\x{202F}]*(?:\s*[.,]\d+)?$`)

// разряды через запятую/точку: "1,234.50", "1.234,50", "1,234,567"
var rxGroupedCell = regexp.MustCompile(`^[+-]?\d{1,3}(?:[.,]\d{3})+(?:[.,]\d+)?$`)

// сырое значение xlsx в экспоненциальной записи: "1.5E-2"
var rxExpCell = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?[eE][+-]?\d+$`)

var spaceRepl = strings.NewReplacer("\u00A0", "", "\u202F", "", " ", "", "\t", "")

// ParseFloatRU парсит "1 234,50", "197 ,00", "2 345,6" (NBSP/NNBSP), "10%",
// "1,234.50", "1.234,50" и т.п. Если в числе есть и запятая, и точка,
// десятичный разделитель — последний из них.
func ParseFloatRU(s string) (float64, bool) {
	s = spaceRepl.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if rxExpCell.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	// оставить только цифры, разделители и минус (на случай мусора)
	s = rxKeepNums.ReplaceAllString(s, "")
	s = normalizeSeparators(s)
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// приводит разделители к виду strconv: без разрядов, дробь через точку
func normalizeSeparators(s string) string {
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot { // 1.234,50
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "") // 1,234.50
	case strings.Count(s, ",") > 1: // 1,234,567
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1: // 1.234.567
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// IsNumericRU сообщает, что ячейка целиком является числом (без букв и единиц),
// т.е. "3х2.5" или "50 л/мин" числом не считаются.
func IsNumericRU(s string) bool {
	s = strings.TrimSpace(s)
	return rxNumericCell.MatchString(s) || rxGroupedCell.MatchString(s) || rxExpCell.MatchString(s)
}
