package model

import (
	"strconv"
)

// Kind — тип значения ячейки прайса.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Value — значение ячейки: текст, число или пусто.
type Value struct {
	Kind Kind
	Text string
	Num  float64
}

func Text(s string) Value      { return Value{Kind: KindText, Text: s} }
func Number(f float64) Value   { return Value{Kind: KindNumber, Num: f} }
func Empty() Value             { return Value{} }
func (v Value) IsEmpty() bool  { return v.Kind == KindEmpty }
func (v Value) IsText() bool   { return v.Kind == KindText }
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// String — строковое представление ("1000", "2.5", текст как есть, пусто → "").
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// SpecLine — строка ТЗ.
type SpecLine struct {
	Index   int    `json:"index"` // номер строки в исходном тексте (0-based)
	RawText string `json:"text"`
}

// CatalogRow — строка прайса поставщика. Columns хранит порядок колонок.
type CatalogRow struct {
	Columns  []string
	Fields   map[string]Value
	Supplier string
	Position int // порядковый номер в объединённом каталоге
}

// Field возвращает значение колонки (Empty, если колонки нет).
func (r CatalogRow) Field(col string) Value {
	if r.Fields == nil {
		return Empty()
	}
	return r.Fields[col]
}

// Catalog — объединение всех загруженных прайсов, первый загруженный — первым.
type Catalog []CatalogRow

// MatchCandidate — кандидат для строки ТЗ. Unmatched отмечает строку-заглушку
// для строк ТЗ без подходящих кандидатов.
type MatchCandidate struct {
	SpecLine  SpecLine
	Row       CatalogRow
	Score     int
	Unmatched bool
}

// RankedResultSet — кандидаты, сгруппированные по строкам ТЗ в их порядке,
// внутри группы по убыванию Score, не больше TopN на строку.
type RankedResultSet []MatchCandidate

// DiscountTable — поставщик → скидка в процентах.
type DiscountTable map[string]float64

// DiscountEntry — одна пара из источника скидок.
type DiscountEntry struct {
	Supplier string
	Percent  float64
}

// NewDiscountTable строит таблицу; более поздние записи перекрывают ранние.
func NewDiscountTable(entries []DiscountEntry) DiscountTable {
	t := make(DiscountTable, len(entries))
	for _, e := range entries {
		t[e.Supplier] = e.Percent
	}
	return t
}

// ExportRow — строка выгрузки.
type ExportRow struct {
	No              int     `json:"no"`
	SourceLine      string  `json:"sourceLine"`
	MatchedName     string  `json:"matchedName"`
	Score           int     `json:"score"`
	ScoreText       string  `json:"scoreText"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	LineTotal       float64 `json:"lineTotal"`
	Link            string  `json:"link"`
	SupplierPrice   float64 `json:"supplierPrice"`
	Supplier        string  `json:"supplier"`
	Discount        float64 `json:"discount"`
	DiscountedTotal float64 `json:"discountedTotal"`
	Unmatched       bool    `json:"unmatched,omitempty"`
}

// Status — итог прогона; "пусто" различается по причине.
type Status string

const (
	StatusMatched      Status = "matched"
	StatusNoSpecLines  Status = "no_spec_lines"
	StatusEmptyCatalog Status = "empty_catalog"
	StatusNoResults    Status = "no_results_after_filter"
)

// Имена метрик сходства.
const (
	ScorerTokenSort        = "token_sort"
	ScorerTokenSortDamerau = "token_sort_damerau"
)

// Options — параметры одного прогона подбора.
type Options struct {
	TopN             int    `json:"topN"`
	MinScore         int    `json:"minScore"`
	Keyword          string `json:"keyword,omitempty"`
	IncludeUnmatched bool   `json:"includeUnmatched"`
	Workers          int    `json:"workers"`
	Scorer           string `json:"scorer"`

	// расширенная нормализация (по умолчанию выключена)
	Unify       bool `json:"unify"`       // латиница→кириллица, ё→е
	StripPunct  bool `json:"stripPunct"`  // пунктуация → пробел
	AttachUnits bool `json:"attachUnits"` // "50 л" → "50л"
	Stem        bool `json:"stem"`        // основы слов (snowball)
}

const (
	DefaultTopN     = 3
	DefaultMinScore = 70
)

// DefaultOptions — значения по умолчанию.
func DefaultOptions() Options {
	return Options{
		TopN:     DefaultTopN,
		MinScore: DefaultMinScore,
		Workers:  1,
		Scorer:   ScorerTokenSort,
	}
}

// LineError — сбой подсчёта для одной строки ТЗ (остальные строки не затронуты).
type LineError struct {
	Line SpecLine `json:"line"`
	Err  string   `json:"error"`
}
