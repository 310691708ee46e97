package service

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"

	"pricematch-service/internal/matching/model"
)

// Латиница→кириллица (визуальные двойники)
var lookalikes = map[rune]rune{
	'A': 'А', 'B': 'В', 'C': 'С', 'E': 'Е', 'H': 'Н', 'K': 'К', 'M': 'М', 'O': 'О', 'P': 'Р', 'T': 'Т', 'X': 'Х', 'Y': 'У',
	'a': 'а', 'c': 'с', 'e': 'е', 'o': 'о', 'p': 'р', 'x': 'х',
}

// 0,5 → 0.5
var decComma = regexp.MustCompile(`(\d),(\d)`)

// Единицы измерения для склейки с числом
const unitWord = `мл|л|кг|г|мг|мм|см|м|шт|вт|квт|в|%`

// СКЛЕЙКА: "48 мм" → "48мм", "3.2  %" → "3.2%"
var reAttachNumUnit = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)(\s+)(` + unitWord + `)([\s,./]|$)`)

var punct = regexp.MustCompile(`[^\p{L}\p{N}\s.,%/]+`) // разрешаем . , % /

// Normalizer приводит текст строки ТЗ и поля прайса к сравнимому виду.
// Базовое правило: нижний регистр + trim. Остальное включается опциями.
type Normalizer struct {
	unify       bool
	stripPunct  bool
	attachUnits bool
	stem        bool
}

func NewNormalizer(opt model.Options) Normalizer {
	return Normalizer{unify: opt.Unify, stripPunct: opt.StripPunct, attachUnits: opt.AttachUnits, stem: opt.Stem}
}

// Text нормализует произвольную строку.
func (n Normalizer) Text(s string) string {
	if s == "" {
		return ""
	}
	out := s
	if n.unify {
		out = unifyLookalikes(out)
	}
	out = strings.TrimSpace(strings.ToLower(out))
	if n.stripPunct {
		out = decComma.ReplaceAllString(out, "$1.$2")
		out = removePunctToSpaces(out)
	}
	if n.attachUnits {
		out = attachNumberUnitsEverywhere(out)
	}
	if n.stem {
		out = stemWords(out)
	}
	return out
}

// Value нормализует значение ячейки; числа и пустые ячейки дают "".
func (n Normalizer) Value(v model.Value) string {
	if !v.IsText() {
		return ""
	}
	return n.Text(v.Text)
}

// Row — строка сравнения: текстовые колонки в порядке колонок через пробел.
// Числа, пустые ячейки и поставщик в сравнение не входят.
func (n Normalizer) Row(r model.CatalogRow) string {
	parts := make([]string, 0, len(r.Columns))
	for _, col := range r.Columns {
		if s := n.Value(r.Field(col)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Ё→Е, лат→кир по lookalikes, ×/* → х (разделитель размеров)
func unifyLookalikes(s string) string {
	b := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case 'ё':
			r = 'е'
		case 'Ё':
			r = 'Е'
		case '×', '*':
			r = 'х'
		default:
			if rr, ok := lookalikes[r]; ok {
				r = rr
			}
		}
		b = append(b, r)
	}
	return string(b)
}

func removePunctToSpaces(s string) string {
	return collapseSpaces(punct.ReplaceAllString(s, " "))
}

// Итеративная СКЛЕЙКА "число + единица" по всей строке
func attachNumberUnitsEverywhere(s string) string {
	prev := ""
	out := collapseSpaces(s)
	for out != prev {
		prev = out
		out = reAttachNumUnit.ReplaceAllString(out, "$1$3$4")
		out = collapseSpaces(out)
	}
	return out
}

// Схлопывание пробелов
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Основы слов (snowball, русский): "кабеля" → "кабел". Слова, которые
// стеммер не принял, остаются как есть.
func stemWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if st, err := snowball.Stem(w, "russian", true); err == nil && st != "" {
			words[i] = st
		}
	}
	return strings.Join(words, " ")
}
