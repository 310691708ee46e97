package export

import (
	"regexp"
	"strings"

	"pricematch-service/internal/matching/model"
	"pricematch-service/internal/utils"
)

// Ключи ролей в порядке приоритета. Наименование при отсутствии берётся из аналога.
var (
	NameKeys   = []string{"name", "наименование", "номенклатура", "товар"}
	AnalogKeys = []string{"analog", "аналог"}
	QtyKeys    = []string{"qty", "quantity", "количество", "кол-во"}
	PriceKeys  = []string{"price", "цена", "стоимость"}
	LinkKeys   = []string{"link", "url", "ссылка"}
)

var rxNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// нормализуем имя колонки: нижний регистр, убираем служ.символы/множественные пробелы/ё→е
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "ё", "е").Replace(s)
	s = rxNonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// lookup ищет первое непустое значение по списку ключей: сначала точное
// совпадение нормализованного имени колонки, затем вхождение ключа в имя
// (например "Цена, руб." для "цена").
func lookup(r model.CatalogRow, keys []string) (model.Value, bool) {
	norm := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		norm[i] = normHeaderKey(c)
	}
	for _, exact := range []bool{true, false} {
		for _, k := range keys {
			nk := normHeaderKey(k)
			for i, col := range r.Columns {
				hit := norm[i] == nk
				if !exact {
					hit = strings.Contains(norm[i], nk)
				}
				if !hit {
					continue
				}
				if v := r.Field(col); !v.IsEmpty() {
					return v, true
				}
			}
		}
	}
	return model.Empty(), false
}

func lookupString(r model.CatalogRow, keys ...[]string) string {
	for _, ks := range keys {
		if v, ok := lookup(r, ks); ok {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

func lookupNumber(r model.CatalogRow, keys []string, def float64) float64 {
	v, ok := lookup(r, keys)
	if !ok {
		return def
	}
	if v.IsNumber() {
		return v.Num
	}
	if f, ok := utils.ParseFloatRU(v.Text); ok {
		return f
	}
	return def
}
