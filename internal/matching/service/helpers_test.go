package service

import (
	"github.com/rs/zerolog"

	"pricematch-service/internal/matching/model"
)

// row собирает строку каталога из пар "колонка, значение".
func row(pos int, supplier string, kv ...any) model.CatalogRow {
	r := model.CatalogRow{Fields: map[string]model.Value{}, Supplier: supplier, Position: pos}
	for i := 0; i+1 < len(kv); i += 2 {
		col := kv[i].(string)
		r.Columns = append(r.Columns, col)
		switch v := kv[i+1].(type) {
		case string:
			r.Fields[col] = model.Text(v)
		case int:
			r.Fields[col] = model.Number(float64(v))
		case float64:
			r.Fields[col] = model.Number(v)
		default:
			r.Fields[col] = model.Empty()
		}
	}
	return r
}

func scenarioCatalog() model.Catalog {
	return model.Catalog{
		row(0, "S1", "name", "Насос центробежный 50 л/мин", "price", 1000, "qty", 1),
		row(1, "S2", "name", "Кабель силовой ВВГ 3х2.5", "price", 50, "qty", 1),
	}
}

const scenarioSpec = "Насос центробежный 50 л/мин\nКабель ВВГ 3х2.5"

func newTestEngine(opt model.Options) *Engine {
	e, err := NewEngine(opt, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return e
}
