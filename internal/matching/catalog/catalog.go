package catalog

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"pricematch-service/internal/fileio"
	"pricematch-service/internal/matching/model"
	"pricematch-service/internal/utils"
)

// Source — один загруженный файл.
type Source struct {
	Filename string
	Reader   io.Reader
}

type SourceStatus string

const (
	StatusLoaded  SourceStatus = "loaded"
	StatusSkipped SourceStatus = "skipped"
)

// SourceReport — итог по одному источнику.
type SourceReport struct {
	Source   string       `json:"source"`
	Supplier string       `json:"supplier"`
	Status   SourceStatus `json:"status"`
	Rows     int          `json:"rows"`
	Reason   string       `json:"reason,omitempty"`
}

// Report — итоги по всем источникам в порядке загрузки.
type Report []SourceReport

// Skipped — число пропущенных источников.
func (r Report) Skipped() int {
	n := 0
	for _, s := range r {
		if s.Status == StatusSkipped {
			n++
		}
	}
	return n
}

var errNoRows = errors.New("no data rows")

// SupplierFromFilename — метка поставщика: имя файла без пути и расширения.
func SupplierFromFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load читает все прайсы по очереди. Нечитаемый источник пропускается с
// причиной в отчёте; каталог из нуля источников — пустой, но валидный.
func Load(sources []Source, headerRow int, logger zerolog.Logger) (model.Catalog, Report) {
	var cat model.Catalog
	report := make(Report, 0, len(sources))
	for _, src := range sources {
		supplier := SupplierFromFilename(src.Filename)
		rows, err := loadOne(src, supplier, headerRow, len(cat))
		if err != nil {
			logger.Warn().Str("source", src.Filename).Str("reason", err.Error()).Msg("price list skipped")
			report = append(report, SourceReport{
				Source: src.Filename, Supplier: supplier, Status: StatusSkipped, Reason: err.Error(),
			})
			continue
		}
		cat = append(cat, rows...)
		report = append(report, SourceReport{
			Source: src.Filename, Supplier: supplier, Status: StatusLoaded, Rows: len(rows),
		})
		logger.Debug().Str("source", src.Filename).Int("rows", len(rows)).Msg("price list loaded")
	}
	return cat, report
}

func loadOne(src Source, supplier string, headerRow, offset int) ([]model.CatalogRow, error) {
	if src.Reader == nil {
		return nil, errors.New("empty source")
	}
	tbl, err := fileio.ReadTable(src.Reader, src.Filename, headerRow)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Filename, err)
	}
	rows := make([]model.CatalogRow, 0, len(tbl.Records))
	for _, rec := range tbl.Records {
		if looksLikeHeader(rec) {
			continue
		}
		rows = append(rows, toRow(tbl.Header, rec, supplier, offset+len(rows)))
	}
	if len(rows) == 0 {
		return nil, errNoRows
	}
	return rows, nil
}

// повтор шапки внутри прайса (многостраничные выгрузки): 2+ ячейки равны своему заголовку
func looksLikeHeader(rec map[string]string) bool {
	cnt := 0
	for k, v := range rec {
		if v = strings.TrimSpace(v); v != "" && strings.EqualFold(v, k) {
			cnt++
		}
	}
	return cnt >= 2
}

func toRow(header []string, rec map[string]string, supplier string, pos int) model.CatalogRow {
	fields := make(map[string]model.Value, len(header))
	for _, h := range header {
		fields[h] = TypeCell(rec[h])
	}
	cols := make([]string, len(header))
	copy(cols, header)
	return model.CatalogRow{Columns: cols, Fields: fields, Supplier: supplier, Position: pos}
}

// TypeCell определяет тип ячейки: пусто, число (вся ячейка — число) или текст.
func TypeCell(s string) model.Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return model.Empty()
	}
	if utils.IsNumericRU(t) {
		if f, ok := utils.ParseFloatRU(t); ok {
			return model.Number(f)
		}
	}
	return model.Text(s)
}
