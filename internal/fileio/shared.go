package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat возвращается для расширений, которые мы не умеем читать.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// сколько строк сверху просматриваем в поисках шапки
const headerProbeRows = 30

// Table — прочитанная таблица: заголовки в исходном порядке колонок и записи по ним.
type Table struct {
	Header    []string
	Records   []map[string]string
	HeaderRow int // фактическая строка заголовков (1-based)
}

// ReadTable выберет парсер по расширению и вернёт таблицу.
// headerRow — номер строки заголовков (1-based); 0 — определить автоматически.
func ReadTable(r io.Reader, filename string, headerRow int) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return nil, err
	}
	return buildTable(rows, headerRow), nil
}

func buildTable(rows [][]string, headerRow int) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	if headerRow <= 0 {
		headerRow = DetectHeaderRow(rows)
	}
	h := pickHeader(rows, headerRow)
	return &Table{
		Header:    h,
		Records:   rowsToMaps(rows, h, headerRow),
		HeaderRow: headerRow,
	}
}

// слова, по которым узнаём шапку прайса
var headerWords = []string{
	"наимен", "номенкл", "товар", "цена", "стоим", "колич", "кол-во", "артикул",
	"поставщ", "скидк", "аналог", "ссылк", "ед. изм",
	"name", "price", "qty", "quantity", "supplier", "discount", "analog", "link", "url",
}

// DetectHeaderRow ищет строку заголовков (1-based): первая строка, где есть
// узнаваемое слово шапки и хотя бы две заполненные ячейки; иначе первая
// строка с двумя заполненными ячейками; иначе 1.
func DetectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerProbeRows {
		limit = headerProbeRows
	}
	firstWide := 0
	for i := 0; i < limit; i++ {
		filled, known := 0, false
		for _, v := range rows[i] {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			filled++
			for _, w := range headerWords {
				if strings.Contains(v, w) {
					known = true
					break
				}
			}
		}
		if filled >= 2 && known {
			return i + 1
		}
		if filled >= 2 && firstWide == 0 {
			firstWide = i + 1
		}
	}
	if firstWide > 0 {
		return firstWide
	}
	return 1
}

// pickHeader — берёт строку заголовков, подставляет Column N для пустых
// и разводит повторяющиеся имена суффиксом " (2)", " (3)"...
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = 0
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	h := rows[idx]
	out := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		var v string
		if i < len(h) {
			v = strings.TrimSpace(strings.TrimPrefix(h[i], "\ufeff"))
		}
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		seen[v]++
		if n := seen[v]; n > 1 {
			v = fmt.Sprintf("%s (%d)", v, n)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps — конвертирует AoA в []map по заголовкам, пропуская полностью пустые строки.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow // первая строка после заголовков
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[headers[c]] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
