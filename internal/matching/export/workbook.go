package export

import (
	"errors"
	"fmt"
	"os"

	excelize "github.com/xuri/excelize/v2"
)

// ErrTemplateNotFound — шаблона выгрузки нет; запасной раскладки не бывает.
var ErrTemplateNotFound = errors.New("output template not found")

// OpenTemplate открывает шаблон по пути.
func OpenTemplate(path string) (*excelize.File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrTemplateNotFound)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	}
	return excelize.OpenFile(path)
}

// TemplateExporter заполняет область данных шаблона, не трогая шапку.
type TemplateExporter struct {
	tmpl  *excelize.File
	sheet string
}

// NewTemplateExporter; пустой sheet — первый лист книги.
func NewTemplateExporter(tmpl *excelize.File, sheet string) *TemplateExporter {
	if sheet == "" && tmpl != nil {
		sheet = tmpl.GetSheetName(0)
	}
	return &TemplateExporter{tmpl: tmpl, sheet: sheet}
}

// Write записывает ячейки сетки: формулы через SetCellFormula, остальное значениями.
func (e *TemplateExporter) Write(cells []Cell) error {
	if e == nil || e.tmpl == nil {
		return errors.New("template workbook is nil")
	}
	if idx, err := e.tmpl.GetSheetIndex(e.sheet); err != nil || idx < 0 {
		return fmt.Errorf("template sheet %q not found", e.sheet)
	}
	for _, c := range cells {
		if c.Formula != "" {
			if err := e.tmpl.SetCellFormula(e.sheet, c.Ref, c.Formula); err != nil {
				return fmt.Errorf("set formula %s: %w", c.Ref, err)
			}
			continue
		}
		if err := e.tmpl.SetCellValue(e.sheet, c.Ref, c.Value); err != nil {
			return fmt.Errorf("set value %s: %w", c.Ref, err)
		}
	}
	return nil
}

// Sheet — имя заполняемого листа.
func (e *TemplateExporter) Sheet() string { return e.sheet }
