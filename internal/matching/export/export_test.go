package export

import (
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	excelize "github.com/xuri/excelize/v2"

	"pricematch-service/internal/matching/model"
)

func catalogRow(supplier string, kv ...any) model.CatalogRow {
	r := model.CatalogRow{Fields: map[string]model.Value{}, Supplier: supplier}
	for i := 0; i+1 < len(kv); i += 2 {
		col := kv[i].(string)
		r.Columns = append(r.Columns, col)
		switch v := kv[i+1].(type) {
		case string:
			r.Fields[col] = model.Text(v)
		case int:
			r.Fields[col] = model.Number(float64(v))
		default:
			r.Fields[col] = model.Empty()
		}
	}
	return r
}

func TestProject(t *testing.T) {
	Convey("Given a candidate with quantity, price and a supplier discount", t, func() {
		c := model.MatchCandidate{
			SpecLine: model.SpecLine{Index: 0, RawText: "Насос центробежный"},
			Row: catalogRow("S1",
				"Наименование", "Насос ЦН-50",
				"Кол-во", 2,
				"Цена, руб.", 150,
				"Ссылка", "https://example.com/pump",
			),
			Score: 87,
		}

		rows := Project([]model.MatchCandidate{c}, model.DiscountTable{"S1": 10})

		Convey("the row carries computed totals and rendered score", func() {
			So(rows, ShouldHaveLength, 1)
			r := rows[0]
			So(r.No, ShouldEqual, 1)
			So(r.SourceLine, ShouldEqual, "Насос центробежный")
			So(r.MatchedName, ShouldEqual, "Насос ЦН-50")
			So(r.ScoreText, ShouldEqual, "87%")
			So(r.Quantity, ShouldEqual, 2)
			So(r.UnitPrice, ShouldEqual, 150)
			So(r.LineTotal, ShouldEqual, 300)
			So(r.SupplierPrice, ShouldEqual, 150)
			So(r.Link, ShouldEqual, "https://example.com/pump")
			So(r.Supplier, ShouldEqual, "S1")
			So(r.Discount, ShouldEqual, 10)
			So(r.DiscountedTotal, ShouldAlmostEqual, 270, 1e-9)
		})
	})

	Convey("Given a row without name, quantity, price or link", t, func() {
		c := model.MatchCandidate{
			SpecLine: model.SpecLine{RawText: "Кабель ВВГ"},
			Row:      catalogRow("S9", "name", nil, "analog", "NYM 3x2.5", "price", "1 200,50"),
			Score:    71,
		}

		r := Project([]model.MatchCandidate{c}, nil)[0]

		Convey("name falls back to analog and defaults apply", func() {
			So(r.MatchedName, ShouldEqual, "NYM 3x2.5")
			So(r.Quantity, ShouldEqual, 1)
			So(r.UnitPrice, ShouldAlmostEqual, 1200.5, 1e-9)
			So(r.Link, ShouldEqual, "")
			So(r.Discount, ShouldEqual, 0)
		})
	})

	Convey("Numbering follows the filtered order", t, func() {
		cs := []model.MatchCandidate{
			{Row: catalogRow("A", "name", "x")},
			{Row: catalogRow("B", "name", "y")},
			{Unmatched: true, SpecLine: model.SpecLine{RawText: "Задвижка"}},
		}
		rows := Project(cs, nil)
		So(rows[0].No, ShouldEqual, 1)
		So(rows[1].No, ShouldEqual, 2)
		So(rows[1].Supplier, ShouldEqual, "B")
		So(rows[2].Unmatched, ShouldBeTrue)
		So(rows[2].MatchedName, ShouldEqual, "")
		So(rows[2].UnitPrice, ShouldEqual, 0)
	})
}

func TestGrid(t *testing.T) {
	Convey("Given two export rows", t, func() {
		rows := []model.ExportRow{
			{No: 1, SourceLine: "a", ScoreText: "90%", Quantity: 2, UnitPrice: 150, SupplierPrice: 150, Discount: 10},
			{No: 2, SourceLine: "b", ScoreText: "75%", Quantity: 1, UnitPrice: 50, SupplierPrice: 50},
		}

		cells, err := Grid(rows, DefaultStartRow)

		So(err, ShouldBeNil)
		So(cells, ShouldHaveLength, 24)
		byRef := map[string]Cell{}
		for _, c := range cells {
			byRef[c.Ref] = c
		}

		Convey("data starts at row 4 in column order", func() {
			So(byRef["A4"].Value, ShouldEqual, 1)
			So(byRef["B4"].Value, ShouldEqual, "a")
			So(byRef["D4"].Value, ShouldEqual, "90%")
			So(byRef["I4"].Value, ShouldEqual, 150.0)
			So(byRef["A5"].Value, ShouldEqual, 2)
		})

		Convey("totals are formulas referencing their own row", func() {
			So(byRef["G4"].Formula, ShouldEqual, "E4*F4")
			So(byRef["L4"].Formula, ShouldEqual, "G4*(1-K4/100)")
			So(byRef["G5"].Formula, ShouldEqual, "E5*F5")
			So(byRef["L5"].Formula, ShouldEqual, "G5*(1-K5/100)")
		})
	})

	Convey("No rows means no cells", t, func() {
		cells, err := Grid(nil, 0)
		So(err, ShouldBeNil)
		So(cells, ShouldBeEmpty)
	})
}

func TestTemplateExporter(t *testing.T) {
	Convey("Given a template file with a header", t, func() {
		path := filepath.Join(t.TempDir(), "offer.xlsx")
		f := excelize.NewFile()
		So(f.SetCellValue("Sheet1", "A1", "Коммерческое предложение"), ShouldBeNil)
		So(f.SetCellValue("Sheet1", "A3", "№"), ShouldBeNil)
		So(f.SaveAs(path), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		tmpl, err := OpenTemplate(path)
		So(err, ShouldBeNil)
		defer tmpl.Close()

		rows := Project([]model.MatchCandidate{{
			SpecLine: model.SpecLine{RawText: "Насос"},
			Row:      catalogRow("S1", "name", "Насос", "qty", 2, "price", 150),
			Score:    100,
		}}, model.DiscountTable{"S1": 10})
		cells, err := Grid(rows, DefaultStartRow)
		So(err, ShouldBeNil)

		exp := NewTemplateExporter(tmpl, "")
		So(exp.Sheet(), ShouldEqual, "Sheet1")
		So(exp.Write(cells), ShouldBeNil)

		Convey("the formulas evaluate to the expected totals", func() {
			total, err := tmpl.CalcCellValue("Sheet1", "G4")
			So(err, ShouldBeNil)
			So(total, ShouldEqual, "300")
			disc, err := tmpl.CalcCellValue("Sheet1", "L4")
			So(err, ShouldBeNil)
			So(disc, ShouldEqual, "270")
		})

		Convey("edits to quantity flow through the formulas", func() {
			So(tmpl.SetCellValue("Sheet1", "E4", 3), ShouldBeNil)
			disc, err := tmpl.CalcCellValue("Sheet1", "L4")
			So(err, ShouldBeNil)
			So(disc, ShouldEqual, "405")
		})

		Convey("the header is left intact", func() {
			v, err := tmpl.GetCellValue("Sheet1", "A1")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "Коммерческое предложение")
			v, _ = tmpl.GetCellValue("Sheet1", "D4")
			So(v, ShouldEqual, "100%")
		})

		Convey("an unknown sheet is an error", func() {
			So(NewTemplateExporter(tmpl, "Нет такого").Write(cells), ShouldNotBeNil)
		})
	})

	Convey("A missing template is a hard failure", t, func() {
		_, err := OpenTemplate(filepath.Join(t.TempDir(), "missing.xlsx"))
		So(errors.Is(err, ErrTemplateNotFound), ShouldBeTrue)
		_, err = OpenTemplate("")
		So(errors.Is(err, ErrTemplateNotFound), ShouldBeTrue)
	})
}
