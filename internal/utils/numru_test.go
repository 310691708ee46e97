package utils

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseFloatRU(t *testing.T) {
	Convey("Given Russian formatted numbers", t, func() {
		cases := map[string]float64{
			"1 234,50":     1234.5,
			"197 ,00":      197,
			"2\u00A0345,6": 2345.6,
			"10%":          10,
			"-12.5":        -12.5,
			"1\u202F000":   1000,
			"1,234.50":     1234.5,
			"1.234,50":     1234.5,
			"1,234,567":    1234567,
			"1.234.567":    1234567,
			"1234.5":       1234.5,
			"1.5E-2":       0.015,
		}
		for in, want := range cases {
			got, ok := ParseFloatRU(in)
			So(ok, ShouldBeTrue)
			So(got, ShouldAlmostEqual, want, 1e-9)
		}
	})

	Convey("Blank and garbage input is rejected", t, func() {
		for _, in := range []string{"", "   ", "-", "abc"} {
			_, ok := ParseFloatRU(in)
			So(ok, ShouldBeFalse)
		}
	})
}

func TestIsNumericRU(t *testing.T) {
	Convey("Only whole-cell numbers are numeric", t, func() {
		So(IsNumericRU("1000"), ShouldBeTrue)
		So(IsNumericRU(" 1 234,50 "), ShouldBeTrue)
		So(IsNumericRU("-3.75"), ShouldBeTrue)
		So(IsNumericRU("1,234.50"), ShouldBeTrue)
		So(IsNumericRU("1.234,50"), ShouldBeTrue)
		So(IsNumericRU("1.2E+3"), ShouldBeTrue)
		So(IsNumericRU("3х2.5"), ShouldBeFalse)
		So(IsNumericRU("50 л/мин"), ShouldBeFalse)
		So(IsNumericRU("ВВГ"), ShouldBeFalse)
		So(IsNumericRU(""), ShouldBeFalse)
	})
}
