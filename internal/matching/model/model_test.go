package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValueString(t *testing.T) {
	Convey("Values render to their string form", t, func() {
		So(Text("Насос").String(), ShouldEqual, "Насос")
		So(Number(1000).String(), ShouldEqual, "1000")
		So(Number(2.5).String(), ShouldEqual, "2.5")
		So(Empty().String(), ShouldEqual, "")
		So(Empty().IsEmpty(), ShouldBeTrue)
	})

	Convey("Missing columns read as empty", t, func() {
		var r CatalogRow
		So(r.Field("name").IsEmpty(), ShouldBeTrue)
	})
}

func TestNewDiscountTable(t *testing.T) {
	Convey("Later discount entries override earlier ones", t, func() {
		tbl := NewDiscountTable([]DiscountEntry{
			{Supplier: "S1", Percent: 5},
			{Supplier: "S2", Percent: 7},
			{Supplier: "S1", Percent: 10},
		})
		So(tbl, ShouldResemble, DiscountTable{"S1": 10, "S2": 7})
	})
}
