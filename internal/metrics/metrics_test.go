package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func scrape(r *Recorder) string {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder", t, func() {
		r := NewRecorder()

		Convey("When a run is observed", func() {
			r.ObserveRun(Run{Status: "matched", SpecLines: 2, CatalogRows: 10, Candidates: 6, ExportRows: 2, Duration: time.Millisecond})
			r.AddSkippedSources(1)
			r.AddSkippedSources(0)

			Convey("Then the handler exposes the counters", func() {
				out := scrape(r)
				So(out, ShouldContainSubstring, `pricematch_runs_total{status="matched"} 1`)
				So(out, ShouldContainSubstring, "pricematch_candidates_total 6")
				So(out, ShouldContainSubstring, "pricematch_export_rows_total 2")
				So(out, ShouldContainSubstring, "pricematch_skipped_sources_total 1")
				So(out, ShouldContainSubstring, "pricematch_rank_duration_seconds_count 1")
			})
		})
	})

	Convey("A nil recorder is a no-op", t, func() {
		var r *Recorder
		So(func() { r.ObserveRun(Run{}); r.AddSkippedSources(3) }, ShouldNotPanic)
	})
}
