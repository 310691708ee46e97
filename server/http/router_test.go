package serverhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"

	"pricematch-service/internal/config"
	"pricematch-service/internal/metrics"
)

func TestRouter(t *testing.T) {
	Convey("Given the router", t, func() {
		r := NewRouter(config.Default(), zerolog.Nop(), metrics.NewRecorder())

		Convey("health answers ok with a request id", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "ok")
			So(w.Header().Get("X-Request-ID"), ShouldNotBeBlank)
		})

		Convey("metrics are exposed", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "pricematch_")
		})

		Convey("match rejects non-multipart bodies", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/match", nil))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("other methods on match are not allowed", func() {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/match", nil))
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}
