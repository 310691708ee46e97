package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestID(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		var seen string
		h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r)
		}))

		Convey("a fresh id is generated and echoed", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			So(seen, ShouldNotBeBlank)
			So(rec.Header().Get("X-Request-ID"), ShouldEqual, seen)
		})

		Convey("an incoming id is kept", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", "abc")
			h.ServeHTTP(httptest.NewRecorder(), req)
			So(seen, ShouldEqual, "abc")
		})
	})
}

func TestRecover(t *testing.T) {
	Convey("Panics become 500 responses", t, func() {
		h := Recover(zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		So(func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) }, ShouldNotPanic)
		So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		So(rec.Body.String(), ShouldContainSubstring, "internal")
	})
}

func TestCORS(t *testing.T) {
	Convey("Given a CORS allow-list", t, func() {
		h := CORS([]string{"http://a"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		Convey("allowed origins are echoed", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", "http://a")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://a")
		})

		Convey("preflight is answered without reaching the handler", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
			So(rec.Code, ShouldEqual, http.StatusNoContent)
		})
	})
}

func TestLimitBytes(t *testing.T) {
	Convey("Bodies over the limit fail to read", t, func() {
		var readErr error
		h := LimitBytes(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
		So(readErr, ShouldNotBeNil)
	})
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	Convey("Given a limiter with burst 2", t, func() {
		h := RateLimit(0.001, 2)(ok)
		codes := make([]int, 3)
		for i := range codes {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/match", nil))
			codes[i] = rec.Code
		}
		So(codes, ShouldResemble, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})
	})

	Convey("A zero rate disables the limiter", t, func() {
		h := RateLimit(0, 1)(ok)
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/match", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
		}
	})
}
