package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pricematch"

// Recorder — счётчики подбора на собственном реестре.
type Recorder struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	specLines      prometheus.Counter
	catalogRows    prometheus.Counter
	candidates     prometheus.Counter
	exportRows     prometheus.Counter
	skippedSources prometheus.Counter
	lineErrors     prometheus.Counter
	rankDuration   prometheus.Histogram
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_total",
			Help: "Прогоны подбора по итоговому статусу.",
		}, []string{"status"}),
		specLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "spec_lines_total",
			Help: "Строки ТЗ, участвовавшие в подборе.",
		}),
		catalogRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "catalog_rows_total",
			Help: "Строки прайсов, с которыми сравнивались строки ТЗ.",
		}),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "candidates_total",
			Help: "Кандидаты до фильтрации.",
		}),
		exportRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "export_rows_total",
			Help: "Строки выгрузки после фильтрации.",
		}),
		skippedSources: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "skipped_sources_total",
			Help: "Прайсы, пропущенные при загрузке.",
		}),
		lineErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "line_errors_total",
			Help: "Строки ТЗ со сбоем подсчёта.",
		}),
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "rank_duration_seconds",
			Help:    "Время подбора на один запрос.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 9),
		}),
	}
	reg.MustRegister(r.runs, r.specLines, r.catalogRows, r.candidates, r.exportRows,
		r.skippedSources, r.lineErrors, r.rankDuration)
	return r
}

// Run — итоги одного прогона.
type Run struct {
	Status      string
	SpecLines   int
	CatalogRows int
	Candidates  int
	ExportRows  int
	LineErrors  int
	Duration    time.Duration
}

// ObserveRun учитывает прогон; на nil-получателе ничего не делает.
func (r *Recorder) ObserveRun(run Run) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(run.Status).Inc()
	r.specLines.Add(float64(run.SpecLines))
	r.catalogRows.Add(float64(run.CatalogRows))
	r.candidates.Add(float64(run.Candidates))
	r.exportRows.Add(float64(run.ExportRows))
	r.lineErrors.Add(float64(run.LineErrors))
	r.rankDuration.Observe(run.Duration.Seconds())
}

// AddSkippedSources — пропущенные при загрузке прайсы.
func (r *Recorder) AddSkippedSources(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.skippedSources.Add(float64(n))
}

// Handler отдаёт метрики реестра в формате Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
