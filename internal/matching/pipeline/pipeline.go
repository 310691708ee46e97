package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pricematch-service/internal/matching/export"
	"pricematch-service/internal/matching/model"
	"pricematch-service/internal/matching/service"
	"pricematch-service/internal/metrics"
)

// Input — всё, что нужно одному прогону.
type Input struct {
	SpecText  string
	Catalog   model.Catalog
	Discounts model.DiscountTable
	Options   model.Options
}

// Result — итог прогона. Ranked и Filtered не пересекаются по памяти с входом.
type Result struct {
	RunID      string
	Status     model.Status
	Lines      []model.SpecLine
	Ranked     model.RankedResultSet
	Filtered   []model.MatchCandidate
	Rows       []model.ExportRow
	LineErrors []model.LineError
}

type Pipeline struct {
	log     zerolog.Logger
	metrics *metrics.Recorder
}

func New(logger zerolog.Logger, rec *metrics.Recorder) *Pipeline {
	return &Pipeline{log: logger, metrics: rec}
}

// Run выполняет подбор. Ошибка возможна только при неверных опциях
// (неизвестная метрика); пустые вход и результат — не ошибка, а Status.
func (p *Pipeline) Run(in Input) (Result, error) {
	start := time.Now()
	opt := in.Options

	engine, err := service.NewEngine(opt, p.log)
	if err != nil {
		return Result{}, err
	}

	res := Result{RunID: uuid.NewString()}
	res.Lines = service.ParseSpecLines(in.SpecText)
	res.Ranked, res.LineErrors = engine.Rank(res.Lines, in.Catalog, opt.TopN)
	res.Filtered = service.Filter(res.Ranked, opt.MinScore, opt.Keyword)

	switch {
	case len(res.Lines) == 0:
		res.Status = model.StatusNoSpecLines
	case len(in.Catalog) == 0:
		res.Status = model.StatusEmptyCatalog
	case len(res.Filtered) == 0:
		res.Status = model.StatusNoResults
	default:
		res.Status = model.StatusMatched
	}

	rows := res.Filtered
	if opt.IncludeUnmatched {
		rows = service.WithUnmatched(res.Lines, res.Filtered)
	}
	res.Rows = export.Project(rows, in.Discounts)

	dur := time.Since(start)
	p.metrics.ObserveRun(metrics.Run{
		Status:      string(res.Status),
		SpecLines:   len(res.Lines),
		CatalogRows: len(in.Catalog),
		Candidates:  len(res.Ranked),
		ExportRows:  len(res.Rows),
		LineErrors:  len(res.LineErrors),
		Duration:    dur,
	})
	p.log.Info().
		Str("run_id", res.RunID).
		Str("status", string(res.Status)).
		Int("spec_lines", len(res.Lines)).
		Int("catalog_rows", len(in.Catalog)).
		Int("candidates", len(res.Ranked)).
		Int("rows", len(res.Rows)).
		Dur("elapsed", dur).
		Msg("match done")

	return res, nil
}
