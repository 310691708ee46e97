package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pricematch-service/internal/config"
	"pricematch-service/internal/fileio"
	"pricematch-service/internal/matching/catalog"
	"pricematch-service/internal/matching/export"
	"pricematch-service/internal/matching/model"
	"pricematch-service/internal/matching/pipeline"
	"pricematch-service/internal/metrics"
	"pricematch-service/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type matchResponse struct {
	RunID       string            `json:"runId"`
	Status      model.Status      `json:"status"`
	SpecLines   int               `json:"specLines"`
	CatalogRows int               `json:"catalogRows"`
	Candidates  int               `json:"candidates"`
	Sources     catalog.Report    `json:"sources"`
	Warnings    []string          `json:"warnings,omitempty"`
	LineErrors  []model.LineError `json:"lineErrors,omitempty"`
	Options     model.Options     `json:"options"`
	Rows        []model.ExportRow `json:"rows"`
}

// Match возвращает http.HandlerFunc для POST /match (multipart):
// spec_text | spec_file (.txt), prices (несколько файлов), discounts_file,
// discounts (JSON), top_n, min_score, keyword, include_unmatched, scorer,
// unify, strip_punct, attach_units, header_row, format=json|xlsx.
func Match(cfg config.Config, logger zerolog.Logger, p *pipeline.Pipeline, rec *metrics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("req_id", middleware.GetRequestID(r)).Logger()

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		defer r.MultipartForm.RemoveAll()

		opt, err := matchOptions(r, cfg.MatchOptions())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		headerRow, err := atoi(r.FormValue("header_row"), 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, "header_row: "+err.Error())
			return
		}
		format := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
		if format == "" {
			format = "json"
		}
		if format != "json" && format != "xlsx" {
			writeError(w, http.StatusBadRequest, "format must be json or xlsx")
			return
		}

		specText, err := readSpec(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sources, closeAll, err := openSources(r.MultipartForm.File["prices"])
		defer closeAll()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cat, report := catalog.Load(sources, headerRow, log)
		rec.AddSkippedSources(report.Skipped())

		var warnings []string
		for _, s := range report {
			if s.Status == catalog.StatusSkipped {
				warnings = append(warnings, fmt.Sprintf("price list %s skipped: %s", s.Source, s.Reason))
			}
		}

		entries, warn, err := readDiscounts(r, headerRow)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if warn != "" {
			log.Warn().Str("reason", warn).Msg("discounts ignored")
			warnings = append(warnings, warn)
		}

		res, err := p.Run(pipeline.Input{
			SpecText:  specText,
			Catalog:   cat,
			Discounts: model.NewDiscountTable(entries),
			Options:   opt,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if format == "xlsx" {
			if err := writeWorkbook(w, cfg, res); err != nil {
				status := http.StatusInternalServerError
				log.Error().Err(err).Str("template", cfg.TemplatePath).Msg("export failed")
				if errors.Is(err, export.ErrTemplateNotFound) {
					writeError(w, status, "output template is not available")
					return
				}
				writeError(w, status, "export failed")
			}
			return
		}

		resp := matchResponse{
			RunID:       res.RunID,
			Status:      res.Status,
			SpecLines:   len(res.Lines),
			CatalogRows: len(cat),
			Candidates:  len(res.Ranked),
			Sources:     report,
			Warnings:    warnings,
			LineErrors:  res.LineErrors,
			Options:     opt,
			Rows:        res.Rows,
		}
		if err := writeJSON(w, http.StatusOK, resp); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}
		log.Info().
			Str("run_id", res.RunID).
			Int("sources", len(sources)).
			Int("rows", len(res.Rows)).
			Dur("elapsed", time.Since(start)).
			Msg("match request done")
	}
}

func readSpec(r *http.Request) (string, error) {
	if s := r.FormValue("spec_text"); strings.TrimSpace(s) != "" {
		return s, nil
	}
	f, hdr, err := r.FormFile("spec_file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("spec_file: %w", err)
	}
	defer f.Close()
	if ext := strings.ToLower(filepath.Ext(hdr.Filename)); ext != ".txt" {
		return "", fmt.Errorf("spec_file: only extracted plain text (.txt) is accepted, got %q", ext)
	}
	return fileio.ReadText(f)
}

func openSources(files []*multipart.FileHeader) ([]catalog.Source, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	sources := make([]catalog.Source, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		sources = append(sources, catalog.Source{Filename: fh.Filename, Reader: f})
	}
	return sources, closeAll, nil
}

// readDiscounts: файл скидок необязателен, его сбой — предупреждение;
// битый JSON в поле discounts — ошибка запроса.
func readDiscounts(r *http.Request, headerRow int) ([]model.DiscountEntry, string, error) {
	var (
		entries []model.DiscountEntry
		warn    string
	)
	f, hdr, err := r.FormFile("discounts_file")
	switch {
	case err == nil:
		defer f.Close()
		fromFile, err := catalog.LoadDiscounts(catalog.Source{Filename: hdr.Filename, Reader: f}, headerRow)
		if err != nil {
			warn = fmt.Sprintf("discounts file %s ignored: %v", hdr.Filename, err)
		}
		entries = append(entries, fromFile...)
	case !errors.Is(err, http.ErrMissingFile):
		warn = fmt.Sprintf("discounts file ignored: %v", err)
	}

	fromJSON, err := catalog.ParseDiscountsJSON(r.FormValue("discounts"))
	if err != nil {
		return nil, "", err
	}
	return append(entries, fromJSON...), warn, nil
}

func writeWorkbook(w http.ResponseWriter, cfg config.Config, res pipeline.Result) error {
	tmpl, err := export.OpenTemplate(cfg.TemplatePath)
	if err != nil {
		return err
	}
	defer tmpl.Close()

	cells, err := export.Grid(res.Rows, export.DefaultStartRow)
	if err != nil {
		return err
	}
	if err := export.NewTemplateExporter(tmpl, cfg.TemplateSheet).Write(cells); err != nil {
		return err
	}
	buf, err := tmpl.WriteToBuffer()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="offer-%s.xlsx"`, res.RunID))
	w.Header().Set("X-Match-Status", string(res.Status))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(buf.Bytes())
	return err
}
