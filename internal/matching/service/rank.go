package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"pricematch-service/internal/matching/model"
)

// MinSpecLineLen — строки ТЗ короче (после trim) в подбор не попадают.
const MinSpecLineLen = 5

// \r\n (Windows), \n (Unix), одиночный \r (старый Mac)
var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// ParseSpecLines режет текст ТЗ по переводам строк и оставляет строки
// длиной от MinSpecLineLen символов. Index — номер строки в исходном тексте.
func ParseSpecLines(text string) []model.SpecLine {
	if text == "" {
		return nil
	}
	raw := lineBreak.Split(text, -1)
	out := make([]model.SpecLine, 0, len(raw))
	for i, l := range raw {
		if !eligible(l) {
			continue
		}
		out = append(out, model.SpecLine{Index: i, RawText: l})
	}
	return out
}

func eligible(line string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(line)) >= MinSpecLineLen
}

// Engine — полный перебор строк ТЗ × строк каталога, O(L×R).
// Индекса нет: каждая строка ТЗ сравнивается со всеми строками каталога.
type Engine struct {
	scorer  Scorer
	norm    Normalizer
	workers int
	log     zerolog.Logger
}

func NewEngine(opt model.Options, logger zerolog.Logger) (*Engine, error) {
	sc, err := ScorerByName(opt.Scorer)
	if err != nil {
		return nil, err
	}
	w := opt.Workers
	if w < 1 {
		w = 1
	}
	return &Engine{scorer: sc, norm: NewNormalizer(opt), workers: w, log: logger}, nil
}

type preparedRow struct {
	row  model.CatalogRow
	text string
}

type scoredRow struct {
	pos   int
	score int
}

// Rank возвращает не больше topN кандидатов на строку ТЗ, по убыванию
// оценки; при равенстве раньше идёт строка, стоящая раньше в каталоге.
// Сбой на одной строке ТЗ попадает в []LineError и не трогает остальные.
func (e *Engine) Rank(lines []model.SpecLine, catalog model.Catalog, topN int) (model.RankedResultSet, []model.LineError) {
	if len(lines) == 0 || len(catalog) == 0 {
		return model.RankedResultSet{}, nil
	}
	if topN < 1 {
		topN = model.DefaultTopN
	}

	rows := make([]preparedRow, len(catalog))
	for i, r := range catalog {
		rows[i] = preparedRow{row: r, text: e.norm.Row(r)}
	}

	groups := make([][]model.MatchCandidate, len(lines))
	errs := make([]error, len(lines))

	if e.workers == 1 || len(lines) == 1 {
		for i := range lines {
			groups[i], errs[i] = e.safeRankLine(lines[i], rows, topN)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < min(e.workers, len(lines)); w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					groups[i], errs[i] = e.safeRankLine(lines[i], rows, topN)
				}
			}()
		}
		for i := range lines {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	out := make(model.RankedResultSet, 0, len(lines)*topN)
	var lineErrs []model.LineError
	for i, g := range groups {
		if errs[i] != nil {
			e.log.Error().Err(errs[i]).Int("line", lines[i].Index).Msg("rank line failed")
			lineErrs = append(lineErrs, model.LineError{Line: lines[i], Err: errs[i].Error()})
			continue
		}
		out = append(out, g...)
	}
	return out, lineErrs
}

func (e *Engine) safeRankLine(line model.SpecLine, rows []preparedRow, topN int) (res []model.MatchCandidate, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res, err = nil, fmt.Errorf("panic while scoring line %d: %v", line.Index, rec)
		}
	}()
	return e.rankLine(line, rows, topN), nil
}

func (e *Engine) rankLine(line model.SpecLine, rows []preparedRow, topN int) []model.MatchCandidate {
	if !eligible(line.RawText) {
		return nil
	}
	query := e.norm.Text(line.RawText)

	scored := make([]scoredRow, len(rows))
	for i, r := range rows {
		scored[i] = scoredRow{pos: i, score: e.scorer(query, r.text)}
	}
	sort.SliceStable(scored, func(a, b int) bool { return scored[a].score > scored[b].score })
	if len(scored) > topN {
		scored = scored[:topN]
	}

	out := make([]model.MatchCandidate, len(scored))
	for i, s := range scored {
		out[i] = model.MatchCandidate{SpecLine: line, Row: rows[s.pos].row, Score: s.score}
	}
	return out
}
