package service

import (
	"strconv"
	"strings"

	"pricematch-service/internal/matching/model"
)

// Filter оставляет кандидатов с Score >= minScore и, если keyword не пуст,
// те, у которых keyword (без учёта регистра) встречается хотя бы в одном поле
// записи: поля прайса, поставщик, оценка, текст строки ТЗ. Порядок сохраняется.
func Filter(results []model.MatchCandidate, minScore int, keyword string) []model.MatchCandidate {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]model.MatchCandidate, 0, len(results))
	for _, c := range results {
		if c.Score < minScore {
			continue
		}
		if kw != "" && !containsKeyword(c, kw) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsKeyword(c model.MatchCandidate, kw string) bool {
	for _, s := range recordStrings(c) {
		if strings.Contains(strings.ToLower(s), kw) {
			return true
		}
	}
	return false
}

// recordStrings — все поля выгружаемой записи в строковом виде.
func recordStrings(c model.MatchCandidate) []string {
	out := make([]string, 0, len(c.Row.Columns)+3)
	for _, col := range c.Row.Columns {
		out = append(out, c.Row.Field(col).String())
	}
	return append(out, c.Row.Supplier, strconv.Itoa(c.Score), c.SpecLine.RawText)
}

// WithUnmatched добавляет строку-заглушку (Score 0) для каждой строки ТЗ,
// у которой после фильтрации не осталось кандидатов. Порядок — по строкам ТЗ.
func WithUnmatched(lines []model.SpecLine, filtered []model.MatchCandidate) []model.MatchCandidate {
	byLine := make(map[int][]model.MatchCandidate, len(lines))
	for _, c := range filtered {
		byLine[c.SpecLine.Index] = append(byLine[c.SpecLine.Index], c)
	}
	out := make([]model.MatchCandidate, 0, len(filtered)+len(lines))
	for _, l := range lines {
		if g, ok := byLine[l.Index]; ok {
			out = append(out, g...)
			continue
		}
		out = append(out, model.MatchCandidate{SpecLine: l, Unmatched: true})
	}
	return out
}
