package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"pricematch-service/internal/matching/model"
)

// Scorer возвращает схожесть query и candidate в диапазоне 0..100.
type Scorer func(query, candidate string) int

// ScorerByName выбирает метрику по имени из конфигурации.
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "", model.ScorerTokenSort:
		return TokenSortRatio, nil
	case model.ScorerTokenSortDamerau:
		return TokenSortDamerau, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
}

// tokenSort: нижний регистр + сортировка токенов (нож туристический == туристический нож)
func tokenSort(s string) string {
	t := strings.Fields(strings.ToLower(s))
	sort.Strings(t)
	return strings.Join(t, " ")
}

// TokenSortRatio — Indel-схожесть отсортированных токенов: 2*LCS/(|a|+|b|).
// Пустая строка с любой стороны даёт 0.
func TokenSortRatio(query, candidate string) int {
	ra := []rune(tokenSort(query))
	rb := []rune(tokenSort(candidate))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	lcs := lcsLength(ra, rb)
	return toPercent(2 * float64(lcs) / float64(len(ra)+len(rb)))
}

// TokenSortDamerau — 1 - DL/max(|a|,|b|) на отсортированных токенах.
func TokenSortDamerau(query, candidate string) int {
	a, b := tokenSort(query), tokenSort(candidate)
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	d := matchr.DamerauLevenshtein(a, b)
	return toPercent(1 - float64(d)/float64(max(la, lb)))
}

func toPercent(sim float64) int {
	p := int(math.Round(sim * 100))
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
