package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pricematch-service/internal/matching/model"
)

func atoi(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("not an integer: %q", s)
	}
	return i, nil
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// matchOptions накладывает параметры запроса на опции по умолчанию.
func matchOptions(r *http.Request, base model.Options) (model.Options, error) {
	opt := base
	var err error
	if opt.TopN, err = atoi(r.FormValue("top_n"), base.TopN); err != nil {
		return opt, fmt.Errorf("top_n: %w", err)
	}
	if opt.TopN < 1 {
		return opt, fmt.Errorf("top_n must be >= 1")
	}
	if opt.MinScore, err = atoi(r.FormValue("min_score"), base.MinScore); err != nil {
		return opt, fmt.Errorf("min_score: %w", err)
	}
	if opt.MinScore < 0 || opt.MinScore > 100 {
		return opt, fmt.Errorf("min_score must be within 0..100")
	}
	if s := strings.TrimSpace(r.FormValue("scorer")); s != "" {
		opt.Scorer = s
	}
	opt.Keyword = strings.TrimSpace(r.FormValue("keyword"))
	opt.IncludeUnmatched = toBool(r.FormValue("include_unmatched"), base.IncludeUnmatched)
	opt.Unify = toBool(r.FormValue("unify"), base.Unify)
	opt.StripPunct = toBool(r.FormValue("strip_punct"), base.StripPunct)
	opt.AttachUnits = toBool(r.FormValue("attach_units"), base.AttachUnits)
	opt.Stem = toBool(r.FormValue("stem"), base.Stem)
	return opt, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}
