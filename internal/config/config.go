package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"pricematch-service/internal/matching/model"
)

const (
	envPrefix     = "PRICEMATCH_"
	envConfigFile = "PRICEMATCH_CONFIG"
)

// ErrInvalidConfig — значение конфигурации вне допустимого диапазона.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	AllowOrigins string `koanf:"allow_origins"` // через запятую
	LogLevel     string `koanf:"log_level"`
	LogFile      string `koanf:"log_file"`
	MaxUploadMB  int    `koanf:"max_upload_mb"`

	MatchRPS   float64 `koanf:"match_rps"` // 0 — без ограничения
	MatchBurst int     `koanf:"match_burst"`

	TemplatePath  string `koanf:"template_path"`
	TemplateSheet string `koanf:"template_sheet"`

	TopN             int    `koanf:"top_n"`
	MinScore         int    `koanf:"min_score"`
	Workers          int    `koanf:"workers"`
	Scorer           string `koanf:"scorer"`
	IncludeUnmatched bool   `koanf:"include_unmatched"`
	Stem             bool   `koanf:"stem"`
}

// Default — значения по умолчанию.
func Default() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8082,
		AllowOrigins: "*",
		LogLevel:     "info",
		LogFile:      "logs/pricematch-service.log",
		MaxUploadMB:  256,
		MatchBurst:   4,
		TemplatePath: "templates/offer.xlsx",
		TopN:         model.DefaultTopN,
		MinScore:     model.DefaultMinScore,
		Workers:      1,
		Scorer:       model.ScorerTokenSort,
	}
}

// Load: defaults → YAML-файл из PRICEMATCH_CONFIG (если задан) → переменные
// окружения PRICEMATCH_* (PRICEMATCH_TOP_N → top_n).
func Load() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	case c.TopN < 1:
		return fmt.Errorf("%w: top_n must be >= 1", ErrInvalidConfig)
	case c.MinScore < 0 || c.MinScore > 100:
		return fmt.Errorf("%w: min_score must be within 0..100", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be >= 1", ErrInvalidConfig)
	case c.Scorer != model.ScorerTokenSort && c.Scorer != model.ScorerTokenSortDamerau:
		return fmt.Errorf("%w: unknown scorer %q", ErrInvalidConfig, c.Scorer)
	case c.MatchRPS < 0:
		return fmt.Errorf("%w: match_rps must be >= 0", ErrInvalidConfig)
	case c.MaxUploadMB < 1:
		return fmt.Errorf("%w: max_upload_mb must be >= 1", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Origins — список разрешённых CORS-источников.
func (c Config) Origins() []string {
	parts := strings.Split(c.AllowOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MatchOptions — опции подбора по умолчанию из конфигурации.
func (c Config) MatchOptions() model.Options {
	opt := model.DefaultOptions()
	opt.TopN = c.TopN
	opt.MinScore = c.MinScore
	opt.Workers = c.Workers
	opt.Scorer = c.Scorer
	opt.IncludeUnmatched = c.IncludeUnmatched
	opt.Stem = c.Stem
	return opt
}
