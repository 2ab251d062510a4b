// Package config loads calibration run files (YAML or JSON) and adapts
// them into core types.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/curve"
)

// Config is a complete calibration run specification.
type Config struct {
	Quotes        []QuoteConfig `yaml:"quotes" json:"quotes"`
	DiscountCurve CurveConfig   `yaml:"discount_curve" json:"discount_curve"`
	// RecoveryRate is a pointer so that an explicit 0.0 (zero recovery)
	// is distinguishable from an absent field.
	RecoveryRate *float64      `yaml:"recovery_rate" json:"recovery_rate"`
	Frequency    int           `yaml:"frequency" json:"frequency"`
	ISDA         ISDAConfig    `yaml:"isda_v" json:"isda_v"`
	Notional     float64       `yaml:"notional" json:"notional"`
	Storage      StorageConfig `yaml:"storage" json:"storage"`
	Log          LogConfig     `yaml:"log" json:"log"`
}

// QuoteConfig is one market quote row.
type QuoteConfig struct {
	Maturity  float64 `yaml:"maturity" json:"maturity"`
	SpreadBPS float64 `yaml:"spread_bps" json:"spread_bps"`
}

// CurveConfig selects the discount curve variant.
// Type "flat" uses Rate; type "pillars" interprets Pillars as
// (time, zero rate) pairs.
type CurveConfig struct {
	Type    string       `yaml:"type" json:"type"`
	Rate    float64      `yaml:"rate" json:"rate"`
	Pillars [][2]float64 `yaml:"pillars" json:"pillars"`
}

// ISDAConfig overrides the ISDA V timing conventions.
type ISDAConfig struct {
	StepInDays       *int     `yaml:"step_in_days" json:"step_in_days"`
	CashSettleDays   *int     `yaml:"cash_settle_days" json:"cash_settle_days"`
	DayCount         *float64 `yaml:"day_count" json:"day_count"`
	AccrualOnDefault *bool    `yaml:"accrual_on_default" json:"accrual_on_default"`
}

// StorageConfig controls optional run persistence.
type StorageConfig struct {
	DSN string `yaml:"dsn" json:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls log level and format for the command layer.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug | info | warn | error
	Format string `yaml:"format" json:"format"` // text | json
}

// Load reads a run file. `.yaml`/`.yml` parse as YAML, everything else as
// JSON. A `.env` file, when present, supplies environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse JSON: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides lets the environment take precedence for operational
// settings.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("CDSLIB_STORE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults fills the documented market defaults.
func setDefaults(cfg *Config) {
	if cfg.RecoveryRate == nil {
		recovery := 0.4
		cfg.RecoveryRate = &recovery
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = 4
	}
	if cfg.Notional == 0 {
		cfg.Notional = 1.0
	}
	if cfg.DiscountCurve.Type == "" {
		cfg.DiscountCurve.Type = "flat"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// BuildQuotes converts config rows to core quotes.
func (c *Config) BuildQuotes() ([]cds.Quote, error) {
	if len(c.Quotes) == 0 {
		return nil, fmt.Errorf("config.BuildQuotes: quotes missing from configuration")
	}
	quotes := make([]cds.Quote, len(c.Quotes))
	for i, q := range c.Quotes {
		if q.Maturity <= 0 {
			return nil, fmt.Errorf("config.BuildQuotes: maturity must be positive, got %.4f", q.Maturity)
		}
		quotes[i] = cds.Quote{Maturity: q.Maturity, SpreadBPS: q.SpreadBPS}
	}
	return quotes, nil
}

// BuildDiscountCurve constructs the configured discount curve variant.
func (c *Config) BuildDiscountCurve() (curve.DiscountCurve, error) {
	switch c.DiscountCurve.Type {
	case "flat":
		return curve.Flat{Rate: c.DiscountCurve.Rate}, nil
	case "pillars":
		pillars := make([]curve.Pillar, len(c.DiscountCurve.Pillars))
		for i, p := range c.DiscountCurve.Pillars {
			pillars[i] = curve.Pillar{Time: p[0], DF: p[1]}
		}
		built, err := curve.FromZeroRates(pillars)
		if err != nil {
			return nil, fmt.Errorf("config.BuildDiscountCurve: %w", err)
		}
		return built, nil
	default:
		return nil, fmt.Errorf("config.BuildDiscountCurve: unknown discount curve type %q", c.DiscountCurve.Type)
	}
}

// BuildParams assembles ISDA V parameters, applying defaults for any
// convention left unset.
func (c *Config) BuildParams() cds.Params {
	params := cds.DefaultParams()
	params.RecoveryRate = *c.RecoveryRate
	params.Frequency = c.Frequency
	if c.ISDA.StepInDays != nil {
		params.StepInDays = *c.ISDA.StepInDays
	}
	if c.ISDA.CashSettleDays != nil {
		params.CashSettleDays = *c.ISDA.CashSettleDays
	}
	if c.ISDA.DayCount != nil {
		params.DayCount = *c.ISDA.DayCount
	}
	if c.ISDA.AccrualOnDefault != nil {
		params.AccrualOnDefault = *c.ISDA.AccrualOnDefault
	}
	return params
}
