package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meenmo/cdslib/calendar"
	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/config"
	"github.com/meenmo/cdslib/marketdata"
	"github.com/meenmo/cdslib/report"
	"github.com/meenmo/cdslib/store"
)

func main() {
	configPath := flag.String("config", "", "YAML or JSON calibration config path")
	persist := flag.Bool("store", false, "Persist the run to the configured SQLite store")
	quotesDSN := flag.String("quotes-dsn", "", "Postgres quote warehouse DSN (overrides config quotes)")
	reference := flag.String("reference", "", "Reference entity name for -quotes-dsn")
	quoteDate := flag.String("date", "", "Quote date as 2006-01-02 for -quotes-dsn (default today)")
	calName := flag.String("calendar", "USD", "Holiday calendar for quote-date rolling (USD, TARGET, NONE)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help || *configPath == "" {
		usage()
		if !*help {
			os.Exit(2)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.Log)

	var quotes []cds.Quote
	if *quotesDSN != "" {
		if *reference == "" {
			logger.Fatal("-quotes-dsn requires -reference")
		}
		feed, err := marketdata.OpenPGQuoteFeed(*quotesDSN, *reference, calendar.CalendarID(*calName))
		if err != nil {
			logger.Fatalf("open quote feed: %v", err)
		}
		defer feed.Close()
		quotes, err = quotesFromFeed(feed, *quoteDate)
		if err != nil {
			logger.Fatalf("load quotes: %v", err)
		}
	} else {
		quotes, err = cfg.BuildQuotes()
		if err != nil {
			logger.Fatalf("invalid quotes: %v", err)
		}
	}
	dc, err := cfg.BuildDiscountCurve()
	if err != nil {
		logger.Fatalf("invalid discount curve: %v", err)
	}
	params := cfg.BuildParams()

	logger.WithFields(logrus.Fields{
		"quotes":    len(quotes),
		"recovery":  params.RecoveryRate,
		"frequency": params.Frequency,
	}).Info("calibrating hazard curve")

	result, err := cds.Calibrate(quotes, dc, params)
	if err != nil {
		logger.Fatalf("calibration failed: %v", err)
	}

	pricing, err := report.PriceQuotes(result.Curve, dc, quotes, params)
	if err != nil {
		logger.Fatalf("pricing failed: %v", err)
	}
	parRows, err := report.ParReconciliation(result.Curve, dc, quotes, params)
	if err != nil {
		logger.Fatalf("par reconciliation failed: %v", err)
	}

	if err := report.WriteHazardTable(os.Stdout, result.Curve.Segments()); err != nil {
		logger.Fatalf("render hazard table: %v", err)
	}
	fmt.Println()
	if err := report.WritePricingTable(os.Stdout, report.Scale(pricing, cfg.Notional)); err != nil {
		logger.Fatalf("render pricing table: %v", err)
	}
	fmt.Println()
	if err := report.WriteParTable(os.Stdout, parRows); err != nil {
		logger.Fatalf("render par table: %v", err)
	}

	if *persist {
		if cfg.Storage.DSN == "" {
			logger.Fatal("-store requires storage.dsn in the config (or CDSLIB_STORE_DSN)")
		}
		s, err := store.Open(cfg.Storage.DSN)
		if err != nil {
			logger.Fatalf("open store: %v", err)
		}
		defer s.Close()

		runID, err := s.SaveRun(context.Background(), store.RunMeta{
			RecoveryRate: params.RecoveryRate,
			Frequency:    params.Frequency,
			Notional:     cfg.Notional,
		}, result)
		if err != nil {
			logger.Fatalf("persist run: %v", err)
		}
		logger.WithField("run_id", runID).Info("run persisted")
	}
}

// quotesFromFeed resolves the quote date (today when unset) and loads the
// spread curve from the feed.
func quotesFromFeed(feed marketdata.QuoteFeed, dateStr string) ([]cds.Quote, error) {
	date := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %v", dateStr, err)
		}
		date = parsed
	}
	return feed.QuotesOn(date)
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  calibrate -config /path/to/config.yaml [-store]")
	fmt.Println("  calibrate -config /path/to/config.yaml -quotes-dsn postgres://... -reference ACME -date 2026-08-28")
	fmt.Println()
	fmt.Println("Bootstrap a piecewise-constant hazard curve from CDS spread quotes")
	fmt.Println("and print hazard, pricing and par reconciliation tables.")
	fmt.Println()
	fmt.Println("Example config:")
	fmt.Println(`  quotes:`)
	fmt.Println(`    - { maturity: 1.0, spread_bps: 80 }`)
	fmt.Println(`    - { maturity: 5.0, spread_bps: 120 }`)
	fmt.Println(`  discount_curve: { type: flat, rate: 0.02 }`)
	fmt.Println(`  recovery_rate: 0.4`)
	fmt.Println(`  frequency: 4`)
	fmt.Println(`  notional: 10000000`)
}
