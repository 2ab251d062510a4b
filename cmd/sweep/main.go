package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/config"
	"github.com/meenmo/cdslib/report"
)

func main() {
	configPath := flag.String("config", "", "YAML or JSON calibration config path")
	bumps := flag.String("bumps", "-10,0,10", "Comma-separated parallel spread shifts in bps")
	workers := flag.Int("workers", 0, "Concurrent calibrations (0 = number of CPUs)")
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

	scenarios, err := parseBumps(*bumps)
	if err != nil {
		logger.Fatalf("invalid -bumps: %v", err)
	}

	quotes, err := cfg.BuildQuotes()
	if err != nil {
		logger.Fatalf("invalid quotes: %v", err)
	}
	dc, err := cfg.BuildDiscountCurve()
	if err != nil {
		logger.Fatalf("invalid discount curve: %v", err)
	}
	params := cfg.BuildParams()

	logger.WithFields(logrus.Fields{
		"scenarios": len(scenarios),
		"workers":   *workers,
	}).Info("running scenario sweep")

	results, err := cds.RunScenarios(context.Background(), quotes, scenarios, dc, params, *workers)
	if err != nil {
		logger.Fatalf("sweep failed: %v", err)
	}

	// Deltas are reported against an unbumped calibration even when the
	// bump list omits zero.
	base, err := cds.Calibrate(quotes, dc, params)
	if err != nil {
		logger.Fatalf("base calibration failed: %v", err)
	}
	baseSegments := base.Curve.Segments()
	horizon := base.Curve.End()

	for _, sr := range results {
		fmt.Printf("%s (%+.0f bps)\n", sr.Scenario.Name, sr.Scenario.BumpBPS)
		if err := report.WriteHazardTable(os.Stdout, sr.Result.Curve.Segments()); err != nil {
			logger.Fatalf("render hazard table: %v", err)
		}

		pv01, err := cds.PV01(sr.Result.Curve, dc, horizon, params)
		if err != nil {
			logger.Fatalf("pv01 for %s: %v", sr.Scenario.Name, err)
		}
		for i, seg := range sr.Result.Curve.Segments() {
			fmt.Printf("  [%5.2fy] hazard %+.6e vs base\n", seg.End, seg.Rate-baseSegments[i].Rate)
		}
		fmt.Printf("  PV01 at %.2fy: %.8f\n\n", horizon, pv01)
	}
}

func parseBumps(list string) ([]cds.Scenario, error) {
	parts := strings.Split(list, ",")
	scenarios := make([]cds.Scenario, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		bump, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %v", trimmed, err)
		}
		name := "base"
		if bump != 0 {
			name = fmt.Sprintf("%+gbps", bump)
		}
		scenarios = append(scenarios, cds.Scenario{Name: name, BumpBPS: bump})
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios")
	}
	return scenarios, nil
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
	fmt.Println("  sweep -config /path/to/config.yaml [-bumps -25,0,25] [-workers 4]")
	fmt.Println()
	fmt.Println("Recalibrate the hazard curve under parallel spread shifts and print")
	fmt.Println("one hazard table per scenario.")
}
