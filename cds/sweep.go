package cds

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/cdslib/curve"
)

// Scenario is a parallel shift of every quoted spread, in basis points.
type Scenario struct {
	Name    string
	BumpBPS float64
}

// ScenarioResult pairs a scenario with its independently calibrated curve.
type ScenarioResult struct {
	Scenario Scenario
	Result   Result
}

// RunScenarios calibrates one hazard curve per scenario, bumping every
// quote by the scenario's shift. Each calibration is an independent run
// over immutable inputs, so runs execute concurrently on a bounded pool;
// the bootstrap inside each run stays strictly sequential. Results preserve
// scenario order.
//
// workers <= 0 uses the number of CPUs.
func RunScenarios(ctx context.Context, quotes []Quote, scenarios []Scenario, dc curve.DiscountCurve, params Params, workers int) ([]ScenarioResult, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("RunScenarios: scenarios are required")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]ScenarioResult, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, scenario := range scenarios {
		i, scenario := i, scenario
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bumped := make([]Quote, len(quotes))
			for j, q := range quotes {
				bumped[j] = Quote{Maturity: q.Maturity, SpreadBPS: q.SpreadBPS + scenario.BumpBPS}
			}
			result, err := Calibrate(bumped, dc, params)
			if err != nil {
				return fmt.Errorf("RunScenarios: %s: %w", scenario.Name, err)
			}
			results[i] = ScenarioResult{Scenario: scenario, Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
