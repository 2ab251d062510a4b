package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/curve"
	"github.com/meenmo/cdslib/hazard"
)

// PricingInput defines the JSON input schema for single-name CDS pricing.
type PricingInput struct {
	TaskID string `json:"task_id,omitempty"`

	Maturity  float64 `json:"maturity"`
	CouponBPS float64 `json:"coupon_bps"`
	Notional  float64 `json:"notional"`

	HazardMaturities []float64 `json:"hazard_maturities"`
	HazardRates      []float64 `json:"hazard_rates"`

	DiscountRate float64 `json:"discount_rate"`

	RecoveryRate *float64 `json:"recovery_rate,omitempty"`
	Frequency    *int     `json:"frequency,omitempty"`
}

// PricingOutput defines the JSON output schema.
type PricingOutput struct {
	TaskID          string  `json:"task_id,omitempty"`
	PremiumLegPV    float64 `json:"premium_leg_pv"`
	CouponPV        float64 `json:"coupon_pv"`
	AccrualPV       float64 `json:"accrual_pv"`
	ProtectionLegPV float64 `json:"protection_leg_pv"`
	NetPV           float64 `json:"net_pv"`
	ParSpreadBPS    float64 `json:"par_spread_bps"`
	PV01            float64 `json:"pv01"`
	Error           string  `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (optional; if set, ignores stdin)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		usage()
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			usage()
			os.Exit(2)
		}
	}

	inputBytes, err := readInput(path)
	if err != nil {
		writeError(fmt.Sprintf("failed to read input: %v", err))
		return
	}

	inputs, isArray, err := parseInputs(inputBytes)
	if err != nil {
		writeError(fmt.Sprintf("failed to parse JSON input: %v", err))
		return
	}

	hadError := false
	outputs := make([]PricingOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := price(in)
		if err != nil {
			hadError = true
			outputs = append(outputs, PricingOutput{
				TaskID: in.TaskID,
				Error:  err.Error(),
			})
			continue
		}
		outputs = append(outputs, *out)
	}

	if isArray {
		outputBytes, _ := json.Marshal(outputs)
		fmt.Println(string(outputBytes))
	} else {
		outputBytes, _ := json.Marshal(outputs[0])
		fmt.Println(string(outputBytes))
	}

	if hadError {
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  cdsprice < input.json")
	fmt.Println("  cdsprice -input /path/to/input.json")
	fmt.Println()
	fmt.Println("Read JSON input, price a single-name CDS off a piecewise-constant")
	fmt.Println("hazard curve, output JSON to stdout.")
	fmt.Println()
	fmt.Println("Example input:")
	fmt.Println(`  {`)
	fmt.Println(`    "maturity": 5.0,`)
	fmt.Println(`    "coupon_bps": 100,`)
	fmt.Println(`    "notional": 10000000,`)
	fmt.Println(`    "hazard_maturities": [1.0, 3.0, 5.0],`)
	fmt.Println(`    "hazard_rates": [0.012, 0.018, 0.022],`)
	fmt.Println(`    "discount_rate": 0.02`)
	fmt.Println(`  }`)
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]PricingInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}

	if trimmed[0] == '[' {
		var inputs []PricingInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}

	var input PricingInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []PricingInput{input}, false, nil
}

func writeError(msg string) {
	output := PricingOutput{Error: msg}
	outputBytes, _ := json.Marshal(output)
	fmt.Println(string(outputBytes))
	os.Exit(1)
}

func price(input PricingInput) (*PricingOutput, error) {
	if input.Maturity <= 0 {
		return nil, fmt.Errorf("maturity must be positive")
	}
	if len(input.HazardMaturities) == 0 {
		return nil, fmt.Errorf("hazard_maturities is required")
	}

	hc, err := hazard.FromRates(input.HazardMaturities, input.HazardRates)
	if err != nil {
		return nil, fmt.Errorf("invalid hazard curve: %v", err)
	}

	dc := curve.Flat{Rate: input.DiscountRate}

	params := cds.DefaultParams()
	if input.RecoveryRate != nil {
		params.RecoveryRate = *input.RecoveryRate
	}
	if input.Frequency != nil {
		params.Frequency = *input.Frequency
	}

	notional := input.Notional
	if notional == 0 {
		notional = 1.0
	}
	coupon := input.CouponBPS / 10000.0

	premium, err := cds.PremiumLeg(hc, dc, input.Maturity, coupon, params)
	if err != nil {
		return nil, err
	}
	protection, err := cds.ProtectionLeg(hc, dc, input.Maturity, params)
	if err != nil {
		return nil, err
	}
	parSpread, err := cds.ParSpread(hc, dc, input.Maturity, params)
	if err != nil {
		return nil, err
	}
	pv01, err := cds.PV01(hc, dc, input.Maturity, params)
	if err != nil {
		return nil, err
	}

	return &PricingOutput{
		TaskID:          input.TaskID,
		PremiumLegPV:    premium.Total() * notional,
		CouponPV:        premium.CouponPV * notional,
		AccrualPV:       premium.AccrualOnDefaultPV * notional,
		ProtectionLegPV: protection * notional,
		NetPV:           (protection - premium.Total()) * notional,
		ParSpreadBPS:    parSpread * 10000.0,
		PV01:            pv01 * notional,
	}, nil
}
