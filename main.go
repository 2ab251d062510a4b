package main

import (
	"fmt"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/curve"
)

func main() {
	quotes := []cds.Quote{
		{Maturity: 0.5, SpreadBPS: 62.0},
		{Maturity: 1, SpreadBPS: 68.0},
		{Maturity: 2, SpreadBPS: 79.0},
		{Maturity: 3, SpreadBPS: 88.0},
		{Maturity: 4, SpreadBPS: 96.0},
		{Maturity: 5, SpreadBPS: 103.0},
		{Maturity: 7, SpreadBPS: 112.0},
		{Maturity: 10, SpreadBPS: 119.0},
	}

	dc := curve.Flat{Rate: 0.025}
	params := cds.DefaultParams()

	result, err := cds.Calibrate(quotes, dc, params)
	if err != nil {
		panic(err)
	}

	for i, seg := range result.Curve.Segments() {
		fmt.Printf("[%5.2fy, %5.2fy]  hazard %.6f  residual %+.3e bps\n",
			seg.Start, seg.End, seg.Rate, result.ParErrors[i]*10000)
	}

	spread, err := cds.ParSpread(result.Curve, dc, 5.0, params)
	if err != nil {
		panic(err)
	}
	pv01, err := cds.PV01(result.Curve, dc, 5.0, params)
	if err != nil {
		panic(err)
	}

	fmt.Printf("5Y par spread: %.4f bps\n", spread*10000)
	fmt.Printf("5Y PV01: %.6f\n", pv01)
}
