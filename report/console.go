package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/meenmo/cdslib/hazard"
)

// WriteHazardTable renders the calibrated segments as a console table.
func WriteHazardTable(w io.Writer, segments []hazard.Segment) error {
	table := tablewriter.NewWriter(w)
	table.Header("Start", "End", "Hazard")
	for _, seg := range segments {
		table.Append(
			fmt.Sprintf("%.2fy", seg.Start),
			fmt.Sprintf("%.2fy", seg.End),
			fmt.Sprintf("%.4f%%", seg.Rate*100),
		)
	}
	return table.Render()
}

// WritePricingTable renders per-tenor leg PVs.
func WritePricingTable(w io.Writer, rows []PricingRow) error {
	table := tablewriter.NewWriter(w)
	table.Header("Mat", "Premium", "Protection", "Net", "Coupon", "Accrual", "PV01/bp")
	for _, row := range rows {
		table.Append(
			fmt.Sprintf("%.1fy", row.Maturity),
			fmt.Sprintf("%.6f", row.Premium),
			fmt.Sprintf("%.6f", row.Protection),
			fmt.Sprintf("%.6f", row.Net),
			fmt.Sprintf("%.6f", row.Coupon),
			fmt.Sprintf("%.6f", row.Accrual),
			fmt.Sprintf("%.6f", row.PV01),
		)
	}
	return table.Render()
}

// WriteParTable renders the market vs model par spread reconciliation.
func WriteParTable(w io.Writer, rows []ParErrorRow) error {
	table := tablewriter.NewWriter(w)
	table.Header("Mat", "Market (bps)", "Model (bps)", "Error (bps)")
	for _, row := range rows {
		table.Append(
			fmt.Sprintf("%.1fy", row.Maturity),
			fmt.Sprintf("%.4f", row.MarketBPS),
			fmt.Sprintf("%.4f", row.ModelBPS),
			fmt.Sprintf("%.4f", row.ErrorBPS),
		)
	}
	return table.Render()
}
