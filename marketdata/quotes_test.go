package marketdata_test

import (
	"testing"
	"time"

	"github.com/meenmo/cdslib/cds"
	"github.com/meenmo/cdslib/marketdata"
)

func TestMapQuoteFeed(t *testing.T) {
	t.Parallel()

	feed := marketdata.NewMapQuoteFeed(map[string][]cds.Quote{
		"2026-08-28": {
			{Maturity: 5.0, SpreadBPS: 120.0},
			{Maturity: 1.0, SpreadBPS: 60.0},
		},
	})

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	quotes, err := feed.QuotesOn(date)
	if err != nil {
		t.Fatalf("QuotesOn error: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Maturity != 1.0 || quotes[1].Maturity != 5.0 {
		t.Fatalf("quotes not sorted by maturity: %+v", quotes)
	}

	if _, err := feed.QuotesOn(date.AddDate(0, 0, 1)); err == nil {
		t.Fatalf("expected error for missing date")
	}
}
