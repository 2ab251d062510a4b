// Package marketdata supplies CDS spread quotes from static maps or a
// quote warehouse.
package marketdata

import (
	"fmt"
	"sort"
	"time"

	"github.com/meenmo/cdslib/cds"
)

// QuoteFeed supplies the quoted spread curve for a given trade date.
type QuoteFeed interface {
	QuotesOn(date time.Time) ([]cds.Quote, error)
}

// MapQuoteFeed is a static map-backed implementation for development and
// testing, keyed by date.
type MapQuoteFeed struct {
	quotes map[string][]cds.Quote
}

// NewMapQuoteFeed builds a feed from date-keyed quote sets. Keys use the
// 2006-01-02 layout.
func NewMapQuoteFeed(quotes map[string][]cds.Quote) *MapQuoteFeed {
	return &MapQuoteFeed{quotes: quotes}
}

// QuotesOn returns the quotes for the date, sorted ascending by maturity.
func (m *MapQuoteFeed) QuotesOn(date time.Time) ([]cds.Quote, error) {
	key := date.Format("2006-01-02")
	rows, ok := m.quotes[key]
	if !ok {
		return nil, fmt.Errorf("MapQuoteFeed: no quotes for %s", key)
	}
	out := append([]cds.Quote(nil), rows...)
	sort.Slice(out, func(i, j int) bool { return out[i].Maturity < out[j].Maturity })
	return out, nil
}
