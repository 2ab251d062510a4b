package marketdata

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/meenmo/cdslib/calendar"
	"github.com/meenmo/cdslib/cds"
)

// PGQuoteFeed reads end-of-day CDS quotes from a Postgres quote warehouse.
//
// Expected table:
//
//	CREATE TABLE cds_quotes (
//	    quote_date     DATE             NOT NULL,
//	    reference_name TEXT             NOT NULL,
//	    maturity_years DOUBLE PRECISION NOT NULL,
//	    spread_bps     DOUBLE PRECISION NOT NULL,
//	    PRIMARY KEY (quote_date, reference_name, maturity_years)
//	);
type PGQuoteFeed struct {
	db        *sql.DB
	reference string
	cal       calendar.CalendarID
}

// OpenPGQuoteFeed connects to the warehouse for one reference entity.
// Requested dates roll back to the last business day on cal before lookup.
func OpenPGQuoteFeed(dsn, reference string, cal calendar.CalendarID) (*PGQuoteFeed, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("OpenPGQuoteFeed: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenPGQuoteFeed: ping: %w", err)
	}
	return &PGQuoteFeed{db: db, reference: reference, cal: cal}, nil
}

// QuotesOn loads the reference entity's spread curve for the date,
// ordered by maturity. Weekend and holiday dates resolve to the
// preceding publication day.
func (f *PGQuoteFeed) QuotesOn(date time.Time) ([]cds.Quote, error) {
	date = calendar.AdjustPreceding(f.cal, date)
	rows, err := f.db.Query(
		`SELECT maturity_years, spread_bps
		   FROM cds_quotes
		  WHERE quote_date = $1 AND reference_name = $2
		  ORDER BY maturity_years`,
		date.Format("2006-01-02"), f.reference,
	)
	if err != nil {
		return nil, fmt.Errorf("PGQuoteFeed.QuotesOn: %w", err)
	}
	defer rows.Close()

	var quotes []cds.Quote
	for rows.Next() {
		var q cds.Quote
		if err := rows.Scan(&q.Maturity, &q.SpreadBPS); err != nil {
			return nil, fmt.Errorf("PGQuoteFeed.QuotesOn: scan: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PGQuoteFeed.QuotesOn: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("PGQuoteFeed.QuotesOn: no quotes for %s on %s", f.reference, date.Format("2006-01-02"))
	}
	return quotes, nil
}

// Close releases the database handle.
func (f *PGQuoteFeed) Close() error {
	return f.db.Close()
}
