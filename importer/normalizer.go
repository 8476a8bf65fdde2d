package importer

import (
	"fmt"
	"strings"
	"time"
)

// PriceRowKeys is the column layout of the monthly numeric price list,
// shared by the CSV and spreadsheet editions.
var PriceRowKeys = []string{
	"code", "status", "title", "size", "age", "proof", "per_case",
	"price", "price_effective_date",
}

// HistoryRowKeys is the column layout of the historical price archive.
// Unlike the monthly list, history rows carry an explicit year and month.
var HistoryRowKeys = []string{
	"year", "month", "code", "title", "size", "age", "status", "proof",
	"per_case", "price",
}

// NormalizeRow maps positional cells onto the given key list. Values are
// whitespace-trimmed. A short row leaves the trailing keys absent, which
// is never an error; surplus cells are dropped.
func NormalizeRow(row []string, keys []string) map[string]string {
	fields := make(map[string]string, len(keys))
	for i, key := range keys {
		if i >= len(row) {
			break
		}
		fields[key] = strings.TrimSpace(row[i])
	}
	return fields
}

// ResolveEffectiveDate applies the price-dating policy, in priority order:
// an explicit MM/DD/YYYY value wins, then an archive year/month pair
// (first of that month), then the first day of the month after now.
// The monthly price list populates neither year nor month, so the middle
// branch only fires for history rows.
func ResolveEffectiveDate(fields map[string]string, now time.Time) (time.Time, error) {
	if v := fields["price_effective_date"]; v != "" {
		t, err := time.Parse("01/02/2006", v)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid effective date %q: %w", v, err)
		}
		return t, nil
	}

	if y, m := fields["year"], fields["month"]; y != "" && m != "" {
		year, err := ParseIntFromFloat(y)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid year %q: %w", y, err)
		}
		month, err := ParseIntFromFloat(m)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid month %q: %w", m, err)
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
	}

	return NextMonthStart(now), nil
}

// NextMonthStart returns the first day of the month after t. December
// rolls into January of the following year.
func NextMonthStart(t time.Time) time.Time {
	if t.Month() == time.December {
		return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}
