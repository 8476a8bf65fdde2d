package importer

import (
	"testing"
	"time"
)

func TestNormalizeRow(t *testing.T) {
	row := []string{
		" 0103B ", "", "CANADIAN CLUB", "1.75 LTR", "4 YRS",
		"80", "6", "$24.95", "",
	}

	fields := NormalizeRow(row, PriceRowKeys)

	if fields["code"] != "0103B" {
		t.Errorf("code = %q, want %q", fields["code"], "0103B")
	}
	if fields["title"] != "CANADIAN CLUB" {
		t.Errorf("title = %q, want %q", fields["title"], "CANADIAN CLUB")
	}
	if fields["size"] != "1.75 LTR" {
		t.Errorf("size = %q, want %q", fields["size"], "1.75 LTR")
	}
	if fields["price"] != "$24.95" {
		t.Errorf("price = %q, want %q", fields["price"], "$24.95")
	}
}

func TestNormalizeRowShortRow(t *testing.T) {
	fields := NormalizeRow([]string{"123", "NEW"}, PriceRowKeys)

	if len(fields) != 2 {
		t.Fatalf("len(fields) = %d, want 2", len(fields))
	}
	if fields["code"] != "123" {
		t.Errorf("code = %q, want %q", fields["code"], "123")
	}
	if _, ok := fields["title"]; ok {
		t.Error("short row should leave trailing keys absent")
	}
}

func TestNormalizeRowSurplusCells(t *testing.T) {
	row := make([]string, len(PriceRowKeys)+3)
	for i := range row {
		row[i] = "x"
	}

	fields := NormalizeRow(row, PriceRowKeys)
	if len(fields) != len(PriceRowKeys) {
		t.Errorf("len(fields) = %d, want %d", len(fields), len(PriceRowKeys))
	}
}

func TestNormalizeRowHistoryKeys(t *testing.T) {
	row := []string{"2012", "6", "0102B", "CANADIAN LTD", "1.75 LTR", "0", "", "80", "6", "13.95"}

	fields := NormalizeRow(row, HistoryRowKeys)

	if fields["year"] != "2012" {
		t.Errorf("year = %q, want %q", fields["year"], "2012")
	}
	if fields["month"] != "6" {
		t.Errorf("month = %q, want %q", fields["month"], "6")
	}
	if fields["code"] != "0102B" {
		t.Errorf("code = %q, want %q", fields["code"], "0102B")
	}
	if fields["price"] != "13.95" {
		t.Errorf("price = %q, want %q", fields["price"], "13.95")
	}
}

func TestResolveEffectiveDate(t *testing.T) {
	now := time.Date(2012, time.June, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		fields   map[string]string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "explicit date wins",
			fields:   map[string]string{"price_effective_date": "10/01/2012", "year": "2011", "month": "2"},
			expected: time.Date(2012, time.October, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year and month pair",
			fields:   map[string]string{"year": "2012", "month": "6"},
			expected: time.Date(2012, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year and month as floats",
			fields:   map[string]string{"year": "2012.0", "month": "11.0"},
			expected: time.Date(2012, time.November, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "empty falls to next month",
			fields:   map[string]string{},
			expected: time.Date(2012, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "malformed explicit date",
			fields:  map[string]string{"price_effective_date": "2012-10-01"},
			wantErr: true,
		},
		{
			name:    "malformed month",
			fields:  map[string]string{"year": "2012", "month": "June"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ResolveEffectiveDate(tt.fields, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveEffectiveDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !result.Equal(tt.expected) {
				t.Errorf("ResolveEffectiveDate() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNextMonthStart(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "mid year",
			now:      time.Date(2012, time.June, 15, 10, 30, 0, 0, time.UTC),
			expected: time.Date(2012, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "december rolls into january",
			now:      time.Date(2012, time.December, 31, 23, 59, 0, 0, time.UTC),
			expected: time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "first of month still advances",
			now:      time.Date(2012, time.June, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2012, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NextMonthStart(tt.now)
			if !result.Equal(tt.expected) {
				t.Errorf("NextMonthStart(%v) = %v, want %v", tt.now, result, tt.expected)
			}
		})
	}
}
