package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/gimago/cyclenotify/internal/model"
)

func TestQuoteTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"cycle_items", `"cycle_items"`, false},
		{" public.cycle_items ", `"public"."cycle_items"`, false},
		{`odd"name`, `"odd""name"`, false},
		{"", "", true},
		{"a.b.c", "", true},
		{"public.", "", true},
	}

	for _, tt := range tests {
		got, err := QuoteTable(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("QuoteTable(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("QuoteTable(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("QuoteTable(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestListItemsQuery_UsesQuotedTable(t *testing.T) {
	t.Parallel()

	r := &Repository{itemsTable: `"public"."cycle_items"`}
	q := r.listItemsQuery()
	if !strings.Contains(q, `FROM "public"."cycle_items"`) {
		t.Errorf("query does not select from quoted table:\n%s", q)
	}
	if !strings.Contains(q, "to_json(start_date)") {
		t.Errorf("start_date should be read in ISO 8601 form:\n%s", q)
	}
}

func TestParseStartDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-06-10", "2024-06-10 08:30:00+00", " 2024-06-10"} {
		if got := parseStartDate(in, time.UTC); !got.Equal(want) {
			t.Errorf("parseStartDate(%q) = %v, want %v", in, got, want)
		}
	}
	for _, in := range []string{"", "n/a", "10/06/2024"} {
		if got := parseStartDate(in, time.UTC); !got.IsZero() {
			t.Errorf("parseStartDate(%q) = %v, want zero", in, got)
		}
	}
}

func TestParseStartDate_ConvertsZonedTimestamps(t *testing.T) {
	t.Parallel()

	shanghai := time.FixedZone("CST", 8*3600)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-10T20:00:00+00:00", time.Date(2024, 6, 11, 0, 0, 0, 0, shanghai)},
		{"2024-06-10T02:00:00+00:00", time.Date(2024, 6, 10, 0, 0, 0, 0, shanghai)},
		{"2024-06-10T23:30:00", time.Date(2024, 6, 10, 0, 0, 0, 0, shanghai)},
		{"2024-06-10", time.Date(2024, 6, 10, 0, 0, 0, 0, shanghai)},
	}

	for _, tt := range tests {
		got := parseStartDate(tt.in, shanghai)
		if !got.Equal(tt.want) {
			t.Errorf("parseStartDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
		// Both data sources must agree on the calendar day.
		rest, err := model.ParseDate(tt.in, shanghai)
		if err != nil || !rest.Equal(got) {
			t.Errorf("model.ParseDate(%q) = %v, %v; repository gave %v", tt.in, rest, err, got)
		}
	}
}
