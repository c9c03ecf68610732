package model

import (
	"errors"
	"testing"
	"time"
)

func validItem() Item {
	return Item{
		ID:        "item-1",
		UserID:    "user-1",
		Name:      "Netflix",
		StartDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Duration:  1,
		Unit:      UnitMonths,
	}
}

func TestItem_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Item)
		field  string
	}{
		{"valid", func(*Item) {}, ""},
		{"missing id", func(i *Item) { i.ID = "" }, "id"},
		{"missing owner", func(i *Item) { i.UserID = " " }, "user_id"},
		{"missing name", func(i *Item) { i.Name = "" }, "name"},
		{"missing start date", func(i *Item) { i.StartDate = time.Time{} }, "start_date"},
		{"zero duration", func(i *Item) { i.Duration = 0 }, "duration"},
		{"negative duration", func(i *Item) { i.Duration = -3 }, "duration"},
		{"unknown unit", func(i *Item) { i.Unit = "weeks" }, "unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)

			err := item.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
			if verr.Record != "item" {
				t.Errorf("Record = %s, want item", verr.Record)
			}
		})
	}
}

func TestUnit_IsValid(t *testing.T) {
	t.Parallel()

	for _, u := range []Unit{UnitDays, UnitMonths, UnitYears} {
		if !u.IsValid() {
			t.Errorf("%q should be valid", u)
		}
	}
	for _, u := range []Unit{"", "day", "Weeks", "YEARS"} {
		if u.IsValid() {
			t.Errorf("%q should be invalid", u)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	shanghai := time.FixedZone("CST", 8*3600)

	tests := []struct {
		in   string
		loc  *time.Location
		want time.Time
	}{
		{"2024-03-05", nil, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{" 2024-03-05 ", time.UTC, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05", shanghai, time.Date(2024, 3, 5, 0, 0, 0, 0, shanghai)},
		{"2024-03-05T20:00:00Z", shanghai, time.Date(2024, 3, 6, 0, 0, 0, 0, shanghai)},
		{"2024-03-05T23:30:00", shanghai, time.Date(2024, 3, 5, 0, 0, 0, 0, shanghai)},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in, tt.loc)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "yesterday", "2024-13-01"} {
		if _, err := ParseDate(in, time.UTC); err == nil {
			t.Errorf("ParseDate(%q) expected error", in)
		}
	}
}

func TestUser_NotifyEmail(t *testing.T) {
	t.Parallel()

	u := User{ID: "u1"}
	if u.HasNotifyEmail() {
		t.Error("empty email should not count as configured")
	}
	u.NotifyEmail = "  "
	if u.HasNotifyEmail() {
		t.Error("blank email should not count as configured")
	}
	u.NotifyEmail = "a@example.com"
	if !u.HasNotifyEmail() {
		t.Error("expected email to be configured")
	}

	var verr *ValidationError
	if err := (&User{}).Validate(); !errors.As(err, &verr) {
		t.Errorf("Validate() on empty user = %v, want *ValidationError", err)
	}
}
