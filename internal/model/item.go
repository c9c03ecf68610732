package model

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the calendar unit of an item's duration.
type Unit string

const (
	UnitDays   Unit = "days"
	UnitMonths Unit = "months"
	UnitYears  Unit = "years"
)

// IsValid checks if the unit is one of the recognised calendar units.
func (u Unit) IsValid() bool {
	switch u {
	case UnitDays, UnitMonths, UnitYears:
		return true
	}
	return false
}

// DateLayout is the wire format of item start dates.
const DateLayout = "2006-01-02"

// Item is a user-owned cycle item that renews every Duration Units
// starting from StartDate.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	Duration  int       `json:"duration"`
	Unit      Unit      `json:"unit"`
}

// Validate checks that every field the evaluator depends on is present.
func (i *Item) Validate() error {
	fail := func(field, reason string) error {
		return &ValidationError{Record: "item", ID: i.ID, Field: field, Reason: reason}
	}

	switch {
	case strings.TrimSpace(i.ID) == "":
		return fail("id", "missing")
	case strings.TrimSpace(i.UserID) == "":
		return fail("user_id", "missing")
	case strings.TrimSpace(i.Name) == "":
		return fail("name", "missing")
	case i.StartDate.IsZero():
		return fail("start_date", "missing or unparseable")
	case i.Duration <= 0:
		return fail("duration", fmt.Sprintf("must be positive, got %d", i.Duration))
	case !i.Unit.IsValid():
		return fail("unit", fmt.Sprintf("unrecognised unit %q", i.Unit))
	}
	return nil
}

// ParseDate parses a start date as a calendar day in loc. Full RFC 3339
// timestamps are accepted and truncated to their calendar day.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Zoneless timestamps keep their calendar day.
		if len(s) > len(DateLayout) {
			if d, derr := time.ParseInLocation(DateLayout, s[:len(DateLayout)], loc); derr == nil {
				return d, nil
			}
		}
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}
