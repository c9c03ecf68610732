// Package expiry computes when cycle items expire and whether they fall
// inside the alert window.
package expiry

import (
	"math"
	"time"

	"github.com/gimago/cyclenotify/internal/model"
)

// Alert window bounds in days left, inclusive on both ends.
const (
	WindowMin = -7
	WindowMax = 3
)

const day = 24 * time.Hour

// ExpiryDate adds the item's duration to its start date. Month and year
// arithmetic follows time.AddDate normalisation, so Jan 31 + 1 month lands
// in March. An unrecognised unit leaves the start date unchanged.
func ExpiryDate(item model.Item) time.Time {
	switch item.Unit {
	case model.UnitDays:
		return item.StartDate.AddDate(0, 0, item.Duration)
	case model.UnitMonths:
		return item.StartDate.AddDate(0, item.Duration, 0)
	case model.UnitYears:
		return item.StartDate.AddDate(item.Duration, 0, 0)
	default:
		return item.StartDate
	}
}

// DaysLeft returns the number of days from now until expiry, rounded up.
// Negative values count days since expiry.
func DaysLeft(expiry, now time.Time) int {
	return int(math.Ceil(float64(expiry.Sub(now)) / float64(day)))
}

// InWindow reports whether daysLeft is alert-worthy.
func InWindow(daysLeft int) bool {
	return daysLeft >= WindowMin && daysLeft <= WindowMax
}

// Evaluate computes the expiry state of item at now and reports whether it
// belongs in an alert.
func Evaluate(item model.Item, now time.Time) (model.ExpiryResult, bool) {
	end := ExpiryDate(item)
	left := DaysLeft(end, now)

	return model.ExpiryResult{
		ItemID:     item.ID,
		Name:       item.Name,
		DaysLeft:   left,
		ExpiryDate: end,
	}, InWindow(left)
}
