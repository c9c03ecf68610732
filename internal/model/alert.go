package model

import "time"

// ExpiryResult is the evaluated state of one item at a point in time.
// DaysLeft is negative once the item has expired.
type ExpiryResult struct {
	ItemID     string
	Name       string
	DaysLeft   int
	ExpiryDate time.Time
}

// Expired reports whether the item is past its expiry date.
func (r ExpiryResult) Expired() bool {
	return r.DaysLeft < 0
}

// AlertGroup bundles the alert-worthy items of one user with the address
// the summary is sent to.
type AlertGroup struct {
	UserID string
	Email  string
	Items  []ExpiryResult
}
