// Package model defines domain entities for the application.
package model

import "strings"

// User is a directory entry. NotifyEmail is empty when the user has not
// configured a notification address.
type User struct {
	ID          string `json:"id"`
	NotifyEmail string `json:"notify_email,omitempty"`
}

// HasNotifyEmail reports whether the user configured a delivery address.
func (u *User) HasNotifyEmail() bool {
	return strings.TrimSpace(u.NotifyEmail) != ""
}

// Validate checks the fields required to key the user in a directory.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return &ValidationError{Record: "user", Field: "id", Reason: "missing"}
	}
	return nil
}

// Directory maps user IDs to their notification email.
type Directory map[string]string

// Lookup returns the notification email of userID.
func (d Directory) Lookup(userID string) (string, bool) {
	email, ok := d[userID]
	return email, ok
}
