package model

import "fmt"

// ValidationError reports a record from an upstream source that is missing
// a required field or carries an unusable value.
type ValidationError struct {
	Record string // "user" or "item"
	ID     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s: %s %s", e.Record, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %s: %s %s", e.Record, e.ID, e.Field, e.Reason)
}
