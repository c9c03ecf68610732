// Package mail renders alert summaries and hands them to a delivery
// provider.
package mail

import (
	"context"
	"errors"
)

// Message is one outbound HTML email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender delivers a message. Implementations make a single attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// ErrNoRecipients is returned for a message without addresses.
var ErrNoRecipients = errors.New("message has no recipients")
