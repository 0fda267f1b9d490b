// Package notification tells operators about events that need a human, such
// as a new owner waiting for verification.
package notification

import (
	"context"
	"errors"
)

// OwnerSignup is sent when a new owner registers and awaits verification.
type OwnerSignup struct {
	OwnerID     int64  `json:"owner_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type Notifier interface {
	NotifyOwnerSignup(ctx context.Context, n OwnerSignup) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) NotifyOwnerSignup(context.Context, OwnerSignup) error { return nil }

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyOwnerSignup(ctx context.Context, n OwnerSignup) error {
	var errs []error
	for _, next := range m {
		if err := next.NotifyOwnerSignup(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
