// Package notifier delivers booking notifications to guests and hosts.
// Delivery is best effort; callers log failures and move on.
package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"
	"time"
)

type Kind string

const (
	KindBookingCreated   Kind = "booking_created"
	KindCheckInReminder  Kind = "check_in_reminder"
	KindAccessCode       Kind = "access_code"
	KindCleaningRequired Kind = "cleaning_required"
)

type Recipient string

const (
	RecipientGuest Recipient = "guest"
	RecipientHost  Recipient = "host"
)

type Notification struct {
	Kind        Kind      `json:"type"`
	Recipient   Recipient `json:"recipient"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	BookingID   string    `json:"booking_id"`
	PropertyID  string    `json:"property_id"`
	AccessCode  string    `json:"access_code,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
