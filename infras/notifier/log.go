package notifier

import (
	"context"
	"staybook/shared/logger"
)

type logNotifier struct{}

// NewLog writes notifications to the application log instead of delivering them.
func NewLog() Notifier {
	return &logNotifier{}
}

func (l *logNotifier) Notify(ctx context.Context, n Notification) error {
	logger.Ctx(ctx).Info().
		Str("type", string(n.Kind)).
		Str("recipient", string(n.Recipient)).
		Str("recipient_id", n.RecipientID).
		Str("booking_id", n.BookingID).
		Str("property_id", n.PropertyID).
		Str("title", n.Title).
		Msg(n.Body)

	return nil
}
