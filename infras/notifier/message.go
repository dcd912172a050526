package notifier

import (
	"fmt"
	"time"
)

const clockFormat = "3:04 PM"

// Subject identifies the booking a notification is about.
type Subject struct {
	BookingID  string
	PropertyID string
	GuestID    string
	HostID     string
}

func (s Subject) toGuest(kind Kind, at time.Time) Notification {
	return Notification{
		Kind:        kind,
		Recipient:   RecipientGuest,
		RecipientID: s.GuestID,
		BookingID:   s.BookingID,
		PropertyID:  s.PropertyID,
		OccurredAt:  at,
	}
}

func BookingCreated(s Subject, stay string, at time.Time) Notification {
	n := s.toGuest(KindBookingCreated, at)
	n.Title = "Booking Requested"
	n.Body = fmt.Sprintf("Your stay at %s for %s is awaiting confirmation.", s.PropertyID, stay)

	return n
}

func CheckInReminder(s Subject, at time.Time) Notification {
	n := s.toGuest(KindCheckInReminder, at)
	n.Title = "Check-in Tomorrow!"
	n.Body = fmt.Sprintf("Hi %s, your stay at %s begins tomorrow. We'll send check-in instructions soon.", s.GuestID, s.PropertyID)

	return n
}

func AccessCode(s Subject, code string, at time.Time) Notification {
	n := s.toGuest(KindAccessCode, at)
	n.Title = "Your Access Code is Ready"
	n.Body = fmt.Sprintf("Access code for %s: %s. Valid for your entire stay.", s.PropertyID, code)
	n.AccessCode = code

	return n
}

// CleaningRequired goes to the host once the guest has left.
func CleaningRequired(s Subject, checkedOutAt time.Time) Notification {
	return Notification{
		Kind:        KindCleaningRequired,
		Recipient:   RecipientHost,
		RecipientID: s.HostID,
		Title:       "Cleaning Required",
		Body:        fmt.Sprintf("Guest has checked out of %s at %s. Please prepare for cleaning.", s.PropertyID, checkedOutAt.Format(clockFormat)),
		BookingID:   s.BookingID,
		PropertyID:  s.PropertyID,
		OccurredAt:  checkedOutAt,
	}
}
