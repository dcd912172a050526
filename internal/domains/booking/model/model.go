package model

import (
	"fmt"
	"staybook/shared/accesscode"
	"staybook/shared/constant"
	"staybook/shared/dates"
	"staybook/shared/failure"
	"staybook/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldPropertyID         = "property_id"
	FieldGuestID            = "guest_id"
	FieldHostID             = "host_id"
	FieldCheckIn            = "check_in"
	FieldCheckOut           = "check_out"
	FieldGuests             = "guests"
	FieldTotal              = "total"
	FieldStatus             = "status"
	FieldPaymentStatus      = "payment_status"
	FieldAccessCode         = "access_code"
	FieldSpecialRequests    = "special_requests"
	FieldCancellationReason = "cancellation_reason"
	FieldRefundAmount       = "refund_amount"
	FieldCancelledAt        = "cancelled_at"
)

type Booking struct {
	ID                 string        `db:"id"`
	PropertyID         string        `db:"property_id"`
	GuestID            string        `db:"guest_id"`
	HostID             string        `db:"host_id"`
	CheckIn            time.Time     `db:"check_in"`
	CheckOut           time.Time     `db:"check_out"`
	Guests             int           `db:"guests"`
	Total              int64         `db:"total"`
	Status             Status        `db:"status"`
	PaymentStatus      PaymentStatus `db:"payment_status"`
	AccessCode         string        `db:"access_code"`
	SpecialRequests    string        `db:"special_requests"`
	CancellationReason string        `db:"cancellation_reason"`
	RefundAmount       int64         `db:"refund_amount"`
	CancelledAt        *time.Time    `db:"cancelled_at"`
	model.Metadata
}

// Validate checks every invariant a stored booking must satisfy.
func (b *Booking) Validate() error {
	switch {
	case b.ID == constant.Empty:
		return failure.InvalidArgument("booking id is required")
	case b.PropertyID == constant.Empty:
		return failure.InvalidArgument("property id is required")
	case b.GuestID == constant.Empty:
		return failure.InvalidArgument("guest id is required")
	case b.HostID == constant.Empty:
		return failure.InvalidArgument("host id is required")
	case !b.CheckOut.After(b.CheckIn):
		return failure.InvalidArgument("check-out must be after check-in")
	case b.Guests < 1:
		return failure.InvalidArgument(fmt.Sprintf("guests must be at least 1, got %d", b.Guests))
	case b.Total < 0:
		return failure.InvalidArgument(fmt.Sprintf("total must not be negative, got %d", b.Total))
	case !b.Status.IsValid():
		return failure.InvalidArgument(fmt.Sprintf("invalid booking status: %s", b.Status))
	case !b.PaymentStatus.IsValid():
		return failure.InvalidArgument(fmt.Sprintf("invalid payment status: %s", b.PaymentStatus))
	case b.AccessCode != constant.Empty && !accesscode.Valid(b.AccessCode):
		return failure.InvalidArgument("access code must be six digits")
	case b.RefundAmount < 0 || b.RefundAmount > b.Total:
		return failure.InvalidArgument(fmt.Sprintf("refund amount must be between 0 and %d", b.Total))
	}

	return nil
}

// TransitionTo moves the booking to target or fails with InvalidState, leaving it unchanged.
func (b *Booking) TransitionTo(target Status) error {
	if !b.Status.CanTransitionTo(target) {
		return failure.InvalidState(fmt.Sprintf("cannot move booking %s from %s to %s", b.ID, b.Status, target))
	}

	b.Status = target

	return nil
}

// AssignAccessCode sets a code only when none has been issued yet.
func (b *Booking) AssignAccessCode(generate func() (string, error)) error {
	if b.AccessCode != constant.Empty {
		return nil
	}

	code, err := generate()
	if err != nil {
		return fmt.Errorf("failed to assign access code: %w", err)
	}

	b.AccessCode = code

	return nil
}

func (b *Booking) Touch(user string, at time.Time) {
	b.ModifiedAt = at
	b.ModifiedBy = user
}

// Nights returns the calendar days the stay occupies.
func (b *Booking) Nights() []string {
	return dates.NightsBetween(b.CheckIn, b.CheckOut)
}

// BlocksCalendar reports whether the stay still holds its nights.
func (b *Booking) BlocksCalendar() bool {
	return b.Status != StatusCancelled
}

// MutableFields lists the columns a transition may change.
func (b *Booking) MutableFields() map[string]any {
	return map[string]any{
		FieldStatus:              b.Status,
		FieldPaymentStatus:       b.PaymentStatus,
		FieldAccessCode:          b.AccessCode,
		FieldCancellationReason:  b.CancellationReason,
		FieldRefundAmount:        b.RefundAmount,
		FieldCancelledAt:         b.CancelledAt,
		constant.FieldModifiedAt: b.ModifiedAt,
		constant.FieldModifiedBy: b.ModifiedBy,
	}
}

// FieldValue exposes filterable columns to in-memory filters.
func (b Booking) FieldValue(field string) (any, bool) {
	switch field {
	case FieldID:
		return b.ID, true
	case FieldPropertyID:
		return b.PropertyID, true
	case FieldGuestID:
		return b.GuestID, true
	case FieldHostID:
		return b.HostID, true
	case FieldStatus:
		return b.Status, true
	case FieldPaymentStatus:
		return b.PaymentStatus, true
	case constant.FieldCreatedBy:
		return b.CreatedBy, true
	default:
		return nil, false
	}
}
