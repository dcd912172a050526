package model_test

import (
	"errors"
	"staybook/internal/domains/booking/model"
	"staybook/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() model.Booking {
	checkIn := time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:            "booking-1",
		PropertyID:    "property-1",
		GuestID:       "guest-1",
		HostID:        "host-1",
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 3),
		Guests:        2,
		Total:         425,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	all := []model.Status{
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusActive,
		model.StatusCompleted,
		model.StatusCancelled,
	}

	allowed := map[model.Status][]model.Status{
		model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
		model.StatusConfirmed: {model.StatusActive, model.StatusCancelled},
		model.StatusActive:    {model.StatusCompleted, model.StatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			expected := false

			for _, target := range allowed[from] {
				if target == to {
					expected = true
				}
			}

			assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, model.StatusPending.IsTerminal())
	assert.False(t, model.StatusConfirmed.IsTerminal())
	assert.False(t, model.StatusActive.IsTerminal())
	assert.True(t, model.StatusCompleted.IsTerminal())
	assert.True(t, model.StatusCancelled.IsTerminal())
	assert.True(t, model.Status("archived").IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := model.ParseStatus("active")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, status)

	_, err = model.ParseStatus("archived")
	assert.True(t, failure.IsInvalidArgument(err))
}

func TestBooking_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr string
	}{
		{name: "valid", mutate: func(_ *model.Booking) {}},
		{name: "missing id", mutate: func(b *model.Booking) { b.ID = "" }, wantErr: "booking id is required"},
		{name: "missing property", mutate: func(b *model.Booking) { b.PropertyID = "" }, wantErr: "property id is required"},
		{name: "missing guest", mutate: func(b *model.Booking) { b.GuestID = "" }, wantErr: "guest id is required"},
		{name: "missing host", mutate: func(b *model.Booking) { b.HostID = "" }, wantErr: "host id is required"},
		{name: "check-out equals check-in", mutate: func(b *model.Booking) { b.CheckOut = b.CheckIn }, wantErr: "check-out must be after check-in"},
		{name: "no guests", mutate: func(b *model.Booking) { b.Guests = 0 }, wantErr: "guests must be at least 1, got 0"},
		{name: "negative total", mutate: func(b *model.Booking) { b.Total = -1 }, wantErr: "total must not be negative, got -1"},
		{name: "unknown status", mutate: func(b *model.Booking) { b.Status = "archived" }, wantErr: "invalid booking status: archived"},
		{name: "unknown payment status", mutate: func(b *model.Booking) { b.PaymentStatus = "void" }, wantErr: "invalid payment status: void"},
		{name: "short access code", mutate: func(b *model.Booking) { b.AccessCode = "123" }, wantErr: "access code must be six digits"},
		{name: "refund above total", mutate: func(b *model.Booking) { b.RefundAmount = 426 }, wantErr: "refund amount must be between 0 and 425"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(&booking)

			err := booking.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, failure.IsInvalidArgument(err))
		})
	}
}

func TestBooking_TransitionTo(t *testing.T) {
	booking := validBooking()

	require.NoError(t, booking.TransitionTo(model.StatusConfirmed))
	assert.Equal(t, model.StatusConfirmed, booking.Status)

	err := booking.TransitionTo(model.StatusCompleted)
	assert.True(t, failure.IsInvalidState(err))
	assert.Equal(t, model.StatusConfirmed, booking.Status)

	require.NoError(t, booking.TransitionTo(model.StatusCancelled))

	for _, target := range []model.Status{model.StatusPending, model.StatusConfirmed, model.StatusActive, model.StatusCompleted, model.StatusCancelled} {
		assert.True(t, failure.IsInvalidState(booking.TransitionTo(target)))
		assert.Equal(t, model.StatusCancelled, booking.Status)
	}
}

func TestBooking_AssignAccessCode(t *testing.T) {
	booking := validBooking()
	calls := 0

	generate := func() (string, error) {
		calls++

		return "482913", nil
	}

	require.NoError(t, booking.AssignAccessCode(generate))
	require.NoError(t, booking.AssignAccessCode(func() (string, error) { return "111111", nil }))

	assert.Equal(t, "482913", booking.AccessCode)
	assert.Equal(t, 1, calls)

	fresh := validBooking()
	err := fresh.AssignAccessCode(func() (string, error) { return "", errors.New("entropy exhausted") })

	assert.ErrorContains(t, err, "failed to assign access code")
	assert.Empty(t, fresh.AccessCode)
}

func TestBooking_Nights(t *testing.T) {
	booking := validBooking()

	assert.Equal(t, []string{"2025-01-15", "2025-01-16", "2025-01-17"}, booking.Nights())
	assert.True(t, booking.BlocksCalendar())

	booking.Status = model.StatusCancelled
	assert.False(t, booking.BlocksCalendar())
}

func TestBooking_FieldValue(t *testing.T) {
	booking := validBooking()

	value, ok := booking.FieldValue(model.FieldGuestID)
	assert.True(t, ok)
	assert.Equal(t, "guest-1", value)

	value, ok = booking.FieldValue(model.FieldStatus)
	assert.True(t, ok)
	assert.Equal(t, model.StatusPending, value)

	_, ok = booking.FieldValue("unknown")
	assert.False(t, ok)
}
