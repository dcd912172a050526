package dto_test

import (
	"staybook/internal/domains/booking/model"
	"staybook/internal/domains/booking/model/dto"
	"staybook/shared/failure"
	gModel "staybook/shared/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		PropertyID:      "property-1",
		GuestID:         "guest-1",
		HostID:          "host-1",
		CheckIn:         "2025-01-15",
		CheckOut:        "2025-01-18",
		Guests:          2,
		Total:           425,
		SpecialRequests: "Late arrival",
	}

	booking, err := req.ToModel("guest-1")

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, model.PaymentStatusPending, booking.PaymentStatus)
	assert.Equal(t, "Late arrival", booking.SpecialRequests)
	assert.Equal(t, "guest-1", booking.CreatedBy)
	assert.False(t, booking.CreatedAt.IsZero())
	assert.Equal(t, booking.CreatedAt, booking.ModifiedAt)
	assert.Empty(t, booking.AccessCode)
	assert.NoError(t, booking.Validate())

	other, err := req.ToModel("guest-1")
	require.NoError(t, err)
	assert.NotEqual(t, booking.ID, other.ID)
}

func TestCreateBookingRequest_ToModel_InvalidDate(t *testing.T) {
	req := dto.CreateBookingRequest{CheckIn: "tomorrow", CheckOut: "2025-01-18"}

	_, err := req.ToModel("guest-1")

	assert.True(t, failure.IsInvalidArgument(err))
}

func TestBookingResponse_FromModel(t *testing.T) {
	checkIn := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	cancelledAt := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)

	var res dto.BookingResponse
	res.FromModel(model.Booking{
		ID:                 "booking-1",
		PropertyID:         "property-1",
		GuestID:            "guest-1",
		HostID:             "host-1",
		CheckIn:            checkIn,
		CheckOut:           checkIn.AddDate(0, 0, 3),
		Guests:             2,
		Total:              1250,
		Status:             model.StatusCancelled,
		PaymentStatus:      model.PaymentStatusRefunded,
		CancellationReason: "Change of plans",
		RefundAmount:       1250,
		CancelledAt:        &cancelledAt,
		Metadata:           gModel.Metadata{CreatedBy: "guest-1"},
	})

	assert.Equal(t, "booking-1", res.ID)
	assert.Equal(t, 3, res.Nights)
	assert.Equal(t, "Jan 15 - Jan 18", res.Stay)
	assert.Equal(t, "$1,250", res.TotalFormatted)
	assert.Equal(t, "cancelled", res.Status)
	assert.Equal(t, "refunded", res.PaymentStatus)
	assert.Equal(t, int64(1250), res.RefundAmount)
	assert.Equal(t, "2025-01-10T09:30:00Z", res.CancelledAt)
	assert.Equal(t, "2025-01-15T00:00:00Z", res.CheckIn)
	assert.Equal(t, "guest-1", res.CreatedBy)
}

func TestGetBookingsResponse_FromModels(t *testing.T) {
	checkIn := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	models := []model.Booking{
		{ID: "b-1", CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 1)},
		{ID: "b-2", CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2)},
	}

	var res dto.GetBookingsResponse
	res.FromModels(models)

	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, "b-1", res.Bookings[0].ID)
	assert.Equal(t, "b-2", res.Bookings[1].ID)

	var empty dto.GetBookingsResponse
	empty.FromModels(nil)

	assert.NotNil(t, empty.Bookings)
	assert.Zero(t, empty.TotalData)
}
