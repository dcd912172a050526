package dto

import (
	"staybook/internal/domains/booking/model"
	"staybook/shared/constant"
	"staybook/shared/dates"
	gDto "staybook/shared/dto"
	gModel "staybook/shared/model"
	"staybook/shared/price"
	"staybook/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	PropertyID      string `json:"property_id"      validate:"required,max=64"`
	GuestID         string `json:"guest_id"         validate:"required,max=64"`
	HostID          string `json:"host_id"          validate:"required,max=64"`
	CheckIn         string `json:"check_in"         validate:"required,calendar_date"`
	CheckOut        string `json:"check_out"        validate:"required,calendar_date"`
	Guests          int    `json:"guests"           validate:"gte=1"`
	Total           int64  `json:"total"            validate:"gte=0"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
}

// ToModel builds a pending booking. Invariants are checked by model.Booking.Validate.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	checkIn, err := dates.ParseDate(c.CheckIn)
	if err != nil {
		return model.Booking{}, err
	}

	checkOut, err := dates.ParseDate(c.CheckOut)
	if err != nil {
		return model.Booking{}, err
	}

	now := timezone.Now()

	return model.Booking{
		ID:              uuid.NewString(),
		PropertyID:      c.PropertyID,
		GuestID:         c.GuestID,
		HostID:          c.HostID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          c.Guests,
		Total:           c.Total,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		SpecialRequests: c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type AvailabilityRequest struct {
	Start string `json:"start" validate:"required,calendar_date"`
	End   string `json:"end"   validate:"required,calendar_date"`
}

type BookingResponse struct {
	ID                 string `json:"id"`
	PropertyID         string `json:"property_id"`
	GuestID            string `json:"guest_id"`
	HostID             string `json:"host_id"`
	CheckIn            string `json:"check_in"`
	CheckOut           string `json:"check_out"`
	Stay               string `json:"stay"`
	Nights             int    `json:"nights"`
	Guests             int    `json:"guests"`
	Total              int64  `json:"total"`
	TotalFormatted     string `json:"total_formatted"`
	Status             string `json:"status"`
	PaymentStatus      string `json:"payment_status"`
	AccessCode         string `json:"access_code,omitempty"`
	SpecialRequests    string `json:"special_requests,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	RefundAmount       int64  `json:"refund_amount"`
	CancelledAt        string `json:"cancelled_at,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	nights, _ := dates.CalculateNights(model.CheckIn, model.CheckOut)

	r.ID = model.ID
	r.PropertyID = model.PropertyID
	r.GuestID = model.GuestID
	r.HostID = model.HostID
	r.CheckIn = timezone.Format(model.CheckIn, constant.DateFormat)
	r.CheckOut = timezone.Format(model.CheckOut, constant.DateFormat)
	r.Stay = dates.FormatDateRange(model.CheckIn, model.CheckOut)
	r.Nights = nights
	r.Guests = model.Guests
	r.Total = model.Total
	r.TotalFormatted = price.FormatPrice(float64(model.Total))
	r.Status = model.Status.String()
	r.PaymentStatus = string(model.PaymentStatus)
	r.AccessCode = model.AccessCode
	r.SpecialRequests = model.SpecialRequests
	r.CancellationReason = model.CancellationReason
	r.RefundAmount = model.RefundAmount

	if model.CancelledAt != nil {
		r.CancelledAt = timezone.Format(*model.CancelledAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type CheckInResponse struct {
	AccessCode string          `json:"access_code"`
	Booking    BookingResponse `json:"booking"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking) {
	r.TotalData = len(models)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type AvailabilityResponse struct {
	PropertyID     string   `json:"property_id"`
	Start          string   `json:"start"`
	End            string   `json:"end"`
	AvailableDates []string `json:"available_dates"`
	BookedDates    []string `json:"booked_dates"`
}
