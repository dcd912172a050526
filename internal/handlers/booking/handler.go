package booking

import (
	"errors"
	"net/http"
	"staybook/infras/otel"
	"staybook/internal/domains/booking/model/dto"
	"staybook/internal/domains/booking/service"
	"staybook/shared/constant"
	"staybook/shared/failure"
	"staybook/shared/validator"
	"staybook/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Post("/{id}/confirm", handler.ConfirmBooking)
		routerGroup.Post("/{id}/check-in", handler.StartCheckIn)
		routerGroup.Post("/{id}/check-out", handler.CompleteCheckOut)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
	})

	router.Get("/users/{id}/bookings", handler.GetUserBookings)

	router.Route("/properties/{id}", func(routerGroup chi.Router) {
		routerGroup.Get("/bookings", handler.GetPropertyBookings)
		routerGroup.Get("/availability", handler.GetAvailability)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Create a pending booking for a property stay.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} dto.BookingResponse "Booking created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created " + booking.ID)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// ConfirmBooking confirms a pending booking and issues its access code.
// @Summary Confirm a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse "Booking confirmed"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/confirm [post]
func (handler *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Confirm(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to confirm booking")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute(constant.OtelStatusAttributeKey, booking.Status)

	response.WithJSON(w, http.StatusOK, booking)
}

// StartCheckIn moves a confirmed booking to active and returns the access code.
// @Summary Check in
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.CheckInResponse "Guest checked in"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/check-in [post]
func (handler *Handler) StartCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartCheckIn")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.StartCheckIn(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to start check-in")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute(constant.OtelStatusAttributeKey, res.Booking.Status)

	response.WithJSON(w, http.StatusOK, res)
}

// CompleteCheckOut completes an active booking.
// @Summary Check out
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse "Guest checked out"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/check-out [post]
func (handler *Handler) CompleteCheckOut(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteCheckOut")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.CompleteCheckOut(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to complete check-out")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute(constant.OtelStatusAttributeKey, booking.Status)

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking cancels a booking and records the refund owed.
// @Summary Cancel a booking
// @Description The body is optional. Refunds follow the configured cancellation policy.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelBookingRequest false "Cancel Booking Request"
// @Success 200 {object} dto.BookingResponse "Booking cancelled"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil && !errors.Is(err, failure.ErrEmptyRequest) {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Cancel(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute(constant.OtelStatusAttributeKey, booking.Status)

	response.WithJSON(w, http.StatusOK, booking)
}

// GetUserBookings lists the bookings made by a guest, oldest first.
// @Summary Get bookings of a user
// @Tags Booking
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.GetBookingsResponse "User bookings"
// @Failure 500 {object} response.Error
// @Router /v1/users/{id}/bookings [get]
func (handler *Handler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserBookings")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamID)

	bookings, err := handler.service.GetByUser(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetPropertyBookings lists the bookings of a property, oldest first.
// @Summary Get bookings of a property
// @Tags Booking
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} dto.GetBookingsResponse "Property bookings"
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id}/bookings [get]
func (handler *Handler) GetPropertyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPropertyBookings")
	defer scope.End()

	propertyID := chi.URLParam(r, constant.RequestParamID)

	bookings, err := handler.service.GetByProperty(ctx, propertyID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get property bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetAvailability lists free and booked days of a property between start and end inclusive.
// @Summary Get property availability
// @Tags Booking
// @Produce json
// @Param id path string true "Property ID"
// @Param start query string true "First day (2006-01-02)"
// @Param end query string true "Last day (2006-01-02)"
// @Success 200 {object} dto.AvailabilityResponse "Property availability"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/{id}/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	propertyID := chi.URLParam(r, constant.RequestParamID)
	req := dto.AvailabilityRequest{
		Start: r.URL.Query().Get(constant.RequestParamStart),
		End:   r.URL.Query().Get(constant.RequestParamEnd),
	}

	availability, err := handler.service.Availability(ctx, propertyID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, availability)
}
