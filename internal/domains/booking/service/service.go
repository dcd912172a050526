package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"staybook/config"
	"staybook/infras/notifier"
	"staybook/infras/otel"
	"staybook/internal/domains/booking/model"
	"staybook/internal/domains/booking/model/dto"
	"staybook/internal/domains/booking/policy"
	"staybook/internal/domains/booking/repository"
	"staybook/shared"
	"staybook/shared/accesscode"
	"staybook/shared/cache"
	"staybook/shared/constant"
	"staybook/shared/dates"
	"staybook/shared/failure"
	"staybook/shared/lock"
	"staybook/shared/logger"
	"staybook/shared/timezone"
	"staybook/shared/validator"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	cacheAvailability = "booking:availability"
	lockKeyBooking    = "booking"

	defaultCacheTTLSeconds     = 60
	defaultMaxAvailabilityDays = 366
	defaultLockTTL         = 10 * time.Second
	defaultNotifierTimeout = 5 * time.Second
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetByUser(ctx context.Context, userID string) (dto.GetBookingsResponse, error)
	GetByProperty(ctx context.Context, propertyID string) (dto.GetBookingsResponse, error)
	Confirm(ctx context.Context, id string) (dto.BookingResponse, error)
	StartCheckIn(ctx context.Context, id string) (dto.CheckInResponse, error)
	CompleteCheckOut(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	Availability(ctx context.Context, propertyID string, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	locker   lock.Locker
	notifier notifier.Notifier
	cache    cache.RedisCache
	cfg      *config.Config
	otel     otel.Otel
	refund   policy.Refund
	group    singleflight.Group
}

// New wires the booking lifecycle. cache may be nil, in which case availability is
// computed on every call.
func New(repo repository.Booking, locker lock.Locker, notifier notifier.Notifier, cache cache.RedisCache, cfg *config.Config, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		cache:    cache,
		cfg:      cfg,
		otel:     otel,
		refund:   policy.FromConfig(cfg),
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := req.ToModel(userFromContext(ctx))
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking request")

		return res, err //nolint:wrapcheck
	}

	if err = booking.Validate(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, wrap(err, "failed to create booking")
	}

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, booking.ID)

	s.invalidateAvailability(ctx, booking.PropertyID)
	s.notify(ctx, notifier.BookingCreated(subjectOf(booking), dates.FormatDateRange(booking.CheckIn, booking.CheckOut), booking.CreatedAt))

	logger.Ctx(ctx).Info().Str("booking_id", booking.ID).Msg("Booking notifications scheduled")

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, wrap(err, "failed to get booking")
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetByUser(ctx context.Context, userID string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bookings, err := s.repo.GetAll(ctx, shared.FilterByField(model.FieldGuestID, userID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get user bookings")

		return res, wrap(err, "failed to get user bookings")
	}

	res.FromModels(bookings)

	return res, nil
}

func (s *serviceImpl) GetByProperty(ctx context.Context, propertyID string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByProperty")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bookings, err := s.repo.GetAll(ctx, shared.FilterByField(model.FieldPropertyID, propertyID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("property_id", propertyID).Msg("failed to get property bookings")

		return res, wrap(err, "failed to get property bookings")
	}

	res.FromModels(bookings)

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, func(b *model.Booking, _ time.Time) error {
		if err := b.TransitionTo(model.StatusConfirmed); err != nil {
			return err //nolint:wrapcheck
		}

		b.PaymentStatus = model.PaymentStatusPaid

		return b.AssignAccessCode(accesscode.Generate)
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to confirm booking")

		return res, wrap(err, "failed to confirm booking")
	}

	s.notify(ctx, notifier.CheckInReminder(subjectOf(booking), booking.ModifiedAt))

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) StartCheckIn(ctx context.Context, id string) (res dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartCheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, func(b *model.Booking, _ time.Time) error {
		if err := b.TransitionTo(model.StatusActive); err != nil {
			return err //nolint:wrapcheck
		}

		return b.AssignAccessCode(accesscode.Generate)
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to start check-in")

		return res, wrap(err, "failed to start check-in")
	}

	s.notify(ctx, notifier.AccessCode(subjectOf(booking), booking.AccessCode, booking.ModifiedAt))

	res.AccessCode = booking.AccessCode
	res.Booking.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) CompleteCheckOut(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompleteCheckOut")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, func(b *model.Booking, _ time.Time) error {
		return b.TransitionTo(model.StatusCompleted)
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to complete check-out")

		return res, wrap(err, "failed to complete check-out")
	}

	s.notify(ctx, notifier.CleaningRequired(subjectOf(booking), booking.ModifiedAt))

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.transition(ctx, id, func(b *model.Booking, now time.Time) error {
		if err := b.TransitionTo(model.StatusCancelled); err != nil {
			return err //nolint:wrapcheck
		}

		refund := s.refund.Amount(b.CheckIn, now, b.Total)
		if refund > 0 {
			b.PaymentStatus = model.PaymentStatusRefunded
		}

		b.RefundAmount = refund
		b.CancellationReason = req.Reason
		b.CancelledAt = &now

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to cancel booking")

		return res, wrap(err, "failed to cancel booking")
	}

	s.invalidateAvailability(ctx, booking.PropertyID)

	logger.Ctx(ctx).Info().
		Str("booking_id", booking.ID).
		Int64("refund", booking.RefundAmount).
		Str("reason", booking.CancellationReason).
		Msg("Booking cancelled")

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Availability(ctx context.Context, propertyID string, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	start, err := dates.ParseDate(req.Start)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	end, err := dates.ParseDate(req.End)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if maxDays := s.maxAvailabilityDays(); end.After(start.AddDate(0, 0, maxDays-1)) {
		return res, failure.BadRequestFromString(fmt.Sprintf("availability range cannot exceed %d days", maxDays)) //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheAvailability, propertyID, dates.Day(start), dates.Day(end))

	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
			log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for availability")

			return res, nil
		}
	}

	// the shared call outlives any single caller's cancellation
	detached := context.WithoutCancel(ctx)

	value, err, _ := s.group.Do(cacheKey, func() (any, error) {
		return s.availability(detached, propertyID, start, end)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res, _ = value.(dto.AvailabilityResponse)

	if s.cache != nil {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cacheTTL()); err != nil {
				log.Error().Err(err).Msg("failed to save availability to cache")
			}
		}()
	}

	return res, nil
}

func (s *serviceImpl) availability(ctx context.Context, propertyID string, start, end time.Time) (dto.AvailabilityResponse, error) {
	bookings, err := s.repo.GetAll(ctx, shared.FilterByField(model.FieldPropertyID, propertyID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("property_id", propertyID).Msg("failed to get property bookings")

		return dto.AvailabilityResponse{}, wrap(err, "failed to get property bookings")
	}

	first, last := dates.Day(start), dates.Day(end)
	booked := []string{}

	for _, booking := range bookings {
		if !booking.BlocksCalendar() {
			continue
		}

		for _, night := range booking.Nights() {
			if night >= first && night <= last {
				booked = append(booked, night)
			}
		}
	}

	slices.Sort(booked)
	booked = slices.Compact(booked)

	return dto.AvailabilityResponse{
		PropertyID:     propertyID,
		Start:          first,
		End:            last,
		AvailableDates: dates.AvailableDatesInRange(start, end, booked),
		BookedDates:    booked,
	}, nil
}

// transition runs fn under the booking's lock and commits the result atomically.
func (s *serviceImpl) transition(ctx context.Context, id string, fn func(b *model.Booking, now time.Time) error) (model.Booking, error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTTL())
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx, shared.BuildCacheKey(lockKeyBooking, id))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to lock booking")

		return model.Booking{}, fmt.Errorf("failed to lock booking: %w", err)
	}

	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to unlock booking")
		}
	}()

	user := userFromContext(ctx)
	now := timezone.Now()

	return s.repo.Mutate(ctx, id, func(b *model.Booking) error {
		if err := fn(b, now); err != nil {
			return err
		}

		b.Touch(user, now)

		return nil
	})
}

// notify delivers in the background. Failures are logged and never undo the committed change.
func (s *serviceImpl) notify(ctx context.Context, n notifier.Notification) {
	go func() {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifierTimeout())
		defer cancel()

		if err := s.notifier.Notify(c, n); err != nil {
			logger.Ctx(c).Error().
				Err(err).
				Str("type", string(n.Kind)).
				Str("booking_id", n.BookingID).
				Msg("failed to send notification")
		}
	}()
}

func (s *serviceImpl) invalidateAvailability(ctx context.Context, propertyID string) {
	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(cacheAvailability, propertyID))
}

func (s *serviceImpl) lockTTL() time.Duration {
	if s.cfg.Booking.LockTTLSeconds > 0 {
		return time.Duration(s.cfg.Booking.LockTTLSeconds) * time.Second
	}

	return defaultLockTTL
}

func (s *serviceImpl) notifierTimeout() time.Duration {
	if s.cfg.Notifier.TimeoutSeconds > 0 {
		return time.Duration(s.cfg.Notifier.TimeoutSeconds) * time.Second
	}

	return defaultNotifierTimeout
}

func (s *serviceImpl) maxAvailabilityDays() int {
	if s.cfg.Booking.MaxAvailabilityDays > 0 {
		return s.cfg.Booking.MaxAvailabilityDays
	}

	return defaultMaxAvailabilityDays
}

func (s *serviceImpl) cacheTTL() int {
	if s.cfg.Cache.TTL > 0 {
		return s.cfg.Cache.TTL
	}

	return defaultCacheTTLSeconds
}

func subjectOf(booking model.Booking) notifier.Subject {
	return notifier.Subject{
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		GuestID:    booking.GuestID,
		HostID:     booking.HostID,
	}
}

func userFromContext(ctx context.Context) string {
	if user, ok := ctx.Value(constant.ContextKeyUserID).(string); ok && user != constant.Empty {
		return user
	}

	return constant.ContextSystem
}

// wrap keeps domain failures intact so their message reaches the client unchanged.
func wrap(err error, msg string) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
