package service_test

import (
	"context"
	"errors"
	"staybook/config"
	"staybook/infras/notifier"
	notifierMocks "staybook/infras/notifier/mocks"
	"staybook/infras/otel/mocks"
	bookingMocks "staybook/internal/domains/booking/mocks"
	"staybook/internal/domains/booking/model"
	"staybook/internal/domains/booking/model/dto"
	"staybook/internal/domains/booking/repository"
	"staybook/internal/domains/booking/service"
	"staybook/shared/accesscode"
	"staybook/shared/cache"
	cacheMocks "staybook/shared/cache/mocks"
	"staybook/shared/constant"
	"staybook/shared/failure"
	"staybook/shared/lock"
	lockMocks "staybook/shared/lock/mocks"
	"staybook/shared/timezone"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const waitTimeout = 2 * time.Second

type fixture struct {
	svc  service.Booking
	repo repository.Booking
	sent chan notifier.Notification
}

func newFixture(t *testing.T, redisCache cache.RedisCache, notifyErr error) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockNotifier := notifierMocks.NewMockNotifier(ctrl)
	sent := make(chan notifier.Notification, 32)

	mockNotifier.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n notifier.Notification) error {
			sent <- n

			return notifyErr
		}).
		AnyTimes()

	repo := repository.NewMemory(mocks.NewOtel())
	svc := service.New(repo, lock.NewMemory(), mockNotifier, redisCache, &config.Config{}, mocks.NewOtel())

	return &fixture{svc: svc, repo: repo, sent: sent}
}

func (f *fixture) await(t *testing.T) notifier.Notification {
	t.Helper()

	select {
	case n := <-f.sent:
		return n
	case <-time.After(waitTimeout):
		t.Fatal("notification was not sent")

		return notifier.Notification{}
	}
}

func userContext(user string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, user)
}

func createRequest(checkIn, checkOut string, total int64) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		PropertyID: "property-1",
		GuestID:    "guest-1",
		HostID:     "host-1",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
		Total:      total,
	}
}

// stayFromNow returns an RFC3339 check-in hoursAhead from now and a check-out three days later.
func stayFromNow(hoursAhead int) (string, string) {
	checkIn := timezone.Now().Add(time.Duration(hoursAhead) * time.Hour)

	return checkIn.Format(time.RFC3339), checkIn.AddDate(0, 0, 3).Format(time.RFC3339)
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateBookingRequest
		wantErr bool
	}{
		{
			name: "successful creation",
			req:  createRequest("2025-01-15", "2025-01-18", 425),
		},
		{
			name: "no guests",
			req: func() dto.CreateBookingRequest {
				req := createRequest("2025-01-15", "2025-01-18", 425)
				req.Guests = 0

				return req
			}(),
			wantErr: true,
		},
		{
			name:    "check-out before check-in",
			req:     createRequest("2025-01-18", "2025-01-15", 425),
			wantErr: true,
		},
		{
			name:    "malformed date",
			req:     createRequest("15/01/2025", "2025-01-18", 425),
			wantErr: true,
		},
		{
			name: "missing property",
			req: func() dto.CreateBookingRequest {
				req := createRequest("2025-01-15", "2025-01-18", 425)
				req.PropertyID = constant.Empty

				return req
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, nil)

			res, err := f.svc.Create(userContext("guest-1"), tt.req)

			if tt.wantErr {
				assert.True(t, failure.IsInvalidArgument(err), "got %v", err)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, string(model.StatusPending), res.Status)
			assert.Equal(t, string(model.PaymentStatusPending), res.PaymentStatus)
			assert.Equal(t, 3, res.Nights)
			assert.Equal(t, "guest-1", res.CreatedBy)
			assert.Empty(t, res.AccessCode)

			n := f.await(t)
			assert.Equal(t, notifier.KindBookingCreated, n.Kind)
			assert.Equal(t, notifier.RecipientGuest, n.Recipient)
			assert.Equal(t, "guest-1", n.RecipientID)
			assert.Equal(t, res.ID, n.BookingID)
		})
	}
}

func TestBookingService_Lifecycle(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := userContext("host-1")

	created, err := f.svc.Create(ctx, createRequest("2025-01-15", "2025-01-18", 425))
	require.NoError(t, err)
	f.await(t)

	confirmed, err := f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), confirmed.Status)
	assert.Equal(t, string(model.PaymentStatusPaid), confirmed.PaymentStatus)
	assert.True(t, accesscode.Valid(confirmed.AccessCode))
	assert.Equal(t, "host-1", confirmed.ModifiedBy)

	reminder := f.await(t)
	assert.Equal(t, notifier.KindCheckInReminder, reminder.Kind)

	checkedIn, err := f.svc.StartCheckIn(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusActive), checkedIn.Booking.Status)
	assert.Equal(t, confirmed.AccessCode, checkedIn.AccessCode)

	code := f.await(t)
	assert.Equal(t, notifier.KindAccessCode, code.Kind)
	assert.Equal(t, confirmed.AccessCode, code.AccessCode)

	completed, err := f.svc.CompleteCheckOut(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCompleted), completed.Status)

	cleaning := f.await(t)
	assert.Equal(t, notifier.KindCleaningRequired, cleaning.Kind)
	assert.Equal(t, notifier.RecipientHost, cleaning.Recipient)
	assert.Equal(t, "host-1", cleaning.RecipientID)

	_, err = f.svc.Cancel(ctx, created.ID, dto.CancelBookingRequest{Reason: "too late"})
	assert.True(t, failure.IsInvalidState(err), "got %v", err)

	stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCompleted), stored.Status)
	assert.Empty(t, stored.CancellationReason)
}

func TestBookingService_CheckInRequiresConfirmation(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := userContext("host-1")

	created, err := f.svc.Create(ctx, createRequest("2025-01-15", "2025-01-18", 425))
	require.NoError(t, err)
	f.await(t)

	_, err = f.svc.StartCheckIn(ctx, created.ID)
	assert.True(t, failure.IsInvalidState(err), "got %v", err)

	_, err = f.svc.CompleteCheckOut(ctx, created.ID)
	assert.True(t, failure.IsInvalidState(err), "got %v", err)
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name          string
		hoursAhead    int
		wantRefund    int64
		wantPayStatus model.PaymentStatus
	}{
		{name: "full refund", hoursAhead: 72, wantRefund: 1000, wantPayStatus: model.PaymentStatusRefunded},
		{name: "partial refund", hoursAhead: 36, wantRefund: 500, wantPayStatus: model.PaymentStatusRefunded},
		{name: "no refund", hoursAhead: 10, wantRefund: 0, wantPayStatus: model.PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, nil)
			ctx := userContext("guest-1")

			checkIn, checkOut := stayFromNow(tt.hoursAhead)

			created, err := f.svc.Create(ctx, createRequest(checkIn, checkOut, 1000))
			require.NoError(t, err)
			f.await(t)

			_, err = f.svc.Confirm(ctx, created.ID)
			require.NoError(t, err)
			f.await(t)

			cancelled, err := f.svc.Cancel(ctx, created.ID, dto.CancelBookingRequest{Reason: "change of plans"})
			require.NoError(t, err)

			assert.Equal(t, string(model.StatusCancelled), cancelled.Status)
			assert.Equal(t, tt.wantRefund, cancelled.RefundAmount)
			assert.Equal(t, string(tt.wantPayStatus), cancelled.PaymentStatus)
			assert.Equal(t, "change of plans", cancelled.CancellationReason)
			assert.NotEmpty(t, cancelled.CancelledAt)
		})
	}
}

func TestBookingService_TerminalStatesRejectTransitions(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := userContext("guest-1")

	created, err := f.svc.Create(ctx, createRequest("2025-01-15", "2025-01-18", 425))
	require.NoError(t, err)
	f.await(t)

	_, err = f.svc.Cancel(ctx, created.ID, dto.CancelBookingRequest{})
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, created.ID)
	assert.True(t, failure.IsInvalidState(err), "got %v", err)

	_, err = f.svc.Cancel(ctx, created.ID, dto.CancelBookingRequest{})
	assert.True(t, failure.IsInvalidState(err), "got %v", err)
}

func TestBookingService_NotFound(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := userContext("guest-1")

	_, err := f.svc.Get(ctx, "missing")
	assert.True(t, failure.IsNotFound(err), "got %v", err)

	_, err = f.svc.Confirm(ctx, "missing")
	assert.True(t, failure.IsNotFound(err), "got %v", err)

	_, err = f.svc.Cancel(ctx, "missing", dto.CancelBookingRequest{})
	assert.True(t, failure.IsNotFound(err), "got %v", err)
}

func TestBookingService_NotifierFailureKeepsTransition(t *testing.T) {
	f := newFixture(t, nil, errors.New("broker unavailable"))
	ctx := userContext("host-1")

	created, err := f.svc.Create(ctx, createRequest("2025-01-15", "2025-01-18", 425))
	require.NoError(t, err)
	f.await(t)

	confirmed, err := f.svc.Confirm(ctx, created.ID)
	require.NoError(t, err)
	f.await(t)

	stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), stored.Status)
	assert.Equal(t, confirmed.AccessCode, stored.AccessCode)
}

func TestBookingService_ConcurrentConfirm(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := userContext("host-1")

	created, err := f.svc.Create(ctx, createRequest("2025-01-15", "2025-01-18", 425))
	require.NoError(t, err)
	f.await(t)

	const workers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.svc.Confirm(ctx, created.ID)

			mu.Lock()
			defer mu.Unlock()

			if err == nil {
				succeeded++
			} else if failure.IsInvalidState(err) {
				rejected++
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)

	f.await(t)
	assert.Empty(t, f.sent)
}

func TestBookingService_GetByUserAndProperty(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := userContext("guest-1")

	var ids []string

	for _, guest := range []string{"guest-1", "guest-2", "guest-1"} {
		req := createRequest("2025-01-15", "2025-01-18", 425)
		req.GuestID = guest

		res, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
		f.await(t)

		ids = append(ids, res.ID)
	}

	byUser, err := f.svc.GetByUser(ctx, "guest-1")
	require.NoError(t, err)
	require.Equal(t, 2, byUser.TotalData)
	assert.Equal(t, ids[0], byUser.Bookings[0].ID)
	assert.Equal(t, ids[2], byUser.Bookings[1].ID)

	byProperty, err := f.svc.GetByProperty(ctx, "property-1")
	require.NoError(t, err)
	assert.Equal(t, 3, byProperty.TotalData)

	empty, err := f.svc.GetByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalData)
	assert.NotNil(t, empty.Bookings)
}

func TestBookingService_Availability(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := userContext("guest-1")

	_, err := f.svc.Create(ctx, createRequest("2025-03-10", "2025-03-13", 425))
	require.NoError(t, err)
	f.await(t)

	cancelled, err := f.svc.Create(ctx, createRequest("2025-03-13", "2025-03-15", 300))
	require.NoError(t, err)
	f.await(t)

	_, err = f.svc.Cancel(ctx, cancelled.ID, dto.CancelBookingRequest{})
	require.NoError(t, err)

	res, err := f.svc.Availability(ctx, "property-1", dto.AvailabilityRequest{Start: "2025-03-09", End: "2025-03-14"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-03-10", "2025-03-11", "2025-03-12"}, res.BookedDates)
	assert.Equal(t, []string{"2025-03-09", "2025-03-13", "2025-03-14"}, res.AvailableDates)

	reversed, err := f.svc.Availability(ctx, "property-1", dto.AvailabilityRequest{Start: "2025-03-14", End: "2025-03-09"})
	require.NoError(t, err)
	assert.Empty(t, reversed.AvailableDates)

	_, err = f.svc.Availability(ctx, "property-1", dto.AvailabilityRequest{Start: "tomorrow", End: "2025-03-09"})
	assert.True(t, failure.IsInvalidArgument(err), "got %v", err)
}

func TestBookingService_AvailabilityRange(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := userContext("guest-1")

	tests := []struct {
		name      string
		start     string
		end       string
		wantDays  int
		wantError bool
	}{
		{name: "one year", start: "2025-01-01", end: "2025-12-31", wantDays: 365},
		{name: "leap year", start: "2024-01-01", end: "2024-12-31", wantDays: 366},
		{name: "one day over", start: "2025-01-01", end: "2026-01-02", wantError: true},
		{name: "whole calendar", start: "0001-01-01", end: "9999-12-31", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.Availability(ctx, "property-1", dto.AvailabilityRequest{Start: tt.start, End: tt.end})

			if tt.wantError {
				assert.True(t, failure.IsInvalidArgument(err), "got %v", err)
				assert.Empty(t, res.AvailableDates)

				return
			}

			require.NoError(t, err)
			assert.Len(t, res.AvailableDates, tt.wantDays)
		})
	}
}

func TestBookingService_AvailabilityRangeFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Booking.MaxAvailabilityDays = 7

	repo := repository.NewMemory(mocks.NewOtel())
	svc := service.New(repo, lock.NewMemory(), notifier.NewLog(), nil, cfg, mocks.NewOtel())

	res, err := svc.Availability(context.Background(), "property-1", dto.AvailabilityRequest{Start: "2025-03-01", End: "2025-03-07"})
	require.NoError(t, err)
	assert.Len(t, res.AvailableDates, 7)

	_, err = svc.Availability(context.Background(), "property-1", dto.AvailabilityRequest{Start: "2025-03-01", End: "2025-03-08"})
	require.Error(t, err)
	assert.Equal(t, "availability range cannot exceed 7 days", err.Error())
}

func TestBookingService_AvailabilityIgnoresCallerCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := bookingMocks.NewMockBooking(ctrl)

	repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ any) ([]model.Booking, error) {
			return nil, ctx.Err()
		})

	svc := service.New(repo, lock.NewMemory(), notifier.NewLog(), nil, &config.Config{}, mocks.NewOtel())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.Availability(ctx, "property-1", dto.AvailabilityRequest{Start: "2025-03-09", End: "2025-03-10"})

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-09", "2025-03-10"}, res.AvailableDates)
}

func TestBookingService_AvailabilityCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	f := newFixture(t, mockCache, nil)
	ctx := userContext("guest-1")

	mockCache.EXPECT().Clear(gomock.Any(), "booking:availability:property-1:*").Return(nil)

	_, err := f.svc.Create(ctx, createRequest("2025-03-10", "2025-03-12", 425))
	require.NoError(t, err)
	f.await(t)

	t.Run("cache miss computes and saves", func(t *testing.T) {
		saved := make(chan dto.AvailabilityResponse, 1)

		mockCache.EXPECT().
			Get(gomock.Any(), "booking:availability:property-1:2025-03-09:2025-03-12", gomock.Any()).
			Return(cache.Nil)
		mockCache.EXPECT().
			Save(gomock.Any(), "booking:availability:property-1:2025-03-09:2025-03-12", gomock.Any(), 60).
			DoAndReturn(func(_ context.Context, _ string, value any, _ int) error {
				saved <- value.(dto.AvailabilityResponse)

				return nil
			})

		res, err := f.svc.Availability(ctx, "property-1", dto.AvailabilityRequest{Start: "2025-03-09", End: "2025-03-12"})
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-03-10", "2025-03-11"}, res.BookedDates)

		select {
		case value := <-saved:
			assert.Equal(t, res, value)
		case <-time.After(waitTimeout):
			t.Fatal("availability was not cached")
		}
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), "booking:availability:property-1:2025-04-01:2025-04-02", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res := value.(*dto.AvailabilityResponse)
				res.PropertyID = "property-1"
				res.AvailableDates = []string{"2025-04-02"}

				return nil
			})

		res, err := f.svc.Availability(ctx, "property-1", dto.AvailabilityRequest{Start: "2025-04-01", End: "2025-04-02"})
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-04-02"}, res.AvailableDates)
	})
}

func TestBookingService_LockNotAcquired(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLocker := lockMocks.NewMockLocker(ctrl)
	mockNotifier := notifierMocks.NewMockNotifier(ctrl)

	repo := repository.NewMemory(mocks.NewOtel())
	svc := service.New(repo, mockLocker, mockNotifier, nil, &config.Config{}, mocks.NewOtel())

	booking := model.Booking{
		ID:            "b-1",
		PropertyID:    "property-1",
		GuestID:       "guest-1",
		HostID:        "host-1",
		CheckIn:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
		Guests:        2,
		Total:         425,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentStatusPending,
	}
	require.NoError(t, repo.Insert(context.Background(), booking))

	mockLocker.EXPECT().Lock(gomock.Any(), "booking:b-1").Return(nil, lock.ErrNotAcquired)

	_, err := svc.Confirm(userContext("host-1"), "b-1")
	require.ErrorIs(t, err, lock.ErrNotAcquired)

	stored, err := repo.Get(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
}

func TestBookingService_UnlocksAfterTransition(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLocker := lockMocks.NewMockLocker(ctrl)
	mockNotifier := notifierMocks.NewMockNotifier(ctrl)

	repo := repository.NewMemory(mocks.NewOtel())
	svc := service.New(repo, mockLocker, mockNotifier, nil, &config.Config{}, mocks.NewOtel())

	unlocked := make(chan struct{}, 1)

	mockLocker.EXPECT().
		Lock(gomock.Any(), "booking:missing").
		Return(lock.Unlock(func(context.Context) error {
			unlocked <- struct{}{}

			return nil
		}), nil)

	_, err := svc.Cancel(userContext("guest-1"), "missing", dto.CancelBookingRequest{})
	assert.True(t, failure.IsNotFound(err), "got %v", err)
	assert.Len(t, unlocked, 1)
}

func TestBookingService_TracesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := mocks.NewRecorder()

	svc := service.New(
		repository.NewMemory(recorder),
		lock.NewMemory(),
		notifierMocks.NewMockNotifier(ctrl),
		nil,
		&config.Config{},
		recorder,
	)

	_, err := svc.Confirm(userContext("host-1"), "missing")
	require.Error(t, err)

	assert.Contains(t, recorder.Spans(), "service.Confirm")

	traced := recorder.Errors("service.Confirm")
	require.Len(t, traced, 1)
	assert.True(t, failure.IsNotFound(traced[0]))
	assert.Empty(t, recorder.Errors("service.Get"))
}
