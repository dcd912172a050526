package repository

import (
	"context"
	"fmt"
	"staybook/infras/otel"
	"staybook/internal/domains/booking/model"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/failure"
	"sync"
)

type memoryImpl struct {
	mu       sync.RWMutex
	order    []string
	bookings map[string]model.Booking
	otel     otel.Otel
}

// NewMemory keeps bookings for the lifetime of the process.
func NewMemory(otel otel.Otel) Booking {
	return &memoryImpl{
		bookings: map[string]model.Booking{},
		otel:     otel,
	}
}

func (m *memoryImpl) Insert(ctx context.Context, booking model.Booking) error {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".memory.Insert")
	defer scope.End()

	if err := booking.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bookings[booking.ID]; exists {
		return fmt.Errorf("failed to insert data (%s): duplicate id %s", model.EntityName, booking.ID)
	}

	m.order = append(m.order, booking.ID)
	m.bookings[booking.ID] = booking

	return nil
}

func (m *memoryImpl) Get(ctx context.Context, id string) (model.Booking, error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".memory.Get")
	defer scope.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, ok := m.bookings[id]
	if !ok {
		return model.Booking{}, failure.NotFound("booking not found")
	}

	return booking, nil
}

func (m *memoryImpl) GetAll(ctx context.Context, filter gDto.FilterGroup) ([]model.Booking, error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".memory.GetAll")
	defer scope.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	bookings := []model.Booking{}

	for _, id := range m.order {
		booking := m.bookings[id]
		if filter.Match(booking) {
			bookings = append(bookings, booking)
		}
	}

	return bookings, nil
}

func (m *memoryImpl) Mutate(ctx context.Context, id string, fn func(booking *model.Booking) error) (model.Booking, error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".memory.Mutate")
	defer scope.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.bookings[id]
	if !ok {
		return model.Booking{}, failure.NotFound("booking not found")
	}

	updated := current
	if current.CancelledAt != nil {
		cancelledAt := *current.CancelledAt
		updated.CancelledAt = &cancelledAt
	}

	if err := fn(&updated); err != nil {
		return current, err
	}

	if err := updated.Validate(); err != nil {
		return current, err
	}

	m.bookings[id] = updated

	return updated, nil
}
