package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"staybook/internal/domains/booking/model"
	gDto "staybook/shared/dto"
)

// Booking stores bookings. Implementations return bookings in insertion order and never
// delete them.
type Booking interface {
	Insert(ctx context.Context, booking model.Booking) error
	// Get fails with failure.NotFound when id is unknown.
	Get(ctx context.Context, id string) (model.Booking, error)
	GetAll(ctx context.Context, filter gDto.FilterGroup) ([]model.Booking, error)
	// Mutate applies fn to a copy of the booking and commits it atomically once it validates.
	// Nothing is written when fn or validation fails.
	Mutate(ctx context.Context, id string, fn func(booking *model.Booking) error) (model.Booking, error)
}
