package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"staybook/config"
	"staybook/infras/otel"
	"staybook/internal/domains/quote/model/dto"
	"staybook/shared/constant"
	"staybook/shared/dates"
	"staybook/shared/price"
	"staybook/shared/validator"
)

type Quote interface {
	Calculate(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
}

type serviceImpl struct {
	serviceFeePercentage float64
	taxPercentage        float64
	otel                 otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Quote {
	s := &serviceImpl{
		serviceFeePercentage: price.DefaultServiceFeePercentage,
		taxPercentage:        price.DefaultTaxPercentage,
		otel:                 otel,
	}

	if cfg.Booking.Pricing.ServiceFeePercentage > 0 {
		s.serviceFeePercentage = cfg.Booking.Pricing.ServiceFeePercentage
	}

	if cfg.Booking.Pricing.TaxPercentage > 0 {
		s.taxPercentage = cfg.Booking.Pricing.TaxPercentage
	}

	return s
}

func (s *serviceImpl) Calculate(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Calculate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	checkIn, err := dates.ParseDate(req.CheckIn)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	checkOut, err := dates.ParseDate(req.CheckOut)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	nights, err := dates.CalculateNights(checkIn, checkOut)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	quote, err := price.CalculateTotalPriceWithRates(req.PricePerNight, nights, s.serviceFeePercentage, s.taxPercentage)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	perGuest, err := price.CalculatePricePerGuest(quote.Total, req.Guests)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res = dto.QuoteResponse{
		Stay:                   dates.FormatDateRange(checkIn, checkOut),
		Nights:                 nights,
		Quote:                  quote,
		WeeklyDiscount:         price.CalculateWeeklyDiscount(req.PricePerNight, nights),
		MonthlyDiscount:        price.CalculateMonthlyDiscount(req.PricePerNight, nights),
		PricePerGuest:          perGuest,
		SubtotalFormatted:      price.FormatPrice(float64(quote.Subtotal)),
		TotalFormatted:         price.FormatPrice(float64(quote.Total)),
		PricePerGuestFormatted: price.FormatPriceWithCents(perGuest),
	}

	return res, nil
}
