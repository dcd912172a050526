package service_test

import (
	"context"
	"staybook/config"
	"staybook/infras/otel/mocks"
	"staybook/internal/domains/quote/model/dto"
	"staybook/internal/domains/quote/service"
	"staybook/shared/failure"
	"staybook/shared/price"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteService_Calculate(t *testing.T) {
	svc := service.New(&config.Config{}, mocks.NewOtel())

	tests := []struct {
		name    string
		req     dto.QuoteRequest
		want    dto.QuoteResponse
		wantErr bool
	}{
		{
			name: "three nights",
			req:  dto.QuoteRequest{PricePerNight: 100, CheckIn: "2025-01-15", CheckOut: "2025-01-18", Guests: 2},
			want: dto.QuoteResponse{
				Stay:                   "Jan 15 - Jan 18",
				Nights:                 3,
				Quote:                  price.Quote{Subtotal: 300, ServiceFee: 30, Taxes: 24, Total: 354},
				PricePerGuest:          177,
				SubtotalFormatted:      "$300",
				TotalFormatted:         "$354",
				PricePerGuestFormatted: "$177.00",
			},
		},
		{
			name: "week long stay carries a weekly discount",
			req:  dto.QuoteRequest{PricePerNight: 100, CheckIn: "2025-01-01", CheckOut: "2025-01-08", Guests: 4},
			want: dto.QuoteResponse{
				Stay:                   "Jan 1 - Jan 8",
				Nights:                 7,
				Quote:                  price.Quote{Subtotal: 700, ServiceFee: 70, Taxes: 56, Total: 826},
				WeeklyDiscount:         70,
				PricePerGuest:          206.5,
				SubtotalFormatted:      "$700",
				TotalFormatted:         "$826",
				PricePerGuestFormatted: "$206.50",
			},
		},
		{
			name:    "check-out before check-in",
			req:     dto.QuoteRequest{PricePerNight: 100, CheckIn: "2025-01-18", CheckOut: "2025-01-15", Guests: 2},
			wantErr: true,
		},
		{
			name:    "no guests",
			req:     dto.QuoteRequest{PricePerNight: 100, CheckIn: "2025-01-15", CheckOut: "2025-01-18"},
			wantErr: true,
		},
		{
			name:    "zero price",
			req:     dto.QuoteRequest{CheckIn: "2025-01-15", CheckOut: "2025-01-18", Guests: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Calculate(context.Background(), tt.req)

			if tt.wantErr {
				assert.True(t, failure.IsInvalidArgument(err), "got %v", err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestQuoteService_ConfiguredRates(t *testing.T) {
	cfg := &config.Config{}
	cfg.Booking.Pricing.ServiceFeePercentage = 0.15
	cfg.Booking.Pricing.TaxPercentage = 0.05

	svc := service.New(cfg, mocks.NewOtel())

	res, err := svc.Calculate(context.Background(), dto.QuoteRequest{
		PricePerNight: 200,
		CheckIn:       "2025-01-15",
		CheckOut:      "2025-01-17",
		Guests:        1,
	})
	require.NoError(t, err)

	assert.Equal(t, price.Quote{Subtotal: 400, ServiceFee: 60, Taxes: 20, Total: 480}, res.Quote)
}
