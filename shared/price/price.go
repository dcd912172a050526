// Package price computes nightly stay quotes, discounts and display strings.
// Amounts are integer currency units unless a function says otherwise.
package price

import (
	"fmt"
	"math"
	"staybook/shared/failure"
)

const (
	DefaultServiceFeePercentage = 0.10
	DefaultTaxPercentage        = 0.08

	WeeklyDiscountNights      = 7
	WeeklyDiscountPercentage  = 0.10
	MonthlyDiscountNights     = 28
	MonthlyDiscountPercentage = 0.20
)

type Quote struct {
	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"service_fee"`
	Taxes      int64 `json:"taxes"`
	Total      int64 `json:"total"`
}

// CalculateTotalPrice quotes a stay using the default service fee and tax rates.
func CalculateTotalPrice(pricePerNight int64, nights int) (Quote, error) {
	return CalculateTotalPriceWithRates(pricePerNight, nights, DefaultServiceFeePercentage, DefaultTaxPercentage)
}

// CalculateTotalPriceWithRates quotes a stay. The subtotal is exact, the fee and taxes are
// rounded half away from zero to the nearest unit.
func CalculateTotalPriceWithRates(pricePerNight int64, nights int, serviceFeePercentage, taxPercentage float64) (Quote, error) {
	if nights < 1 {
		return Quote{}, failure.InvalidArgument(fmt.Sprintf("nights must be at least 1, got %d", nights))
	}

	if pricePerNight < 0 {
		return Quote{}, failure.InvalidArgument(fmt.Sprintf("price per night must not be negative, got %d", pricePerNight))
	}

	if serviceFeePercentage < 0 || taxPercentage < 0 {
		return Quote{}, failure.InvalidArgument("percentages must not be negative")
	}

	subtotal := pricePerNight * int64(nights)
	serviceFee := int64(math.Round(float64(subtotal) * serviceFeePercentage))
	taxes := int64(math.Round(float64(subtotal) * taxPercentage))

	return Quote{
		Subtotal:   subtotal,
		ServiceFee: serviceFee,
		Taxes:      taxes,
		Total:      subtotal + serviceFee + taxes,
	}, nil
}

// CalculateWeeklyDiscount returns the discount for stays of a week or longer.
// It is not applied to any quote.
func CalculateWeeklyDiscount(pricePerNight int64, nights int) float64 {
	if nights < WeeklyDiscountNights {
		return 0
	}

	return WeeklyDiscountPercentage * float64(pricePerNight) * float64(nights)
}

// CalculateMonthlyDiscount returns the discount for stays of four weeks or longer.
// It is not applied to any quote.
func CalculateMonthlyDiscount(pricePerNight int64, nights int) float64 {
	if nights < MonthlyDiscountNights {
		return 0
	}

	return MonthlyDiscountPercentage * float64(pricePerNight) * float64(nights)
}

func CalculatePricePerGuest(total int64, guests int) (float64, error) {
	if guests < 1 {
		return 0, failure.InvalidArgument(fmt.Sprintf("guests must be at least 1, got %d", guests))
	}

	return float64(total) / float64(guests), nil
}

// ApplyDiscount takes percentage off price, e.g. ApplyDiscount(200, 15) == 170.
func ApplyDiscount(price, percentage float64) float64 {
	return price * (1 - percentage/100)
}
