package dto

import (
	"staybook/shared/price"
)

type QuoteRequest struct {
	PricePerNight int64  `json:"price_per_night" validate:"gt=0"`
	CheckIn       string `json:"check_in"        validate:"required,calendar_date"`
	CheckOut      string `json:"check_out"       validate:"required,calendar_date"`
	Guests        int    `json:"guests"          validate:"gte=1"`
}

type QuoteResponse struct {
	Stay                   string      `json:"stay"`
	Nights                 int         `json:"nights"`
	Quote                  price.Quote `json:"quote"`
	WeeklyDiscount         float64     `json:"weekly_discount"`
	MonthlyDiscount        float64     `json:"monthly_discount"`
	PricePerGuest          float64     `json:"price_per_guest"`
	SubtotalFormatted      string      `json:"subtotal_formatted"`
	TotalFormatted         string      `json:"total_formatted"`
	PricePerGuestFormatted string      `json:"price_per_guest_formatted"`
}
