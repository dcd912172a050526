// Package policy holds the cancellation refund rules.
package policy

import (
	"math"
	"staybook/config"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultFullRefundHours         = 48
	DefaultPartialRefundHours      = 24
	DefaultPartialRefundPercentage = 0.5

	basisPoints = 10_000
)

// Refund grants the whole total when the guest cancels more than FullRefundHours before
// check-in, PartialRefundPercentage of it when more than PartialRefundHours before, and
// nothing otherwise.
type Refund struct {
	FullRefundHours         float64
	PartialRefundHours      float64
	PartialRefundPercentage float64
}

func Default() Refund {
	return Refund{
		FullRefundHours:         DefaultFullRefundHours,
		PartialRefundHours:      DefaultPartialRefundHours,
		PartialRefundPercentage: DefaultPartialRefundPercentage,
	}
}

// FromConfig reads the booking section, falling back to defaults for unset values.
// A partial percentage above 1 is capped at a full refund.
func FromConfig(cfg *config.Config) Refund {
	refund := Default()

	if cfg == nil {
		return refund
	}

	if cfg.Booking.FullRefundHours > 0 {
		refund.FullRefundHours = cfg.Booking.FullRefundHours
	}

	if cfg.Booking.PartialRefundHours > 0 {
		refund.PartialRefundHours = cfg.Booking.PartialRefundHours
	}

	if pct := cfg.Booking.PartialRefundPercentage; pct > 0 {
		if pct > 1 {
			log.Warn().Float64("percentage", pct).Msg("Partial refund percentage above 1, capping at 1")

			pct = 1
		}

		refund.PartialRefundPercentage = pct
	}

	return refund
}

// Amount is the refund owed when cancelling at now. Partial refunds round half up.
func (r Refund) Amount(checkIn, now time.Time, total int64) int64 {
	hoursUntilCheckIn := checkIn.Sub(now).Hours()

	switch {
	case hoursUntilCheckIn > r.FullRefundHours:
		return total
	case hoursUntilCheckIn > r.PartialRefundHours:
		return partial(total, r.PartialRefundPercentage)
	default:
		return 0
	}
}

// partial takes pct of total in integer basis points, rounding half up, so large totals
// keep their precision.
func partial(total int64, pct float64) int64 {
	bp := int64(math.Round(min(max(pct, 0), 1) * basisPoints))

	return total/basisPoints*bp + (total%basisPoints*bp+basisPoints/2)/basisPoints
}
