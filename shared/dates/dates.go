// Package dates holds calendar helpers for stays. Calendar days are compared in the
// application timezone and rendered with constant.DayFormat.
package dates

import (
	"fmt"
	"slices"
	"staybook/shared/constant"
	"staybook/shared/failure"
	"staybook/shared/timezone"
	"time"
)

const (
	displayDateFormat  = "Jan 2, 2006"
	displayRangeFormat = "Jan 2"
	hoursInDay         = 24
)

// ParseDate accepts a calendar day ("2025-01-15") or an RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := timezone.Parse(constant.DayFormat, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(constant.DateFormat, value)
	if err != nil {
		return time.Time{}, failure.InvalidArgument(fmt.Sprintf("invalid date %q", value))
	}

	return timezone.ToAppTime(t), nil
}

// Day returns the calendar day string of t.
func Day(t time.Time) string {
	return timezone.Format(t, constant.DayFormat)
}

// CalculateNights counts the calendar days between check-in and check-out, plus one
// when check-out is later in the day than check-in. Days are read in check-in's
// location, so DST shifts never add or drop a night.
func CalculateNights(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, failure.InvalidArgument("check-out must be after check-in")
	}

	checkOut = checkOut.In(checkIn.Location())

	nights := int(civilDay(checkOut).Sub(civilDay(checkIn)) / (hoursInDay * time.Hour))
	if clock(checkOut) > clock(checkIn) {
		nights++
	}

	return nights, nil
}

// civilDay re-anchors t's calendar day at UTC midnight, where every day is 24 hours.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// clock is the wall-clock time of day of t.
func clock(t time.Time) time.Duration {
	h, m, sec := t.Clock()

	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second + time.Duration(t.Nanosecond())
}

// IsDateInPast reports whether date falls on a calendar day before today.
func IsDateInPast(date time.Time) bool {
	return timezone.StartOfDay(date).Before(timezone.StartOfDay(timezone.Now()))
}

func IsDateAvailable(date time.Time, bookedDates []string) bool {
	return !slices.Contains(bookedDates, Day(date))
}

// AvailableDatesInRange lists every day from start to end inclusive that is not booked.
func AvailableDatesInRange(start, end time.Time, bookedDates []string) []string {
	booked := make(map[string]struct{}, len(bookedDates))
	for _, day := range bookedDates {
		booked[day] = struct{}{}
	}

	last := timezone.StartOfDay(end)
	available := []string{}

	for day := timezone.StartOfDay(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		key := Day(day)
		if _, ok := booked[key]; ok {
			continue
		}

		available = append(available, key)
	}

	return available
}

// NightsBetween lists the calendar days a stay occupies, check-out day excluded.
// A same-day stay occupies its check-in day.
func NightsBetween(checkIn, checkOut time.Time) []string {
	first := timezone.StartOfDay(checkIn)

	last := timezone.StartOfDay(checkOut)
	if !last.After(first) {
		last = first.AddDate(0, 0, 1)
	}

	nights := []string{}
	for day := first; day.Before(last); day = day.AddDate(0, 0, 1) {
		nights = append(nights, Day(day))
	}

	return nights
}

// FormatDate renders t as "Jan 15, 2025".
func FormatDate(t time.Time) string {
	return timezone.Format(t, displayDateFormat)
}

// FormatDateRange renders a stay as "Jan 15 - Jan 18".
func FormatDateRange(start, end time.Time) string {
	return timezone.Format(start, displayRangeFormat) + " - " + timezone.Format(end, displayRangeFormat)
}
