// Package timezone pins every calendar computation of the service to one location.
//
// The location is read from APP_TIMEZONE (IANA names such as "UTC" or "Asia/Jakarta")
// when the package is imported and falls back to UTC when missing or unknown.
//
//	now := timezone.Now()                           // current time in the app location
//	today := timezone.StartOfDay(now)               // local midnight
//	t, err := timezone.Parse("2006-01-02", "2025-01-15")
//
// "Today" and "past" in booking date checks are always evaluated against this location,
// never against the host machine's local zone.
package timezone
