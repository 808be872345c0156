package models

import "time"

// IsUnlocked is the gate rule: nowUtc >= unlockDateUtc, both taken as absolute
// instants. No grace period. A zero unlock date is treated as locked, the safe
// fallback for records whose date never parsed.
func IsUnlocked(now, unlockDate time.Time) bool {
	if unlockDate.IsZero() {
		return false
	}
	return !now.Before(unlockDate)
}

// Countdown is the floor decomposition of the remaining delta into whole
// days, hours, minutes and seconds. RemainingMS keeps the raw delta for
// clients that render their own ticker.
type Countdown struct {
	Days        int   `json:"days"`
	Hours       int   `json:"hours"`
	Minutes     int   `json:"minutes"`
	Seconds     int   `json:"seconds"`
	RemainingMS int64 `json:"remaining_ms"`
}

const (
	msPerDay    = 24 * 60 * 60 * 1000
	msPerHour   = 60 * 60 * 1000
	msPerMinute = 60 * 1000
	msPerSecond = 1000
)

// CountdownUntil decomposes unlockDate-now. A non-positive delta collapses to
// the zero countdown, the terminal unlocked state.
func CountdownUntil(now, unlockDate time.Time) Countdown {
	ms := unlockDate.Sub(now).Milliseconds()
	if ms <= 0 || unlockDate.IsZero() {
		return Countdown{}
	}

	return Countdown{
		Days:        int(ms / msPerDay),
		Hours:       int(ms % msPerDay / msPerHour),
		Minutes:     int(ms % msPerHour / msPerMinute),
		Seconds:     int(ms % msPerMinute / msPerSecond),
		RemainingMS: ms,
	}
}
