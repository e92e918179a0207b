package domain

import "time"

// Clock is the wall-clock source used by the attempt controller.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// SecondsRemaining returns the whole seconds left until nextRetryAt, rounded up
// and never negative. It holds no state; countdown loops call it on every tick
// and must re-query eligibility once it reaches zero.
func SecondsRemaining(nextRetryAt, now time.Time) int {
	d := nextRetryAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// RoundPercent returns round-half-up(100 * part / total) using integer math.
// total must be positive.
func RoundPercent(part, total int) int {
	return (200*part + total) / (2 * total)
}
