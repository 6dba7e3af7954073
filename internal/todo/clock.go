package todo

import "time"

// Clock supplies the current time. Today is derived from Now in the
// clock's location.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Today returns the calendar date of c.Now().
func Today(c Clock) Date {
	return DateOf(c.Now())
}
