package attendance

import (
	"errors"
	"fmt"
	"time"
)

// ErrIntervalOpen marks an interval still in progress; the caller decides
// how to render that.
var ErrIntervalOpen = errors.New("interval in progress")

// ErrIntervalInvalid marks a non-positive span. Reported, never clamped.
var ErrIntervalInvalid = errors.New("interval end not after start")

// IntervalMinutes returns the whole minutes between start and end.
func IntervalMinutes(start time.Time, end *time.Time) (int, error) {
	if end == nil {
		return 0, ErrIntervalOpen
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes <= 0 {
		return 0, ErrIntervalInvalid
	}
	return minutes, nil
}

// TotalBreakMinutes sums the closed, well-formed intervals. Open or
// malformed intervals contribute nothing.
func TotalBreakMinutes(breaks []BreakInterval) int {
	total := 0
	for _, b := range breaks {
		if minutes, err := IntervalMinutes(b.StartTime, b.EndTime); err == nil {
			total += minutes
		}
	}
	return total
}

// NetWorkingMinutes is elapsed time minus break time, floored at zero.
func NetWorkingMinutes(start time.Time, end *time.Time, breaks []BreakInterval) (int, error) {
	elapsed, err := IntervalMinutes(start, end)
	if err != nil {
		return 0, err
	}

	net := elapsed - TotalBreakMinutes(breaks)
	if net < 0 {
		net = 0
	}
	return net, nil
}

// FormatMinutes renders a duration as "H hours M minutes".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d hours %d minutes", minutes/60, minutes%60)
}
