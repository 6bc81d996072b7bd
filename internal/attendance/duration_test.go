package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 31, hour, minute, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestIntervalMinutes(t *testing.T) {
	t.Run("closed interval", func(t *testing.T) {
		minutes, err := IntervalMinutes(at(12, 0), ptr(at(13, 0)))
		assert.NoError(t, err)
		assert.Equal(t, 60, minutes)
	})

	t.Run("open interval", func(t *testing.T) {
		_, err := IntervalMinutes(at(12, 0), nil)
		assert.ErrorIs(t, err, ErrIntervalOpen)
	})

	t.Run("zero length is invalid, not clamped", func(t *testing.T) {
		_, err := IntervalMinutes(at(12, 0), ptr(at(12, 0)))
		assert.ErrorIs(t, err, ErrIntervalInvalid)
	})

	t.Run("negative is invalid", func(t *testing.T) {
		_, err := IntervalMinutes(at(13, 0), ptr(at(12, 0)))
		assert.ErrorIs(t, err, ErrIntervalInvalid)
	})
}

func TestTotalBreakMinutes(t *testing.T) {
	breaks := []BreakInterval{
		{StartTime: at(10, 0), EndTime: ptr(at(10, 15))},
		{StartTime: at(12, 0), EndTime: ptr(at(13, 0))},
		{StartTime: at(15, 0)}, // still open, contributes nothing
	}
	assert.Equal(t, 75, TotalBreakMinutes(breaks))
}

func TestNetWorkingMinutes(t *testing.T) {
	t.Run("break subtracted from elapsed", func(t *testing.T) {
		breaks := []BreakInterval{{StartTime: at(12, 0), EndTime: ptr(at(13, 0))}}
		net, err := NetWorkingMinutes(at(9, 0), ptr(at(18, 0)), breaks)
		assert.NoError(t, err)
		assert.Equal(t, 480, net)
	})

	t.Run("round trip", func(t *testing.T) {
		breaks := []BreakInterval{
			{StartTime: at(10, 30), EndTime: ptr(at(10, 45))},
			{StartTime: at(12, 0), EndTime: ptr(at(12, 45))},
		}
		net, err := NetWorkingMinutes(at(9, 0), ptr(at(17, 30)), breaks)
		assert.NoError(t, err)

		elapsed, err := IntervalMinutes(at(9, 0), ptr(at(17, 30)))
		assert.NoError(t, err)
		assert.Equal(t, elapsed, net+TotalBreakMinutes(breaks))
	})

	t.Run("floored at zero", func(t *testing.T) {
		breaks := []BreakInterval{{StartTime: at(9, 0), EndTime: ptr(at(12, 0))}}
		net, err := NetWorkingMinutes(at(10, 0), ptr(at(11, 0)), breaks)
		assert.NoError(t, err)
		assert.Equal(t, 0, net)
	})

	t.Run("open record reports in progress", func(t *testing.T) {
		_, err := NetWorkingMinutes(at(9, 0), nil, nil)
		assert.ErrorIs(t, err, ErrIntervalOpen)
	})
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "8 hours 0 minutes", FormatMinutes(480))
	assert.Equal(t, "0 hours 45 minutes", FormatMinutes(45))
	assert.Equal(t, "1 hours 5 minutes", FormatMinutes(65))
	assert.Equal(t, "0 hours 0 minutes", FormatMinutes(-10))
}

func TestResolveState(t *testing.T) {
	rec := &AttendanceRecord{StartTime: at(9, 0), Status: StateWorking}

	assert.Equal(t, StateWaiting, ResolveState(nil, nil))
	assert.Equal(t, StateWorking, ResolveState(rec, nil))

	open := []BreakInterval{{StartTime: at(12, 0)}}
	assert.Equal(t, StateBreak, ResolveState(rec, open))

	closed := []BreakInterval{{StartTime: at(12, 0), EndTime: ptr(at(13, 0))}}
	assert.Equal(t, StateWorking, ResolveState(rec, closed))

	done := &AttendanceRecord{StartTime: at(9, 0), EndTime: ptr(at(18, 0)), Status: StateCompleted}
	assert.Equal(t, StateCompleted, ResolveState(done, closed))

	// end_time set but status stale: end_time wins
	stale := &AttendanceRecord{StartTime: at(9, 0), EndTime: ptr(at(18, 0)), Status: StateWorking}
	assert.Equal(t, StateCompleted, ResolveState(stale, nil))
}
