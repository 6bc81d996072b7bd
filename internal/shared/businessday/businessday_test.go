package businessday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf_UsesBusinessTimezone(t *testing.T) {
	// 2026-08-30 23:30 UTC is already the 31st in Tokyo
	utc := time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-31", DateOf(utc))

	// and 13:00 UTC is still the same UTC day
	assert.Equal(t, "2026-08-30", DateOf(time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-31")
	assert.NoError(t, err)
	assert.Equal(t, "2026-08-31", DateOf(d))

	_, err = ParseDate("31-08-2026")
	assert.Error(t, err)

	_, err = ParseDate("2026-13-01")
	assert.Error(t, err)
}
