package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsedTime(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{65, "00:01:05"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
		{360000, "100:00:00"},
		{-5, "00:00:00"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, ElapsedTime(test.seconds), "seconds=%d", test.seconds)
	}
}

func TestHoursMinutes(t *testing.T) {
	assert.Equal(t, "0h 00m", HoursMinutes(0))
	assert.Equal(t, "1h 05m", HoursMinutes(3900))
	assert.Equal(t, "12h 30m", HoursMinutes(45000))
	assert.Equal(t, "0h 00m", HoursMinutes(-60))
}

func TestDateRange(t *testing.T) {
	now := time.Date(2026, 1, 11, 15, 30, 0, 0, time.UTC)
	start, end := DateRange(now, 7)
	assert.Equal(t, "2026-01-04", start)
	assert.Equal(t, "2026-01-12", end)
}

func TestResetEstimate(t *testing.T) {
	now := time.Date(2026, 1, 11, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "", ResetEstimate(nil, now))

	past := now.Add(-time.Second)
	assert.Equal(t, "", ResetEstimate(&past, now))

	future := now.Add(15 * time.Second)
	assert.Equal(t, "in 15s", ResetEstimate(&future, now))
}
