package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountByMonth(t *testing.T) {
	mk := func(month time.Month, day int) time.Time {
		return time.Date(2026, month, day, 10, 0, 0, 0, time.UTC)
	}
	dates := []time.Time{
		mk(time.January, 3),
		mk(time.January, 20),
		mk(time.March, 5),
	}

	counts := CountByMonth(dates)
	assert.Equal(t, 2, counts["January"])
	assert.Equal(t, 1, counts["March"])
	assert.NotContains(t, counts, "February")
}

func TestCountByMonthEmpty(t *testing.T) {
	assert.Empty(t, CountByMonth(nil))
}
