package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1.0K", FormatCount(1000))
	assert.Equal(t, "1.2K", FormatCount(1234))
	assert.Equal(t, "1500.0K", FormatCount(1500000))
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", FormatTimeAgo(now.Add(-30*time.Second), now))
	assert.Equal(t, "5m ago", FormatTimeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", FormatTimeAgo(now.Add(-3*time.Hour), now))
	assert.Equal(t, "1d ago", FormatTimeAgo(now.Add(-30*time.Hour), now))
	assert.Equal(t, "4d ago", FormatTimeAgo(now.Add(-4*24*time.Hour), now))
	assert.Equal(t, "2w ago", FormatTimeAgo(now.Add(-15*24*time.Hour), now))
	assert.Equal(t, "2mo ago", FormatTimeAgo(now.Add(-70*24*time.Hour), now))
	assert.Equal(t, "1y ago", FormatTimeAgo(now.Add(-400*24*time.Hour), now))
}

func TestFormatChartDate(t *testing.T) {
	assert.Equal(t, "Jan 5", FormatChartDate(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Dec 31", FormatChartDate(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}
