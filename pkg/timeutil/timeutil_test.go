package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISO(t *testing.T) {
	want := time.Date(2024, 3, 5, 14, 7, 9, 123456000, time.UTC)

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"own format", "2024-03-05T14:07:09.123456Z", want},
		{"offset", "2024-03-05T19:07:09.123456+05:00", want},
		{"naive microseconds", "2024-03-05T14:07:09.123456", want},
		{"naive no fraction", "2024-03-05T14:07:09", want.Truncate(time.Second)},
		{"date only", "2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISO(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseISO("yesterday")
	assert.Error(t, err)
}

func TestFormatISOTime_RoundTrips(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 123456000, time.UTC)

	s := FormatISOTime(ts)
	assert.Equal(t, "2024-03-05T14:07:09.123456Z", s)

	back, err := ParseISO(s)
	require.NoError(t, err)
	assert.True(t, ts.Equal(back))
}

func TestFormatHuman(t *testing.T) {
	assert.Equal(t, "March 5, 2024", FormatHuman(time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)))
	assert.Empty(t, FormatHuman(time.Time{}))
	assert.Equal(t, "2024-03-05", FormatDateStr(time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC)))
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 5, DaysSince(now.AddDate(0, 0, -5), now))
	assert.Equal(t, 0, DaysSince(now.Add(time.Hour), now))
	assert.Equal(t, 0, DaysSince(time.Time{}, now))
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", FormatRelative(now.Add(-10*time.Second), now))
	assert.Equal(t, "1 minute ago", FormatRelative(now.Add(-time.Minute), now))
	assert.Equal(t, "3 hours ago", FormatRelative(now.Add(-3*time.Hour), now))
	assert.Equal(t, "yesterday", FormatRelative(now.Add(-30*time.Hour), now))
	assert.Equal(t, "4 days ago", FormatRelative(now.AddDate(0, 0, -4), now))
	assert.Equal(t, "2 years ago", FormatRelative(now.AddDate(-2, 0, -1), now))
}
