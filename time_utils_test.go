package embedded

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-2-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"2023-2-29", "2024-13-01", "2024-00-10", "24-01-01", "2024/01/01", ""} {
		_, err := ParseDate(bad)
		assert.True(t, IsError(err, InvalidLiteral), bad)
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("7:05:09")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Hour())
	assert.Equal(t, 5, got.Minute())
	assert.Equal(t, 9, got.Second())

	got, err = ParseTime("10:00:00.25")
	require.NoError(t, err)
	assert.Equal(t, 250_000_000, got.Nanosecond())

	for _, bad := range []string{"24:00:00", "10:60:00", "10:00", "10:00:00.", "10:00:00+02:00"} {
		_, err := ParseTime(bad)
		assert.True(t, IsError(err, InvalidLiteral), bad)
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-03-09 10:11:12.123")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 9, 10, 11, 12, 123_000_000, time.UTC), got)

	got, err = ParseTimestamp("2024-03-09 10:11:12")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Nanosecond())

	for _, bad := range []string{"2024-03-09", "2024-03-09T10:11:12", "2024-03-09 10:11:12.1234567890"} {
		_, err := ParseTimestamp(bad)
		assert.True(t, IsError(err, InvalidLiteral), bad)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 10, 11, 12, 0, time.UTC)
	assert.Equal(t, "2024-03-09 10:11:12", formatTimestamp(ts, nil, false))
	assert.Equal(t, "2024-03-09 10:11:12.000", formatTimestamp(ts, time.UTC, false))
	assert.Equal(t, "2024-03-09 10:11:12.000+00:00", formatTimestamp(ts, nil, true))
}
