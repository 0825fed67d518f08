package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTo24Hour(t *testing.T) {
	tests := map[string]string{
		"10:00 AM": "10:00",
		"12:00 AM": "00:00",
		"12:30 PM": "12:30",
		"2:30 pm":  "14:30",
		"09:15PM":  "21:15",
		"16:45":    "16:45",
	}
	for in, want := range tests {
		got, err := To24Hour(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "noon", "13:00 PM", "10"} {
		_, err := To24Hour(bad)
		assert.ErrorIs(t, err, ErrTimeInvalid, bad)
	}
}

func TestTo12Hour(t *testing.T) {
	got, err := To12Hour("14:30")
	require.NoError(t, err)
	assert.Equal(t, "2:30 PM", got)

	got, err = To12Hour("9:05 am")
	require.NoError(t, err)
	assert.Equal(t, "9:05 AM", got)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "1990-04-02", normalizeDate("1990-04-02T00:00:00Z"))
	assert.Equal(t, "1990-04-02", normalizeDate("1990-04-02"))
	assert.Equal(t, "", normalizeDate(""))
}

func TestParseDuration(t *testing.T) {
	n, ok := parseDuration(" 45 ")
	assert.True(t, ok)
	assert.Equal(t, 45, n)

	for _, bad := range []string{"", "0", "-30", "thirty", "1.5"} {
		_, ok := parseDuration(bad)
		assert.False(t, ok, bad)
	}
}
