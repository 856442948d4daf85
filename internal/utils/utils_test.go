package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{215, "3:35"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-4, "0:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatDuration(tc.seconds))
		})
	}
}

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		valid    bool
	}{
		{"215", 215, true},
		{"3:35", 215, true},
		{"1:02:05", 3725, true},
		{" 0:05 ", 5, true},
		{"3:60", 0, false},
		{"a:10", 0, false},
		{"-3", 0, false},
		{"1:2:3:4", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDuration(tc.input)
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.expected, mustRoundTrip(t, FormatDuration(got)))
		})
	}
}

func mustRoundTrip(t *testing.T, formatted string) int {
	t.Helper()
	seconds, err := ParseDuration(formatted)
	require.NoError(t, err)
	return seconds
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Time
		valid    bool
	}{
		{"2023-01-15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2023-01-15T22:30:00Z", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2023-04", time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"1999", time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"01/15/2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"January 15, 2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"Jan 15, 2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"13/32/2023", time.Time{}, false},
		{"invalid-date", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "expected %v, got %v", tc.expected, got)
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDate("2020-02-29")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2020-02-29", FormatDate(got))
	assert.Equal(t, "", FormatDate(nil))
}

func TestCleanText(t *testing.T) {
	cleaned, changed := CleanText("  Blue in Green ")
	assert.Equal(t, "Blue in Green", cleaned)
	assert.False(t, changed)

	cleaned, changed = CleanText("So\x00 What\xff")
	assert.Equal(t, "So What", cleaned)
	assert.True(t, changed)
}
