package utils

import (
	"fmt"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601     DateFormat = time.RFC3339
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatYearMonth   DateFormat = "2006-01"
	FormatYear        DateFormat = "2006"
	FormatUSDate      DateFormat = "01/02/2006"
	FormatMonthDay    DateFormat = "January 2, 2006"
	FormatShortMonth  DateFormat = "Jan 2, 2006"
)

var releaseDateFormats = []DateFormat{
	FormatISO8601Date,
	FormatISO8601,
	FormatYearMonth,
	FormatYear,
	FormatUSDate,
	FormatMonthDay,
	FormatShortMonth,
}

// ParseDate reads a release date in any of the accepted formats. Partial
// dates resolve to the first day of the period, always in UTC.
func ParseDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range releaseDateFormats {
		parsed, err := time.Parse(string(format), input)
		if err == nil {
			year, month, day := parsed.UTC().Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", input)
}

// ParseOptionalDate is ParseDate for optional request fields: empty input
// yields nil.
func ParseOptionalDate(input string) (*time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	parsed, err := ParseDate(input)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(string(FormatISO8601Date))
}
