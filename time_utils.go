package embedded

import (
	"regexp"
	"strconv"
	"time"
)

// Layouts used when writing temporal literals.
const (
	dateLayout          = "2006-01-02"
	timeLayout          = "15:04:05"
	timeMillisLayout    = "15:04:05.000"
	timestampLayout     = "2006-01-02 15:04:05.999999999"
	timestampMillis     = "2006-01-02 15:04:05.000"
	timeZoneLayout      = "15:04:05.000-07:00"
	timestampZoneLayout = "2006-01-02 15:04:05.000-07:00"
)

// formatDate renders t as a date. Without loc the date is taken as is.
func formatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateLayout)
}

// formatTime renders the clock part of t. With loc the clock is read in that
// location and written with milliseconds; a timezone-aware slot gets the
// numeric offset, with a colon, appended.
func formatTime(t time.Time, loc *time.Location, withZone bool) string {
	if loc != nil {
		t = t.In(loc)
	}
	switch {
	case withZone:
		return t.Format(timeZoneLayout)
	case loc != nil:
		return t.Format(timeMillisLayout)
	default:
		return t.Format(timeLayout)
	}
}

// formatTimestamp renders t as a timestamp, following the same rules as formatTime.
func formatTimestamp(t time.Time, loc *time.Location, withZone bool) string {
	if loc != nil {
		t = t.In(loc)
	}
	switch {
	case withZone:
		return t.Format(timestampZoneLayout)
	case loc != nil:
		return t.Format(timestampMillis)
	default:
		return t.Format(timestampLayout)
	}
}

var (
	dateGrammar      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	timeGrammar      = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})(\.\d{1,9})?$`)
	timestampGrammar = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2}) (\d{1,2}):(\d{2}):(\d{2})(\.\d{1,9})?$`)
)

// ParseDate parses yyyy-[m]m-[d]d.
func ParseDate(s string) (time.Time, error) {
	m := dateGrammar.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, newErrorf(InvalidLiteral, "%q is not a date, expected yyyy-mm-dd", s)
	}
	return buildTime(s, m[1], m[2], m[3], "0", "0", "0", "")
}

// ParseTime parses hh:mm:ss[.f...].
func ParseTime(s string) (time.Time, error) {
	m := timeGrammar.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, newErrorf(InvalidLiteral, "%q is not a time, expected hh:mm:ss[.fffffffff]", s)
	}
	return buildTime(s, "1970", "1", "1", m[1], m[2], m[3], m[4])
}

// ParseTimestamp parses yyyy-[m]m-[d]d hh:mm:ss[.f...].
func ParseTimestamp(s string) (time.Time, error) {
	m := timestampGrammar.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, newErrorf(InvalidLiteral, "%q is not a timestamp, expected yyyy-mm-dd hh:mm:ss[.fffffffff]", s)
	}
	return buildTime(s, m[1], m[2], m[3], m[4], m[5], m[6], m[7])
}

func buildTime(src, year, month, day, hour, min, sec, frac string) (time.Time, error) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	h, _ := strconv.Atoi(hour)
	mi, _ := strconv.Atoi(min)
	s, _ := strconv.Atoi(sec)
	nanos := 0
	if frac != "" {
		digits := frac[1:]
		for len(digits) < 9 {
			digits += "0"
		}
		nanos, _ = strconv.Atoi(digits)
	}
	if mo < 1 || mo > 12 || d < 1 || h > 23 || mi > 59 || s > 59 {
		return time.Time{}, newErrorf(InvalidLiteral, "%q is out of range", src)
	}
	t := time.Date(y, time.Month(mo), d, h, mi, s, nanos, time.UTC)
	if t.Day() != d {
		return time.Time{}, newErrorf(InvalidLiteral, "%q is not a valid calendar date", src)
	}
	return t, nil
}
