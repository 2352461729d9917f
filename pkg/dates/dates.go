// Package dates recognizes and normalizes the date labels used by Banco de
// España CSV exports.
//
// Three grammars are supported:
//
//	Year          2020
//	MonthYear     ENE 2020
//	DayMonthYear  05 ENE 2020
//
// A table uses exactly one grammar. Classify decides which one and returns a
// mask of the rows that carry a date; Normalize converts a single label into
// a calendar date. Normalize never fails: labels it cannot resolve produce a
// Date with Valid set to false.
//
// This package has no I/O dependencies.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Grammar is one of the recognized date label encodings.
type Grammar int

const (
	// Unknown means no grammar could be selected.
	Unknown Grammar = iota
	// Year is a 4-digit year, for example "2020".
	Year
	// MonthYear is a 3-letter Spanish month and a year, "ENE 2020".
	MonthYear
	// DayMonthYear is a 2-digit day, a month and a year, "05 ENE 2020".
	DayMonthYear
)

// Grammars lists the supported grammars in classification order.
var Grammars = []Grammar{Year, MonthYear, DayMonthYear}

func (g Grammar) String() string {
	switch g {
	case Year:
		return "YEAR"
	case MonthYear:
		return "MONTH_YEAR"
	case DayMonthYear:
		return "DAY_MONTH_YEAR"
	default:
		return "UNKNOWN"
	}
}

var patterns = map[Grammar]*regexp.Regexp{
	Year:         regexp.MustCompile(`^(\d{4})$`),
	MonthYear:    regexp.MustCompile(`^([A-Za-z]{3})\s+(\d{4})$`),
	DayMonthYear: regexp.MustCompile(`^(\d{2})\s+([A-Za-z]{3})\s+(\d{4})$`),
}

// months maps canonical upper-case Spanish abbreviations to months.
var months = map[string]time.Month{
	"ENE": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"ABR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AGO": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DIC": time.December,
}

var abbreviations = func() map[time.Month]string {
	res := make(map[time.Month]string, len(months))
	for k, v := range months {
		res[v] = k
	}
	return res
}()

// Date is a calendar date that can be undated. The zero value is undated.
type Date struct {
	Time  time.Time
	Valid bool
}

// NewDate returns a valid Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// String returns the date in ISO format, or an empty string for undated
// values.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(time.DateOnly)
}

// Before reports whether d is earlier than other. Undated values are never
// before anything.
func (d Date) Before(other Date) bool {
	return d.Valid && other.Valid && d.Time.Before(other.Time)
}

// Matches reports whether label fully matches the pattern of g.
func Matches(label string, g Grammar) bool {
	re, ok := patterns[g]
	if !ok {
		return false
	}
	return re.MatchString(strings.TrimSpace(label))
}

// Normalize converts label written in grammar g into a Date.
// Year resolves to January 1, MonthYear to the last day of the month and
// DayMonthYear to the exact day. Unknown months and out-of-range numbers
// give an undated value.
func Normalize(label string, g Grammar) Date {
	re, ok := patterns[g]
	if !ok {
		return Date{}
	}
	m := re.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return Date{}
	}

	switch g {
	case Year:
		year, err := strconv.Atoi(m[1])
		if err != nil {
			return Date{}
		}
		return NewDate(year, time.January, 1)
	case MonthYear:
		month, ok := months[strings.ToUpper(m[1])]
		if !ok {
			return Date{}
		}
		year, err := strconv.Atoi(m[2])
		if err != nil {
			return Date{}
		}
		// day 0 of the next month is the last day of this one
		return NewDate(year, month+1, 0)
	case DayMonthYear:
		day, err := strconv.Atoi(m[1])
		if err != nil {
			return Date{}
		}
		month, ok := months[strings.ToUpper(m[2])]
		if !ok {
			return Date{}
		}
		year, err := strconv.Atoi(m[3])
		if err != nil {
			return Date{}
		}
		res := NewDate(year, month, day)
		if res.Time.Day() != day || res.Time.Month() != month {
			return Date{}
		}
		return res
	}
	return Date{}
}

// Format renders d back in grammar g using canonical upper-case month
// abbreviations. Undated values render as an empty string.
func Format(d Date, g Grammar) string {
	if !d.Valid {
		return ""
	}
	t := d.Time
	switch g {
	case Year:
		return fmt.Sprintf("%04d", t.Year())
	case MonthYear:
		return fmt.Sprintf("%s %04d", abbreviations[t.Month()], t.Year())
	case DayMonthYear:
		return fmt.Sprintf("%02d %s %04d", t.Day(), abbreviations[t.Month()], t.Year())
	}
	return ""
}
