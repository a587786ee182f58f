package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	isoDateLayout     = "2006-01-02"
	displayDateLayout = "02 Jan 2006"
)

// monthTokens maps the first three letters of English and Spanish month
// names to their month.
var monthTokens = map[string]time.Month{
	"jan": time.January, "ene": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April, "abr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August, "ago": time.August,
	"sep": time.September, "set": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December, "dic": time.December,
}

// Date is a calendar date without time of day or zone. The zero value is an
// unknown date and never falls inside a time range.
type Date struct {
	t time.Time
}

// NewDate builds a Date, normalising out-of-range values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts ISO dates (2024-11-25) and display dates (25 Nov 2024,
// 02 Dic 2024).
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(isoDateLayout, raw); err == nil {
		return DateOf(t), nil
	}

	parts := strings.Fields(raw)
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("unrecognised date %q", raw)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("unrecognised day in %q", raw)
	}
	token := []rune(strings.ToLower(strings.TrimSuffix(parts[1], ".")))
	if len(token) < 3 {
		return Date{}, fmt.Errorf("unrecognised month in %q", raw)
	}
	month, ok := monthTokens[string(token[:3])]
	if !ok {
		return Date{}, fmt.Errorf("unrecognised month in %q", raw)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 1 {
		return Date{}, fmt.Errorf("unrecognised year in %q", raw)
	}

	d := NewDate(year, month, day)
	if d.Day() != day || d.Month() != month {
		return Date{}, fmt.Errorf("day out of range in %q", raw)
	}
	return d, nil
}

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Year() int          { return d.t.Year() }
func (d Date) Month() time.Month  { return d.t.Month() }
func (d Date) Day() int           { return d.t.Day() }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// DaysSince returns the whole number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// String returns the ISO form, or an empty string for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(isoDateLayout)
}

// Display returns the "DD Mon YYYY" presentation form.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(displayDateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON never fails on an unparseable string; the date is left zero
// so time filters exclude it.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}
