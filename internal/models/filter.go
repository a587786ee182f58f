package models

import (
	"fmt"
	"strings"
)

// FilterType names the dimension an ActiveFilter constrains.
type FilterType string

const (
	FilterCategory  FilterType = "category"
	FilterAudience  FilterType = "audience"
	FilterTimeRange FilterType = "timeRange"
)

// TimeRange buckets event dates relative to today.
type TimeRange string

const (
	TimeRangeToday     TimeRange = "today"
	TimeRangeThisWeek  TimeRange = "thisWeek"
	TimeRangeThisMonth TimeRange = "thisMonth"
	TimeRangeNextMonth TimeRange = "nextMonth"
)

// TimeRanges lists every bucket in display order.
var TimeRanges = []TimeRange{TimeRangeToday, TimeRangeThisWeek, TimeRangeThisMonth, TimeRangeNextMonth}

var timeRangeAliases = map[string]TimeRange{
	"today":     TimeRangeToday,
	"hoy":       TimeRangeToday,
	"thisweek":  TimeRangeThisWeek,
	"week":      TimeRangeThisWeek,
	"semana":    TimeRangeThisWeek,
	"thismonth": TimeRangeThisMonth,
	"month":     TimeRangeThisMonth,
	"mes":       TimeRangeThisMonth,
	"nextmonth": TimeRangeNextMonth,
	"siguiente": TimeRangeNextMonth,
}

// ParseTimeRange resolves a bucket name or alias, ignoring case.
func ParseTimeRange(raw string) (TimeRange, bool) {
	r, ok := timeRangeAliases[NormalizeTag(raw)]
	return r, ok
}

// AudienceAny is the audience filter value that matches every event.
const AudienceAny = "all"

// ActiveFilter is one (type, value) predicate applied to the listing.
type ActiveFilter struct {
	Type  FilterType `json:"type"`
	Value string     `json:"value"`
}

func (f ActiveFilter) String() string {
	return string(f.Type) + ":" + f.Value
}

// ParseActiveFilter splits the "type:value" form used in query strings.
func ParseActiveFilter(raw string) (ActiveFilter, error) {
	typ, value, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(value) == "" {
		return ActiveFilter{}, fmt.Errorf("filter %q must have the form type:value", raw)
	}
	return ActiveFilter{Type: FilterType(strings.TrimSpace(typ)), Value: strings.TrimSpace(value)}, nil
}
