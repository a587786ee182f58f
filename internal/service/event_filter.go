package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

var audienceAnyAliases = map[string]struct{}{"all": {}, "any": {}, "todos": {}, "todas": {}}

// NormalizeFilter validates f and rewrites its type and value to canonical tags.
func NormalizeFilter(f models.ActiveFilter) (models.ActiveFilter, error) {
	invalid := appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown filter %s", f))
	switch models.NormalizeTag(string(f.Type)) {
	case "category", "categoria":
		c, ok := models.ParseCategory(f.Value)
		if !ok {
			return f, invalid
		}
		return models.ActiveFilter{Type: models.FilterCategory, Value: string(c)}, nil
	case "audience", "audiencia", "publico":
		if _, ok := audienceAnyAliases[models.NormalizeTag(f.Value)]; ok {
			return models.ActiveFilter{Type: models.FilterAudience, Value: models.AudienceAny}, nil
		}
		a, ok := models.ParseAudienceType(f.Value)
		if !ok {
			return f, invalid
		}
		return models.ActiveFilter{Type: models.FilterAudience, Value: string(a)}, nil
	case "timerange", "time_range", "fecha":
		r, ok := models.ParseTimeRange(f.Value)
		if !ok {
			return f, invalid
		}
		return models.ActiveFilter{Type: models.FilterTimeRange, Value: string(r)}, nil
	default:
		return f, invalid
	}
}

// ActiveFilterSet holds distinct normalised filters in insertion order.
type ActiveFilterSet struct {
	filters []models.ActiveFilter
}

// NewActiveFilterSet adds every filter, failing on the first invalid one.
func NewActiveFilterSet(filters ...models.ActiveFilter) (*ActiveFilterSet, error) {
	set := &ActiveFilterSet{}
	for _, f := range filters {
		if err := set.Add(f); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Add inserts f unless an equal filter is already present.
func (s *ActiveFilterSet) Add(f models.ActiveFilter) error {
	normalized, err := NormalizeFilter(f)
	if err != nil {
		return err
	}
	if s.indexOf(normalized) < 0 {
		s.filters = append(s.filters, normalized)
	}
	return nil
}

// Remove deletes f and reports whether it was present.
func (s *ActiveFilterSet) Remove(f models.ActiveFilter) bool {
	normalized, err := NormalizeFilter(f)
	if err != nil {
		return false
	}
	idx := s.indexOf(normalized)
	if idx < 0 {
		return false
	}
	s.filters = append(s.filters[:idx], s.filters[idx+1:]...)
	return true
}

func (s *ActiveFilterSet) Clear()   { s.filters = nil }
func (s *ActiveFilterSet) Len() int { return len(s.filters) }

// Contains reports whether an equal filter is present.
func (s *ActiveFilterSet) Contains(f models.ActiveFilter) bool {
	normalized, err := NormalizeFilter(f)
	return err == nil && s.indexOf(normalized) >= 0
}

// Filters returns a copy of the filters in insertion order.
func (s *ActiveFilterSet) Filters() []models.ActiveFilter {
	out := make([]models.ActiveFilter, len(s.filters))
	copy(out, s.filters)
	return out
}

func (s *ActiveFilterSet) indexOf(f models.ActiveFilter) int {
	for i, existing := range s.filters {
		if existing == f {
			return i
		}
	}
	return -1
}

// FilterEvents keeps the events that satisfy every filter type present.
// Filters sharing a type are alternatives: two categories select events of
// either category. Time ranges are measured from now's calendar date in
// now's location. The input is never modified.
func FilterEvents(events []models.Event, filters []models.ActiveFilter, now time.Time) []models.Event {
	out := make([]models.Event, 0, len(events))
	if len(filters) == 0 {
		return append(out, events...)
	}

	byType := make(map[models.FilterType][]string)
	var order []models.FilterType
	for _, f := range filters {
		if _, seen := byType[f.Type]; !seen {
			order = append(order, f.Type)
		}
		byType[f.Type] = append(byType[f.Type], f.Value)
	}

	today := models.DateOf(now)
	for _, event := range events {
		keep := true
		for _, typ := range order {
			if !matchesAny(event, typ, byType[typ], today) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, event)
		}
	}
	return out
}

func matchesAny(event models.Event, typ models.FilterType, values []string, today models.Date) bool {
	for _, value := range values {
		if matches(event, typ, value, today) {
			return true
		}
	}
	return false
}

func matches(event models.Event, typ models.FilterType, value string, today models.Date) bool {
	switch typ {
	case models.FilterCategory:
		want := value
		if c, ok := models.ParseCategory(value); ok {
			want = string(c)
		}
		return models.NormalizeTag(string(event.Category)) == models.NormalizeTag(want)
	case models.FilterAudience:
		if _, ok := audienceAnyAliases[models.NormalizeTag(value)]; ok {
			return true
		}
		want := value
		if a, ok := models.ParseAudienceType(value); ok {
			want = string(a)
		}
		return models.NormalizeTag(string(event.AudienceType)) == models.NormalizeTag(want)
	case models.FilterTimeRange:
		r, ok := models.ParseTimeRange(value)
		if !ok || event.Date.IsZero() {
			return false
		}
		return inTimeRange(event.Date.DaysSince(today), r)
	default:
		return false
	}
}

func inTimeRange(days int, r models.TimeRange) bool {
	switch r {
	case models.TimeRangeToday:
		return days == 0
	case models.TimeRangeThisWeek:
		return days >= 0 && days <= 7
	case models.TimeRangeThisMonth:
		return days >= 0 && days <= 30
	case models.TimeRangeNextMonth:
		return days > 30 && days <= 60
	default:
		return false
	}
}
