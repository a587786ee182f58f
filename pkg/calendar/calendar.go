// Package calendar renders event listings as iCalendar feeds.
package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Entry is one all-day event in a feed.
type Entry struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Organizer   string
	Category    string
	// Day is the event date at midnight; only the calendar date is used.
	Day  time.Time
	Time string
}

// Feed describes the calendar being rendered.
type Feed struct {
	Name      string
	ProductID string
	Domain    string
	Stamp     time.Time
}

// Render serialises entries into an ICS document. Entries without a date are skipped.
func Render(feed Feed, entries []Entry) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if feed.ProductID != "" {
		cal.SetProductId(feed.ProductID)
	}
	if feed.Name != "" {
		cal.SetXWRCalName(feed.Name)
	}
	stamp := feed.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	for _, entry := range entries {
		if entry.Day.IsZero() {
			continue
		}
		uid := entry.UID
		if feed.Domain != "" {
			uid += "@" + feed.Domain
		}
		event := cal.AddEvent(uid)
		event.SetDtStampTime(stamp.UTC())
		event.SetAllDayStartAt(entry.Day)
		event.SetAllDayEndAt(entry.Day.AddDate(0, 0, 1))
		event.SetSummary(entry.Summary)
		if desc := description(entry); desc != "" {
			event.SetDescription(desc)
		}
		if entry.Location != "" {
			event.SetLocation(entry.Location)
		}
		if entry.Category != "" {
			event.AddProperty(ical.ComponentPropertyCategories, strings.ToUpper(entry.Category))
		}
	}
	return cal.Serialize()
}

func description(entry Entry) string {
	var lines []string
	if entry.Time != "" {
		lines = append(lines, "Horario: "+entry.Time)
	}
	if entry.Organizer != "" {
		lines = append(lines, "Organiza: "+entry.Organizer)
	}
	if entry.Description != "" {
		lines = append(lines, entry.Description)
	}
	return strings.Join(lines, "\n")
}
