package models

import "encoding/json"

// Event is one occurrence open for enrollment.
type Event struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Organizer       string       `json:"organizer"`
	Location        string       `json:"location"`
	Description     string       `json:"description"`
	FullDescription string       `json:"fullDescription,omitempty"`
	Date            Date         `json:"date"`
	Time            string       `json:"time"`
	Category        Category     `json:"category"`
	AudienceType    AudienceType `json:"audienceType"`
	Attendees       int          `json:"attendees"`
	MaxAttendees    *int         `json:"maxAttendees,omitempty"`
	IsHighlighted   bool         `json:"isHighlighted"`
	CreatedBy       string       `json:"createdBy,omitempty"`
}

// MarshalJSON adds the presentation date next to the ISO date.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return json.Marshal(struct {
		plain
		DisplayDate string `json:"displayDate,omitempty"`
	}{plain: plain(e), DisplayDate: e.Date.Display()})
}

// IsFull reports whether a capacity is set and reached.
func (e Event) IsFull() bool {
	return e.MaxAttendees != nil && e.Attendees >= *e.MaxAttendees
}

// EventQuery carries listing parameters.
type EventQuery struct {
	Filters  []ActiveFilter
	Page     int
	PageSize int
}

// FilterOption is one selectable value for a filter type.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterOptions groups selectable filter values by type.
type FilterOptions struct {
	Categories []FilterOption `json:"categories"`
	Audiences  []FilterOption `json:"audiences"`
	TimeRanges []FilterOption `json:"timeRanges"`
}
