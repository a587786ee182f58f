package dto

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/service"
)

var (
	errInvalidDate     = errors.New("must be a date like 2024-11-25 or 25 Nov 2024")
	errInvalidCategory = errors.New("must be one of academic, cultural, sports, conference, administrative")
	errInvalidAudience = errors.New("must be one of students, staff, public, internal")
)

// CreateEventRequest is the event authoring payload.
type CreateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	FullDescription string `json:"fullDescription"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Location        string `json:"location"`
	Organizer       string `json:"organizer"`
	Category        string `json:"category"`
	AudienceType    string `json:"audienceType"`
	MaxAttendees    *int   `json:"maxAttendees"`
	IsHighlighted   bool   `json:"isHighlighted"`
}

func (req *CreateEventRequest) Validate() error {
	for _, field := range []*string{&req.Title, &req.Description, &req.FullDescription, &req.Date, &req.Time, &req.Location, &req.Organizer} {
		*field = strings.TrimSpace(*field)
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.FullDescription, validation.Length(0, 10000)),
		validation.Field(&req.Date, validation.Required, validation.By(validDate)),
		validation.Field(&req.Time, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Organizer, validation.Length(0, 200)),
		validation.Field(&req.Category, validation.Required, validation.By(validCategory)),
		validation.Field(&req.AudienceType, validation.Required, validation.By(validAudience)),
		validation.Field(&req.MaxAttendees, validation.Min(0)),
	)
}

// ToService maps a validated payload to the catalog request.
func (req CreateEventRequest) ToService() service.CreateEventRequest {
	date, _ := models.ParseDate(req.Date)
	category, _ := models.ParseCategory(req.Category)
	audience, _ := models.ParseAudienceType(req.AudienceType)
	return service.CreateEventRequest{
		Title:           req.Title,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Date:            date,
		Time:            req.Time,
		Location:        req.Location,
		Organizer:       req.Organizer,
		Category:        category,
		AudienceType:    audience,
		MaxAttendees:    req.MaxAttendees,
		IsHighlighted:   req.IsHighlighted,
	}
}

// UpdateEventRequest changes only the fields present in the payload.
// ClearMaxAttendees removes the capacity limit.
type UpdateEventRequest struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	FullDescription   *string `json:"fullDescription"`
	Date              *string `json:"date"`
	Time              *string `json:"time"`
	Location          *string `json:"location"`
	Organizer         *string `json:"organizer"`
	Category          *string `json:"category"`
	AudienceType      *string `json:"audienceType"`
	MaxAttendees      *int    `json:"maxAttendees"`
	ClearMaxAttendees bool    `json:"clearMaxAttendees"`
	IsHighlighted     *bool   `json:"isHighlighted"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.FullDescription, validation.Length(0, 10000)),
		validation.Field(&req.Date, validation.NilOrNotEmpty, validation.By(validDate)),
		validation.Field(&req.Time, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Location, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Organizer, validation.Length(0, 200)),
		validation.Field(&req.Category, validation.NilOrNotEmpty, validation.By(validCategory)),
		validation.Field(&req.AudienceType, validation.NilOrNotEmpty, validation.By(validAudience)),
		validation.Field(&req.MaxAttendees, validation.Min(0)),
	)
}

// ToService maps a validated payload to the catalog request.
func (req UpdateEventRequest) ToService() service.UpdateEventRequest {
	out := service.UpdateEventRequest{
		Title:           req.Title,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Time:            req.Time,
		Location:        req.Location,
		Organizer:       req.Organizer,
		MaxAttendees:    req.MaxAttendees,
		ClearCapacity:   req.ClearMaxAttendees,
		IsHighlighted:   req.IsHighlighted,
	}
	if req.Date != nil {
		date, _ := models.ParseDate(*req.Date)
		out.Date = &date
	}
	if req.Category != nil {
		category, _ := models.ParseCategory(*req.Category)
		out.Category = &category
	}
	if req.AudienceType != nil {
		audience, _ := models.ParseAudienceType(*req.AudienceType)
		out.AudienceType = &audience
	}
	return out
}

func validDate(value interface{}) error {
	raw, _ := stringValue(value)
	if raw == "" {
		return nil
	}
	if _, err := models.ParseDate(raw); err != nil {
		return errInvalidDate
	}
	return nil
}

func validCategory(value interface{}) error {
	raw, _ := stringValue(value)
	if raw == "" {
		return nil
	}
	if _, ok := models.ParseCategory(raw); !ok {
		return errInvalidCategory
	}
	return nil
}

func validAudience(value interface{}) error {
	raw, _ := stringValue(value)
	if raw == "" {
		return nil
	}
	if _, ok := models.ParseAudienceType(raw); !ok {
		return errInvalidAudience
	}
	return nil
}

func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case *string:
		if v == nil {
			return "", false
		}
		return strings.TrimSpace(*v), true
	default:
		return "", false
	}
}
