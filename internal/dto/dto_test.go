package dto

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/service"
)

func strPtr(s string) *string { return &s }

func TestLoginRequestValidate(t *testing.T) {
	req := LoginRequest{Email: "  ana@alumnos.usm.cl "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "ana@alumnos.usm.cl", req.ToService().Email)

	for _, email := range []string{"", "ana", "ana@usm", "a na@usm.cl"} {
		req := LoginRequest{Email: email}
		assert.Error(t, req.Validate(), email)
	}

	for _, email := range []string{"ana", "ana@usm", "dora@gmail.com", "x@y.z"} {
		req := LoginRequest{Email: email}
		assert.Equal(t, service.IsValidEmail(email), req.Validate() == nil, email)
	}
}

func TestEnrollRequestAttendee(t *testing.T) {
	empty := EnrollRequest{}
	require.NoError(t, empty.Validate())
	assert.Nil(t, empty.Attendee())

	named := EnrollRequest{Email: " dora@gmail.com ", Name: " Dora "}
	require.NoError(t, named.Validate())
	assert.Equal(t, &models.Attendee{Email: "dora@gmail.com", Name: "Dora"}, named.Attendee())

	bad := EnrollRequest{Email: "dora"}
	err := bad.Validate()
	require.Error(t, err)
	errs, ok := err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, errs, "email")
}

func TestCreateEventRequestValidate(t *testing.T) {
	req := CreateEventRequest{
		Title:        "Feria",
		Date:         "02 Dic 2024",
		Time:         "10:00 - 14:00",
		Location:     "Patio central",
		Category:     "Cultural",
		AudienceType: "Público",
	}
	require.NoError(t, req.Validate())

	mapped := req.ToService()
	assert.True(t, mapped.Date.Equal(models.NewDate(2024, time.December, 2)))
	assert.Equal(t, models.CategoryCultural, mapped.Category)
	assert.Equal(t, models.AudiencePublic, mapped.AudienceType)

	invalid := req
	invalid.Date = "someday"
	invalid.Category = "gaming"
	invalid.Title = ""
	err := invalid.Validate()
	require.Error(t, err)
	errs := err.(validation.Errors)
	assert.Contains(t, errs, "date")
	assert.Contains(t, errs, "category")
	assert.Contains(t, errs, "title")

	blank := req
	blank.Title = "   "
	blank.Time = " "
	blank.Location = "\t"
	err = blank.Validate()
	require.Error(t, err)
	errs = err.(validation.Errors)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "time")
	assert.Contains(t, errs, "location")

	negative := req
	negative.MaxAttendees = new(int)
	*negative.MaxAttendees = -5
	assert.Error(t, negative.Validate())
}

func TestUpdateEventRequestValidate(t *testing.T) {
	require.NoError(t, (&UpdateEventRequest{}).Validate())

	req := UpdateEventRequest{Date: strPtr("2025-01-15"), AudienceType: strPtr("interno"), ClearMaxAttendees: true}
	require.NoError(t, req.Validate())
	mapped := req.ToService()
	require.NotNil(t, mapped.Date)
	assert.True(t, mapped.Date.Equal(models.NewDate(2025, time.January, 15)))
	require.NotNil(t, mapped.AudienceType)
	assert.Equal(t, models.AudienceInternal, *mapped.AudienceType)
	assert.True(t, mapped.ClearCapacity)
	assert.Nil(t, mapped.Category)

	assert.Error(t, (&UpdateEventRequest{Title: strPtr("")}).Validate())
	assert.Error(t, (&UpdateEventRequest{Date: strPtr("soon")}).Validate())
}

func TestTicketVerifyRequestValidate(t *testing.T) {
	assert.Error(t, (&TicketVerifyRequest{Token: "  "}).Validate())
	assert.NoError(t, (&TicketVerifyRequest{Token: "a.b.c.d"}).Validate())
}
