package dto

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// EnrollRequest is the optional enrollment body. Anonymous sessions must
// name the attendee; signed-in sessions may leave it empty.
type EnrollRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (req *EnrollRequest) Validate() error {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Length(0, 254), validation.By(validEmail)),
		validation.Field(&req.Name, validation.Length(0, 120)),
	)
}

// Attendee returns the attendee details, or nil when none were given.
func (req EnrollRequest) Attendee() *models.Attendee {
	if req.Email == "" && req.Name == "" {
		return nil
	}
	return &models.Attendee{Email: req.Email, Name: req.Name}
}
