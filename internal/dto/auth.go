package dto

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/noah-isme/campus-events-api/internal/service"
)

var errInvalidEmail = errors.New("must be a valid email address")

// validEmail defers to the service rule so transport and service agree.
// Empty values are left to Required.
func validEmail(value interface{}) error {
	email, _ := value.(string)
	if email == "" || service.IsValidEmail(email) {
		return nil
	}
	return errInvalidEmail
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email string `json:"email"`
}

func (req *LoginRequest) Validate() error {
	req.Email = strings.TrimSpace(req.Email)
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, validation.Length(3, 254), validation.By(validEmail)),
	)
}

// ToService maps the payload to the auth service request.
func (req LoginRequest) ToService() service.LoginRequest {
	return service.LoginRequest{Email: req.Email}
}

// TicketVerifyRequest carries a scanned ticket token.
type TicketVerifyRequest struct {
	Token string `json:"token"`
}

func (req *TicketVerifyRequest) Validate() error {
	req.Token = strings.TrimSpace(req.Token)
	return validation.ValidateStruct(req,
		validation.Field(&req.Token, validation.Required, validation.Length(1, 1024)),
	)
}
