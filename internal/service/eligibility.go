package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

// AudienceAllows reports whether role may join an event restricted to audience.
func AudienceAllows(audience models.AudienceType, role models.Role) bool {
	switch audience {
	case models.AudiencePublic:
		return true
	case models.AudienceStudents:
		return role == models.RoleStudent
	case models.AudienceStaff:
		return role == models.RoleStaff
	case models.AudienceInternal:
		return role == models.RoleStudent || role == models.RoleStaff
	default:
		return false
	}
}

// Eligibility decides whether a session may enroll in an event.
type Eligibility struct {
	roles *RoleInferrer
}

// NewEligibility constructs the policy.
func NewEligibility(roles *RoleInferrer) *Eligibility {
	return &Eligibility{roles: roles}
}

// Grant is the outcome of an accepted eligibility check. Attendee fields are
// only set for unauthenticated sign-ups.
type Grant struct {
	AttendeeEmail string
	AttendeeName  string
	AttendeeRole  models.Role
}

// Check returns a declined-action error when the caller may not join event.
// Signed-in callers have their role recomputed from the stored email.
// Anonymous callers may only join public events and must supply a valid email.
func (e *Eligibility) Check(event models.Event, session *models.Session, attendee *models.Attendee) (Grant, error) {
	if session.Authenticated() {
		role := e.roles.InferRole(session.Identity.Email)
		if !AudienceAllows(event.AudienceType, role) {
			return Grant{}, appErrors.Clone(appErrors.ErrEnrollmentRefused,
				fmt.Sprintf("%s accounts cannot enroll in events for %s", role, audienceLabel(event.AudienceType)))
		}
		return Grant{}, nil
	}

	if event.AudienceType != models.AudiencePublic {
		return Grant{}, appErrors.Clone(appErrors.ErrLoginRequired,
			fmt.Sprintf("sign in to enroll in events for %s", audienceLabel(event.AudienceType)))
	}
	if attendee == nil || !IsValidEmail(strings.TrimSpace(attendee.Email)) {
		return Grant{}, appErrors.Clone(appErrors.ErrValidation, "a valid attendee email is required")
	}
	email := strings.TrimSpace(attendee.Email)
	return Grant{
		AttendeeEmail: email,
		AttendeeName:  strings.TrimSpace(attendee.Name),
		AttendeeRole:  e.roles.InferRole(email),
	}, nil
}

func audienceLabel(audience models.AudienceType) string {
	switch audience {
	case models.AudienceInternal:
		return "the internal community"
	case "":
		return "an unspecified audience"
	default:
		return string(audience)
	}
}
