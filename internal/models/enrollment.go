package models

import "time"

// Attendee identifies an unauthenticated sign-up.
type Attendee struct {
	Email string
	Name  string
}

// EnrollmentRecord ties a session to an event it joined. Event is a
// snapshot taken when the record was created.
type EnrollmentRecord struct {
	EventID       string    `json:"eventId"`
	EnrolledAt    time.Time `json:"enrolledAt"`
	AttendeeEmail string    `json:"attendeeEmail,omitempty"`
	AttendeeName  string    `json:"attendeeName,omitempty"`
	AttendeeRole  Role      `json:"attendeeRole,omitempty"`
	Event         Event     `json:"event"`
}

// TicketClaims is the verified payload of an entry ticket.
type TicketClaims struct {
	EventID   string    `json:"eventId"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TicketVerification reports the outcome of a ticket check.
type TicketVerification struct {
	Valid      bool              `json:"valid"`
	Ticket     TicketClaims      `json:"ticket"`
	Enrollment *EnrollmentRecord `json:"enrollment,omitempty"`
}
