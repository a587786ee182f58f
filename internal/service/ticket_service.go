package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/ticket"
)

type enrollmentLookup interface {
	Get(ctx context.Context, session *models.Session, eventID string) (*models.EnrollmentRecord, error)
	GetBySessionID(ctx context.Context, sessionID, eventID string) (*models.EnrollmentRecord, error)
}

// TicketImage is a rendered entry ticket.
type TicketImage struct {
	Token     string
	ExpiresAt time.Time
	PNG       []byte
}

// TicketService issues QR entry tickets for enrollments and verifies them.
type TicketService struct {
	signer      *ticket.Signer
	enrollments enrollmentLookup
	size        int
	logger      *zap.Logger
}

// NewTicketService constructs TicketService.
func NewTicketService(signer *ticket.Signer, enrollments enrollmentLookup, size int, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{signer: signer, enrollments: enrollments, size: size, logger: logger}
}

// Issue renders a ticket for the session's enrollment in eventID.
func (s *TicketService) Issue(ctx context.Context, session *models.Session, eventID string) (*TicketImage, error) {
	if _, err := s.enrollments.Get(ctx, session, eventID); err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Issue(eventID, session.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign ticket")
	}
	png, err := ticket.QR(token, s.size)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render ticket")
	}
	return &TicketImage{Token: token, ExpiresAt: expiresAt, PNG: png}, nil
}

// Verify checks the signature and expiry of token and that the enrollment still exists.
func (s *TicketService) Verify(ctx context.Context, token string) (*models.TicketVerification, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, ticket.ErrExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "ticket expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ticket")
	}

	record, err := s.enrollments.GetBySessionID(ctx, claims.SessionID, claims.EventID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ticket does not match an active enrollment")
		}
		return nil, err
	}

	return &models.TicketVerification{
		Valid:      true,
		Ticket:     models.TicketClaims{EventID: claims.EventID, SessionID: claims.SessionID, ExpiresAt: claims.ExpiresAt},
		Enrollment: record,
	}, nil
}
