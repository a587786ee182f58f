package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, sessionID string) ([]models.EnrollmentRecord, error)
	Update(ctx context.Context, sessionID string, fn func([]models.EnrollmentRecord) ([]models.EnrollmentRecord, bool, error)) ([]models.EnrollmentRecord, error)
}

type eventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Update(ctx context.Context, fn func([]models.Event) ([]models.Event, bool, error)) ([]models.Event, error)
}

type enrollmentRecorder interface {
	RecordEnrollment(action, outcome string)
}

// EnrollmentService manages each session's enrollment set and keeps event
// attendance counters in step with it.
type EnrollmentService struct {
	repo        enrollmentRepository
	events      eventRepository
	eligibility *Eligibility
	metrics     enrollmentRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, events eventRepository, eligibility *Eligibility, metrics enrollmentRecorder, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, events: events, eligibility: eligibility, metrics: metrics, logger: logger, now: time.Now}
}

// Enroll adds the event to the session's set. Repeating an existing
// enrollment returns the stored record with created=false.
func (s *EnrollmentService) Enroll(ctx context.Context, session *models.Session, eventID string, attendee *models.Attendee) (*models.EnrollmentRecord, bool, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, false, s.eventLookupError(err)
	}
	grant, err := s.eligibility.Check(*event, session, attendee)
	if err != nil {
		s.record("enroll", "refused")
		return nil, false, err
	}
	live, err := s.liveEventIDs(ctx)
	if err != nil {
		return nil, false, err
	}

	var (
		result  models.EnrollmentRecord
		created bool
	)
	_, err = s.repo.Update(ctx, session.ID, func(records []models.EnrollmentRecord) ([]models.EnrollmentRecord, bool, error) {
		kept, pruned := pruneOrphans(records, live)
		if idx := indexOfEnrollment(kept, eventID); idx >= 0 {
			result = kept[idx]
			return kept, pruned, nil
		}

		snapshot, err := s.adjustAttendees(ctx, eventID, 1)
		if err != nil {
			return nil, false, err
		}
		result = models.EnrollmentRecord{
			EventID:       eventID,
			EnrolledAt:    s.now().UTC(),
			AttendeeEmail: grant.AttendeeEmail,
			AttendeeName:  grant.AttendeeName,
			AttendeeRole:  grant.AttendeeRole,
			Event:         *snapshot,
		}
		created = true
		return append(kept, result), true, nil
	})
	if err != nil {
		s.record("enroll", outcomeOf(err))
		return nil, false, s.mutationError(err, "failed to enroll")
	}

	if created {
		s.record("enroll", "created")
		s.logger.Info("enrolled", zap.String("session_id", session.ID), zap.String("event_id", eventID), zap.Bool("anonymous", !session.Authenticated()))
	} else {
		s.record("enroll", "unchanged")
	}
	return &result, created, nil
}

// Unenroll removes the event from the session's set and reports whether a
// record was removed. Removing an absent record is not an error.
func (s *EnrollmentService) Unenroll(ctx context.Context, session *models.Session, eventID string) (bool, error) {
	live, err := s.liveEventIDs(ctx)
	if err != nil {
		return false, err
	}

	removed := false
	_, err = s.repo.Update(ctx, session.ID, func(records []models.EnrollmentRecord) ([]models.EnrollmentRecord, bool, error) {
		idx := indexOfEnrollment(records, eventID)
		if idx >= 0 {
			records = append(records[:idx:idx], records[idx+1:]...)
			removed = true
		}
		kept, pruned := pruneOrphans(records, live)
		if !removed {
			return kept, pruned, nil
		}
		if _, ok := live[eventID]; ok {
			if _, err := s.adjustAttendees(ctx, eventID, -1); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, false, err
			}
		}
		return kept, true, nil
	})
	if err != nil {
		return false, s.mutationError(err, "failed to unenroll")
	}
	if removed {
		s.record("unenroll", "removed")
	} else {
		s.record("unenroll", "unchanged")
	}
	return removed, nil
}

// IsEnrolled reports membership, ignoring records for deleted events.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, session *models.Session, eventID string) (bool, error) {
	records, err := s.List(ctx, session)
	if err != nil {
		return false, err
	}
	return indexOfEnrollment(records, eventID) >= 0, nil
}

// Get returns the session's record for eventID or NOT_FOUND.
func (s *EnrollmentService) Get(ctx context.Context, session *models.Session, eventID string) (*models.EnrollmentRecord, error) {
	return s.GetBySessionID(ctx, session.ID, eventID)
}

// GetBySessionID looks up a record without a resolved session, as ticket checks do.
func (s *EnrollmentService) GetBySessionID(ctx context.Context, sessionID, eventID string) (*models.EnrollmentRecord, error) {
	records, err := s.list(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := indexOfEnrollment(records, eventID)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	record := records[idx]
	return &record, nil
}

// List returns the session's records in enrollment order. Records whose
// event no longer exists are left out.
func (s *EnrollmentService) List(ctx context.Context, session *models.Session) ([]models.EnrollmentRecord, error) {
	return s.list(ctx, session.ID)
}

func (s *EnrollmentService) list(ctx context.Context, sessionID string) ([]models.EnrollmentRecord, error) {
	records, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, storeError(err, "failed to load enrollments")
	}
	live, err := s.liveEventIDs(ctx)
	if err != nil {
		return nil, err
	}
	kept, _ := pruneOrphans(records, live)
	return kept, nil
}

// adjustAttendees changes the event's counter by delta, refusing a new
// enrollment once capacity is reached, and returns the updated event.
func (s *EnrollmentService) adjustAttendees(ctx context.Context, eventID string, delta int) (*models.Event, error) {
	var updated *models.Event
	_, err := s.events.Update(ctx, func(events []models.Event) ([]models.Event, bool, error) {
		for i := range events {
			if events[i].ID != eventID {
				continue
			}
			if delta > 0 && events[i].IsFull() {
				return nil, false, appErrors.Clone(appErrors.ErrEventFull, "event \""+events[i].Title+"\" is full")
			}
			events[i].Attendees += delta
			if events[i].Attendees < 0 {
				events[i].Attendees = 0
			}
			ev := events[i]
			updated = &ev
			return events, true, nil
		}
		return nil, false, repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EnrollmentService) liveEventIDs(ctx context.Context) (map[string]struct{}, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load events")
	}
	ids := make(map[string]struct{}, len(events))
	for _, ev := range events {
		ids[ev.ID] = struct{}{}
	}
	return ids, nil
}

func (s *EnrollmentService) eventLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return storeError(err, "failed to load event")
}

func (s *EnrollmentService) mutationError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return storeError(err, message)
}

func (s *EnrollmentService) record(action, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordEnrollment(action, outcome)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, appErrors.ErrEventFull):
		return "full"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func indexOfEnrollment(records []models.EnrollmentRecord, eventID string) int {
	for i, r := range records {
		if r.EventID == eventID {
			return i
		}
	}
	return -1
}

// pruneOrphans drops records whose event is not in live and reports whether any were dropped.
func pruneOrphans(records []models.EnrollmentRecord, live map[string]struct{}) ([]models.EnrollmentRecord, bool) {
	kept := make([]models.EnrollmentRecord, 0, len(records))
	for _, r := range records {
		if _, ok := live[r.EventID]; ok {
			kept = append(kept, r)
		}
	}
	return kept, len(kept) != len(records)
}

// storeError maps a persistence failure to STORE_UNAVAILABLE keeping the cause.
func storeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, message)
}
