package repository

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/kvstore"
)

// EnrollmentRepository persists each session's ordered enrollment set.
type EnrollmentRepository struct {
	docs documentStore
	mu   sync.Mutex
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(store kvstore.Store, logger *zap.Logger) *EnrollmentRepository {
	return &EnrollmentRepository{docs: newDocumentStore(store, logger)}
}

// EnrollmentsKey is the store key holding a session's enrollment set.
func EnrollmentsKey(sessionID string) string {
	return "session:" + sessionID + ":enrolledEvents"
}

// List returns the stored records in insertion order.
func (r *EnrollmentRepository) List(ctx context.Context, sessionID string) ([]models.EnrollmentRecord, error) {
	return r.load(ctx, sessionID)
}

// Update runs fn on the current set while holding the repository lock and
// persists the result when fn reports a change.
func (r *EnrollmentRepository) Update(ctx context.Context, sessionID string, fn func([]models.EnrollmentRecord) ([]models.EnrollmentRecord, bool, error)) ([]models.EnrollmentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, changed, err := fn(current)
	if err != nil {
		return nil, err
	}
	if !changed {
		return current, nil
	}
	if next == nil {
		next = []models.EnrollmentRecord{}
	}
	if err := r.docs.save(ctx, EnrollmentsKey(sessionID), next); err != nil {
		return nil, err
	}
	return next, nil
}

func (r *EnrollmentRepository) load(ctx context.Context, sessionID string) ([]models.EnrollmentRecord, error) {
	key := EnrollmentsKey(sessionID)
	doc, ok, err := r.docs.load(ctx, key)
	if err != nil || !ok {
		return nil, err
	}

	var records []models.EnrollmentRecord
	if doc.version == legacySchemaVersion {
		records, err = decodeLegacyEnrollments(key, doc)
	} else {
		err = decode(key, doc, &records)
	}
	if err != nil {
		r.docs.logger.Warn("ignoring malformed enrollment set", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return records, nil
}

// legacyEnrollment is the bare event object the browser stored per enrollment.
type legacyEnrollment struct {
	models.Event
	AttendeeEmail string      `json:"attendeeEmail"`
	AttendeeName  string      `json:"attendeeName"`
	AttendeeRole  models.Role `json:"attendeeRole"`
}

func decodeLegacyEnrollments(key string, doc document) ([]models.EnrollmentRecord, error) {
	var legacy []json.RawMessage
	if err := decode(key, doc, &legacy); err != nil {
		return nil, err
	}
	records := make([]models.EnrollmentRecord, 0, len(legacy))
	for _, raw := range legacy {
		var item legacyEnrollment
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		if item.ID == "" {
			continue
		}
		records = append(records, models.EnrollmentRecord{
			EventID:       item.ID,
			AttendeeEmail: item.AttendeeEmail,
			AttendeeName:  item.AttendeeName,
			AttendeeRole:  item.AttendeeRole,
			Event:         item.Event,
		})
	}
	return records, nil
}
