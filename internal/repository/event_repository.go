package repository

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/kvstore"
)

// EventsKey is the store key holding the event catalog.
const EventsKey = "userEvents"

// EventRepository persists the ordered event catalog as one value.
type EventRepository struct {
	docs documentStore
	mu   sync.Mutex
	seed func() []models.Event
}

// NewEventRepository constructs the repository. When seed is non-nil it
// provides the catalog written the first time the key is found absent.
func NewEventRepository(store kvstore.Store, logger *zap.Logger, seed func() []models.Event) *EventRepository {
	return &EventRepository{docs: newDocumentStore(store, logger), seed: seed}
}

// List returns the catalog in stored order.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx)
}

// FindByID returns ErrNotFound when no event has the id.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update runs fn on the catalog while holding the repository lock and
// persists the result when fn reports a change.
func (r *EventRepository) Update(ctx context.Context, fn func([]models.Event) ([]models.Event, bool, error)) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.loadLocked(ctx)
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
		next = []models.Event{}
	}
	if err := r.docs.save(ctx, EventsKey, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (r *EventRepository) loadLocked(ctx context.Context) ([]models.Event, error) {
	doc, ok, err := r.docs.load(ctx, EventsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		if doc.ignored || r.seed == nil {
			return nil, nil
		}
		seeded := r.seed()
		if err := r.docs.save(ctx, EventsKey, seeded); err != nil {
			return nil, err
		}
		r.docs.logger.Info("seeded sample events", zap.Int("count", len(seeded)))
		return seeded, nil
	}

	var events []models.Event
	if err := decode(EventsKey, doc, &events); err != nil {
		r.docs.logger.Warn("ignoring malformed event catalog", zap.Error(err))
		return nil, nil
	}
	return events, nil
}
