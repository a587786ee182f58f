package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

// EventConfig tunes listing and time-range evaluation.
type EventConfig struct {
	Location     *time.Location
	DefaultLimit int
	MaxLimit     int
}

// CreateEventRequest is the event creation form. Description and organizer are optional.
type CreateEventRequest struct {
	Title           string              `validate:"required,max=200"`
	Description     string              `validate:"max=2000"`
	FullDescription string              `validate:"max=10000"`
	Date            models.Date         `validate:"-"`
	Time            string              `validate:"required,max=100"`
	Location        string              `validate:"required,max=200"`
	Organizer       string              `validate:"max=200"`
	Category        models.Category     `validate:"required"`
	AudienceType    models.AudienceType `validate:"required"`
	MaxAttendees    *int                `validate:"omitempty,min=0"`
	IsHighlighted   bool
}

func (r CreateEventRequest) trimmed() CreateEventRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.FullDescription = strings.TrimSpace(r.FullDescription)
	r.Time = strings.TrimSpace(r.Time)
	r.Location = strings.TrimSpace(r.Location)
	r.Organizer = strings.TrimSpace(r.Organizer)
	return r
}

// UpdateEventRequest holds the fields to change; nil fields are kept.
type UpdateEventRequest struct {
	Title           *string              `validate:"omitempty,min=1,max=200"`
	Description     *string              `validate:"omitempty,max=2000"`
	FullDescription *string              `validate:"omitempty,max=10000"`
	Date            *models.Date         `validate:"-"`
	Time            *string              `validate:"omitempty,min=1,max=100"`
	Location        *string              `validate:"omitempty,min=1,max=200"`
	Organizer       *string              `validate:"omitempty,max=200"`
	Category        *models.Category     `validate:"-"`
	AudienceType    *models.AudienceType `validate:"-"`
	MaxAttendees    *int                 `validate:"omitempty,min=0"`
	ClearCapacity   bool
	IsHighlighted   *bool
}

// EventService exposes the event catalog.
type EventService struct {
	repo      eventRepository
	validator *validator.Validate
	logger    *zap.Logger
	cfg       EventConfig
	now       func() time.Time
}

// NewEventService constructs EventService.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger, cfg EventConfig) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	return &EventService{repo: repo, validator: validate, logger: logger, cfg: cfg, now: time.Now}
}

// List filters the catalog and returns one page with the normalised filters applied.
func (s *EventService) List(ctx context.Context, query models.EventQuery) ([]models.Event, *models.Pagination, []models.ActiveFilter, error) {
	filters, err := NewActiveFilterSet(query.Filters...)
	if err != nil {
		return nil, nil, nil, err
	}
	matched, err := s.filtered(ctx, filters.Filters())
	if err != nil {
		return nil, nil, nil, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size < 1 {
		size = s.cfg.DefaultLimit
	}
	if size > s.cfg.MaxLimit {
		size = s.cfg.MaxLimit
	}

	// (page-1)*size can overflow for huge pages, so compare page counts first.
	start := len(matched)
	if page-1 < (len(matched)+size-1)/size {
		start = (page - 1) * size
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}
	return matched[start:end], pagination, filters.Filters(), nil
}

// ListAll returns every event matching filters, unpaginated.
func (s *EventService) ListAll(ctx context.Context, filters []models.ActiveFilter) ([]models.Event, error) {
	set, err := NewActiveFilterSet(filters...)
	if err != nil {
		return nil, err
	}
	return s.filtered(ctx, set.Filters())
}

// Get returns the event or NOT_FOUND.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, storeError(err, "failed to load event")
	}
	return event, nil
}

// Create adds an event authored by a staff identity.
func (s *EventService) Create(ctx context.Context, author *models.Identity, req CreateEventRequest) (*models.Event, error) {
	if err := requireStaff(author); err != nil {
		return nil, err
	}
	req = req.trimmed()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "event date is required")
	}
	if !knownCategory(req.Category) || !knownAudience(req.AudienceType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown category or audience")
	}

	event := models.Event{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Organizer:       req.Organizer,
		Location:        req.Location,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Date:            req.Date,
		Time:            req.Time,
		Category:        req.Category,
		AudienceType:    req.AudienceType,
		MaxAttendees:    req.MaxAttendees,
		IsHighlighted:   req.IsHighlighted,
		CreatedBy:       author.Email,
	}

	_, err := s.repo.Update(ctx, func(events []models.Event) ([]models.Event, bool, error) {
		return append(events, event), true, nil
	})
	if err != nil {
		return nil, storeError(err, "failed to create event")
	}
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("created_by", author.Email))
	return &event, nil
}

// Update applies a partial change to an event. The id never changes.
func (s *EventService) Update(ctx context.Context, editor *models.Identity, id string, req UpdateEventRequest) (*models.Event, error) {
	if err := requireStaff(editor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	for _, field := range []*string{req.Title, req.Time, req.Location} {
		if field != nil && strings.TrimSpace(*field) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title, time and location cannot be empty")
		}
	}
	if req.Date != nil && req.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "event date is invalid")
	}
	if (req.Category != nil && !knownCategory(*req.Category)) || (req.AudienceType != nil && !knownAudience(*req.AudienceType)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown category or audience")
	}

	var updated models.Event
	_, err := s.repo.Update(ctx, func(events []models.Event) ([]models.Event, bool, error) {
		for i := range events {
			if events[i].ID == id {
				applyEventUpdate(&events[i], req)
				updated = events[i]
				return events, true, nil
			}
		}
		return nil, false, repository.ErrNotFound
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, storeError(err, "failed to update event")
	}
	s.logger.Info("event updated", zap.String("event_id", id), zap.String("updated_by", editor.Email))
	return &updated, nil
}

// Delete removes an event. Enrollments pointing at it are dropped lazily.
func (s *EventService) Delete(ctx context.Context, editor *models.Identity, id string) error {
	if err := requireStaff(editor); err != nil {
		return err
	}
	_, err := s.repo.Update(ctx, func(events []models.Event) ([]models.Event, bool, error) {
		for i := range events {
			if events[i].ID == id {
				return append(events[:i:i], events[i+1:]...), true, nil
			}
		}
		return nil, false, repository.ErrNotFound
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return storeError(err, "failed to delete event")
	}
	s.logger.Info("event deleted", zap.String("event_id", id), zap.String("deleted_by", editor.Email))
	return nil
}

// FilterOptions lists the selectable filter values with their labels.
func (s *EventService) FilterOptions() models.FilterOptions {
	opts := models.FilterOptions{}
	for _, c := range models.Categories {
		opts.Categories = append(opts.Categories, models.FilterOption{Value: string(c), Label: categoryLabels[c]})
	}
	opts.Audiences = append(opts.Audiences, models.FilterOption{Value: models.AudienceAny, Label: "Todos"})
	for _, a := range models.AudienceTypes {
		opts.Audiences = append(opts.Audiences, models.FilterOption{Value: string(a), Label: audienceLabels[a]})
	}
	for _, r := range models.TimeRanges {
		opts.TimeRanges = append(opts.TimeRanges, models.FilterOption{Value: string(r), Label: timeRangeLabels[r]})
	}
	return opts
}

// Today returns the current date in the catalog's timezone.
func (s *EventService) Today() models.Date {
	return models.DateOf(s.now().In(s.cfg.Location))
}

func (s *EventService) filtered(ctx context.Context, filters []models.ActiveFilter) ([]models.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list events")
	}
	return FilterEvents(events, filters, s.now().In(s.cfg.Location)), nil
}

var categoryLabels = map[models.Category]string{
	models.CategoryAcademic:       "Académico",
	models.CategoryCultural:       "Cultural",
	models.CategorySports:         "Deportivo",
	models.CategoryConference:     "Conferencia",
	models.CategoryAdministrative: "Administrativo",
}

var audienceLabels = map[models.AudienceType]string{
	models.AudienceStudents: "Estudiantes",
	models.AudienceStaff:    "Funcionarios",
	models.AudiencePublic:   "Público General",
	models.AudienceInternal: "Comunidad Interna",
}

var timeRangeLabels = map[models.TimeRange]string{
	models.TimeRangeToday:     "Hoy",
	models.TimeRangeThisWeek:  "Esta semana",
	models.TimeRangeThisMonth: "Este mes",
	models.TimeRangeNextMonth: "Próximo mes",
}

func requireStaff(identity *models.Identity) error {
	if identity == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "sign in to manage events")
	}
	if identity.Role != models.RoleStaff {
		return appErrors.Clone(appErrors.ErrForbidden, "only staff can manage events")
	}
	return nil
}

func knownCategory(c models.Category) bool {
	_, ok := categoryLabels[c]
	return ok
}

func knownAudience(a models.AudienceType) bool {
	_, ok := audienceLabels[a]
	return ok
}

func applyEventUpdate(event *models.Event, req UpdateEventRequest) {
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = strings.TrimSpace(*req.Description)
	}
	if req.FullDescription != nil {
		event.FullDescription = strings.TrimSpace(*req.FullDescription)
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Time != nil {
		event.Time = strings.TrimSpace(*req.Time)
	}
	if req.Location != nil {
		event.Location = strings.TrimSpace(*req.Location)
	}
	if req.Organizer != nil {
		event.Organizer = strings.TrimSpace(*req.Organizer)
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.AudienceType != nil {
		event.AudienceType = *req.AudienceType
	}
	if req.ClearCapacity {
		event.MaxAttendees = nil
	} else if req.MaxAttendees != nil {
		capacity := *req.MaxAttendees
		event.MaxAttendees = &capacity
	}
	if req.IsHighlighted != nil {
		event.IsHighlighted = *req.IsHighlighted
	}
}
