package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/service"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, query models.EventQuery) ([]models.Event, *models.Pagination, []models.ActiveFilter, error)
	ListAll(ctx context.Context, filters []models.ActiveFilter) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, author *models.Identity, req service.CreateEventRequest) (*models.Event, error)
	Update(ctx context.Context, editor *models.Identity, id string, req service.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, editor *models.Identity, id string) error
	FilterOptions() models.FilterOptions
}

type eventCalendar interface {
	EventsCalendar(name string, events []models.Event) []byte
}

// EventHandler exposes the event catalog.
type EventHandler struct {
	service  eventService
	calendar eventCalendar
}

// NewEventHandler builds a new handler.
func NewEventHandler(svc eventService, calendar eventCalendar) *EventHandler {
	return &EventHandler{service: svc, calendar: calendar}
}

// List godoc
// @Summary List events
// @Description Filters of the same type are alternatives; different types must all match.
// @Tags Events
// @Produce json
// @Param filter query []string false "type:value filter, repeatable (category:academic, audience:public, timeRange:thisWeek)"
// @Param category query []string false "Category filter"
// @Param audience query []string false "Audience filter"
// @Param timeRange query []string false "today, thisWeek, thisMonth or nextMonth"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	filters, err := filtersFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := intQuery(c, "page")
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}

	events, pagination, applied, err := h.service.List(c.Request.Context(), models.EventQuery{Filters: filters, Page: page, PageSize: limit})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination, map[string]interface{}{"filters": applied})
}

// Get godoc
// @Summary Get event detail
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body dto.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if !bindJSON(c, &req, "invalid event payload", false) {
		return
	}
	event, err := h.service.Create(c.Request.Context(), identityFromContext(c), req.ToService())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update event
// @Description Only the fields present in the payload change.
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateEventRequest true "Event changes"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if !bindJSON(c, &req, "invalid event payload", false) {
		return
	}
	event, err := h.service.Update(c.Request.Context(), identityFromContext(c), c.Param("id"), req.ToService())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete event
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), identityFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// FilterOptions godoc
// @Summary List selectable filter values
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /filters/options [get]
func (h *EventHandler) FilterOptions(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.FilterOptions(), nil)
}

// Calendar godoc
// @Summary Export events as iCalendar
// @Description Accepts the same filters as the listing.
// @Tags Events
// @Produce text/calendar
// @Success 200 {string} string "ICS document"
// @Router /calendar/events.ics [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	filters, err := filtersFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	events, err := h.service.ListAll(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, contentTypeCalendar, "eventos.ics", h.calendar.EventsCalendar("", events))
}

const contentTypeCalendar = "text/calendar; charset=utf-8"

// filtersFromQuery collects ?filter=type:value plus the per-type shorthands.
func filtersFromQuery(c *gin.Context) ([]models.ActiveFilter, error) {
	var filters []models.ActiveFilter
	for _, raw := range c.QueryArray("filter") {
		f, err := models.ParseActiveFilter(raw)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error())
		}
		filters = append(filters, f)
	}
	for _, typ := range []models.FilterType{models.FilterCategory, models.FilterAudience, models.FilterTimeRange} {
		for _, value := range c.QueryArray(string(typ)) {
			filters = append(filters, models.ActiveFilter{Type: typ, Value: value})
		}
	}
	return filters, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, key+" must be a non-negative integer")
	}
	return n, nil
}
