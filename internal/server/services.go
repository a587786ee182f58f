package server

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/config"
	"github.com/noah-isme/campus-events-api/pkg/kvstore"
	"github.com/noah-isme/campus-events-api/pkg/ticket"
)

// BuildServices wires repositories over store and the services on top of them.
// metrics may be nil.
func BuildServices(cfg *config.Config, store kvstore.Store, metrics *service.MetricsService, logr *zap.Logger) Services {
	if logr == nil {
		logr = zap.NewNop()
	}
	var seed func() []models.Event
	if cfg.Events.SeedSamples {
		seed = repository.SampleEvents
	}

	sessions := repository.NewSessionRepository(store, logr)
	events := repository.NewEventRepository(store, logr, seed)
	enrollmentRepo := repository.NewEnrollmentRepository(store, logr)

	validate := validator.New()
	roles := service.NewRoleInferrer(cfg.Roles.StudentDomains, cfg.Roles.StaffDomains)
	location := cfg.Events.Location()

	auth := service.NewAuthService(sessions, roles, validate, logr, service.AuthConfig{
		Secret: cfg.Session.Secret,
		Expiry: cfg.Session.Expiration,
		Issuer: cfg.Session.Issuer,
	})
	eventSvc := service.NewEventService(events, validate, logr, service.EventConfig{
		Location:     location,
		DefaultLimit: cfg.Events.DefaultLimit,
		MaxLimit:     cfg.Events.MaxLimit,
	})
	enrollments := service.NewEnrollmentService(enrollmentRepo, events, service.NewEligibility(roles), metrics, logr)
	exports := service.NewExportService(service.ExportConfig{Domain: cfg.Session.Issuer, Location: location}, logr, nil, nil)
	tickets := service.NewTicketService(ticket.NewSigner(cfg.Tickets.Secret, cfg.Tickets.TTL), enrollments, cfg.Tickets.Size, logr)

	return Services{
		Auth:        auth,
		Events:      eventSvc,
		Enrollments: enrollments,
		Exports:     exports,
		Tickets:     tickets,
		Metrics:     metrics,
		Store:       store,
	}
}
