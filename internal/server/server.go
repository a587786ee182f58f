// Package server assembles the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-events-api/api/swagger"
	"github.com/noah-isme/campus-events-api/internal/handler"
	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/config"
	"github.com/noah-isme/campus-events-api/pkg/kvstore"
	"github.com/noah-isme/campus-events-api/pkg/logger"
)

// Services bundles everything the handlers call.
type Services struct {
	Auth        *service.AuthService
	Events      *service.EventService
	Enrollments *service.EnrollmentService
	Exports     *service.ExportService
	Tickets     *service.TicketService
	Metrics     *service.MetricsService
	Store       kvstore.Store
}

type Server struct {
	Config *config.Config
	Router *gin.Engine
	logger *zap.Logger
}

// NewServer builds the router with middlewares and routes mounted.
func NewServer(cfg *config.Config, svcs Services, logr *zap.Logger) *Server {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if logr == nil {
		logr = zap.NewNop()
	}

	s := &Server{Config: cfg, Router: gin.New(), logger: logr}
	s.mountMiddlewares(svcs.Metrics)
	s.mountHandlers(svcs)
	return s
}

// HTTPServer wraps the router in an http.Server bound to the configured port.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) mountMiddlewares(metrics *service.MetricsService) {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(logger.GinMiddleware(s.logger))
	s.Router.Use(corsMiddleware(s.Config.CORS.AllowedOrigins))
	if metrics != nil {
		s.Router.Use(middleware.Metrics(metrics))
	}
}

func (s *Server) mountHandlers(svcs Services) {
	var metricsHandler http.Handler
	if svcs.Metrics != nil && s.Config.Metrics.Enabled {
		metricsHandler = svcs.Metrics.Handler()
	}
	health := handler.NewHealthHandler(svcs.Store, metricsHandler)
	auth := handler.NewAuthHandler(svcs.Auth)
	events := handler.NewEventHandler(svcs.Events, svcs.Exports)
	enrollments := handler.NewEnrollmentHandler(svcs.Enrollments, svcs.Exports, svcs.Tickets)
	tickets := handler.NewTicketHandler(svcs.Tickets)

	s.Router.GET("/health", health.Health)
	s.Router.GET("/ready", health.Ready)
	if metricsHandler != nil {
		s.Router.GET("/metrics", health.Prometheus)
	}
	if s.Config.Env != config.EnvProduction {
		s.Router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	session := middleware.Session(svcs.Auth)
	staffOnly := middleware.RequireRoles(models.RoleStaff)

	api := s.Router.Group(s.Config.APIPrefix)
	{
		api.POST("/sessions", auth.StartSession)
		api.POST("/auth/login", middleware.OptionalSession(svcs.Auth), auth.Login)
		api.POST("/auth/logout", session, auth.Logout)
		api.GET("/auth/me", session, auth.Me)

		api.GET("/filters/options", events.FilterOptions)
		api.GET("/events", events.List)
		api.GET("/events/:id", events.Get)
		api.POST("/events", session, staffOnly, events.Create)
		api.PUT("/events/:id", session, staffOnly, events.Update)
		api.DELETE("/events/:id", session, staffOnly, events.Delete)
		api.GET("/calendar/events.ics", events.Calendar)

		api.POST("/events/:id/enrollment", session, enrollments.Enroll)
		api.DELETE("/events/:id/enrollment", session, enrollments.Unenroll)

		api.POST("/tickets/verify", tickets.Verify)
	}

	me := s.Router.Group(s.Config.APIPrefix+"/me", session)
	{
		me.GET("/enrollments", enrollments.List)
		me.GET("/enrollments/:eventId", enrollments.Get)
		me.GET("/enrollments/:eventId/ticket.png", enrollments.Ticket)
		me.GET("/calendar.ics", enrollments.Calendar)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "X-Ticket-Token", "Content-Disposition"},
		MaxAge:        10 * time.Minute,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
