package httpapi

import (
	"fmt"
	"net/http"

	"novedad_notification_service/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP surface of the notification subsystem. Everything under
// /api/v1 sits behind the session-token boundary; /health and /metrics are
// open.
type Server struct {
	router      *gin.Engine
	port        string
	recipients  *app.RecipientService
	assignments *app.AssignmentService
	novedades   *app.NovedadService
	resolver    *app.ResolverService
	deliveries  *app.DeliveryService
}

func NewServer(
	port string,
	jwtSecret string,
	recipients *app.RecipientService,
	assignments *app.AssignmentService,
	novedades *app.NovedadService,
	resolver *app.ResolverService,
	deliveries *app.DeliveryService,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:      router,
		port:        port,
		recipients:  recipients,
		assignments: assignments,
		novedades:   novedades,
		resolver:    resolver,
		deliveries:  deliveries,
	}
	s.setupRoutes(jwtSecret)
	return s
}

// Handler exposes the router so main can wrap it in an http.Server for
// graceful shutdown.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address derived from the configured port.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%s", s.port)
}

func (s *Server) setupRoutes(jwtSecret string) {
	api := s.router.Group("/api/v1")
	api.Use(AuthRequired(jwtSecret))
	{
		events := api.Group("/events")
		{
			// Bulk idempotency check for upstream producers
			events.POST("/validate-consecutives", s.handleValidateConsecutives())
			// Batch ingestion; duplicate consecutives are benign no-ops
			events.POST("", s.handleIngestEvents())
			// Notification audience for one novedad
			events.GET("/:id/recipients", s.handleResolveRecipients())
			// Append-only delivery history
			events.GET("/:id/deliveries", s.handleListDeliveries())
			events.POST("/:id/deliveries", s.handleRecordDelivery())
		}

		recipients := api.Group("/recipients")
		{
			recipients.GET("", s.handleListRecipients())
			recipients.POST("", s.handleCreateRecipient())
			recipients.GET("/search", s.handleSearchRecipients())
			recipients.GET("/verify", s.handleVerifyRecipient())
			recipients.PUT("/:id/deactivate", s.handleDeactivateRecipient())
		}

		assignments := api.Group("/assignments")
		{
			assignments.POST("", s.handleCreateAssignment())
			assignments.GET("", s.handleListAssignments())
			assignments.DELETE("/:id", s.handleDeleteAssignment())
		}

		api.GET("/event-types", s.handleListEventTypes())
	}

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "novedad-notification"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
