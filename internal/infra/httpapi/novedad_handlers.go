package httpapi

import (
	"net/http"
	"strconv"

	"novedad_notification_service/internal/app"
	idb "novedad_notification_service/internal/infra/database"
	"novedad_notification_service/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

// validateConsecutivesRequest is the bulk idempotency-check body.
type validateConsecutivesRequest struct {
	Consecutives []string `json:"consecutives"`
}

func (s *Server) handleValidateConsecutives() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateConsecutivesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "consecutives must be an array of strings"})
			return
		}

		// Empty input is a valid request and returns an empty result.
		missing, err := s.novedades.FindMissingConsecutives(c.Request.Context(), req.Consecutives)
		if err != nil {
			// A failed check must fail the whole batch, never answer partially.
			logger.Log.WithError(err).Error("Failed to validate consecutives")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate consecutives"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"missing": missing})
	}
}

// ingestEventRequest is one candidate novedad in an ingestion batch.
type ingestEventRequest struct {
	Consecutivo string `json:"consecutivo" binding:"required"`
	PuestoID    int64  `json:"puesto_id" binding:"required"`
	EventTypeID int64  `json:"tipo_novedad_id" binding:"required"`
}

func (s *Server) handleIngestEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req []ingestEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a non-empty array of events is required"})
			return
		}
		if len(req) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a non-empty array of events is required"})
			return
		}

		items := make([]app.NovedadInput, 0, len(req))
		for _, e := range req {
			items = append(items, app.NovedadInput{
				Consecutive: e.Consecutivo,
				PuestoID:    e.PuestoID,
				EventTypeID: e.EventTypeID,
			})
		}

		result, err := s.novedades.IngestBatch(c.Request.Context(), items)
		if err != nil {
			if err == app.ErrEmptyConsecutive {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Log.WithError(err).Error("Failed to ingest events")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ingest events"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":    "events ingested",
			"ingested":   result.Ingested,
			"duplicates": result.Duplicates,
		})
	}
}

// resolvedRecipientResponse is the audience payload for one novedad.
type resolvedRecipientResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) handleResolveRecipients() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event id must be numeric"})
			return
		}

		audience, err := s.resolver.Resolve(c.Request.Context(), id)
		if err != nil {
			if err == idb.ErrNovedadNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			logger.Log.WithError(err).Error("Failed to resolve event recipients")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve event recipients"})
			return
		}

		responses := make([]resolvedRecipientResponse, 0, len(audience))
		for _, r := range audience {
			responses = append(responses, resolvedRecipientResponse{Email: r.Email, Name: r.Name})
		}
		c.JSON(http.StatusOK, responses)
	}
}

// eventTypeResponse is the lookup-list payload.
type eventTypeResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ReportTypeID int64  `json:"report_type_id"`
}

func (s *Server) handleListEventTypes() gin.HandlerFunc {
	return func(c *gin.Context) {
		var reportTypeID int64
		if v, ok := c.GetQuery("report_type_id"); ok {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "report_type_id must be numeric"})
				return
			}
			reportTypeID = parsed
		}

		types, err := s.novedades.ListEventTypes(c.Request.Context(), reportTypeID)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to list event types")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list event types"})
			return
		}

		responses := make([]eventTypeResponse, 0, len(types))
		for _, et := range types {
			responses = append(responses, eventTypeResponse{ID: et.ID, Name: et.Name, ReportTypeID: et.ReportTypeID})
		}
		c.JSON(http.StatusOK, responses)
	}
}
