package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"novedad_notification_service/internal/app"
	"novedad_notification_service/internal/domain/delivery"
	idb "novedad_notification_service/internal/infra/database"
	"novedad_notification_service/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

// deliveryRecordResponse is the JSON shape for delivery history entries.
type deliveryRecordResponse struct {
	ID          int64  `json:"id"`
	RecipientID int64  `json:"recipient_id"`
	Outcome     string `json:"outcome"`
	SentAt      string `json:"sent_at"`
}

func (s *Server) handleListDeliveries() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event id must be numeric"})
			return
		}

		records, err := s.deliveries.ListForNovedad(c.Request.Context(), id)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to list delivery records")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list delivery records"})
			return
		}

		responses := make([]deliveryRecordResponse, 0, len(records))
		for _, r := range records {
			responses = append(responses, deliveryRecordResponse{
				ID:          r.ID,
				RecipientID: r.RecipientID,
				Outcome:     string(r.Outcome),
				SentAt:      r.SentAt.Format(time.RFC3339),
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}

// recordDeliveryRequest is the JSON body for appending a dispatch attempt.
type recordDeliveryRequest struct {
	RecipientID int64  `json:"recipient_id" binding:"required"`
	Outcome     string `json:"outcome" binding:"required"`
}

func (s *Server) handleRecordDelivery() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event id must be numeric"})
			return
		}

		var req recordDeliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient_id and outcome are required"})
			return
		}

		record, err := s.deliveries.Record(c.Request.Context(), id, req.RecipientID, delivery.Outcome(req.Outcome))
		if err != nil {
			switch err {
			case idb.ErrNovedadNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			case app.ErrInvalidOutcome:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				logger.Log.WithError(err).Error("Failed to record delivery")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record delivery"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "delivery recorded",
			"id":      record.ID,
		})
	}
}
