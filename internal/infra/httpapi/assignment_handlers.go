package httpapi

import (
	"net/http"
	"strconv"

	"novedad_notification_service/internal/app"
	"novedad_notification_service/internal/domain/assignment"
	idb "novedad_notification_service/internal/infra/database"
	"novedad_notification_service/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

// createAssignmentRequest is the JSON body for assignment creation.
type createAssignmentRequest struct {
	PuestoID    int64 `json:"puesto_id" binding:"required"`
	EventTypeID int64 `json:"tipo_novedad_id" binding:"required"`
	RecipientID int64 `json:"recipient_id" binding:"required"`
}

// assignmentResponse is the JSON shape for assignment listings.
type assignmentResponse struct {
	ID          int64 `json:"id"`
	PuestoID    int64 `json:"puesto_id"`
	EventTypeID int64 `json:"tipo_novedad_id"`
	RecipientID int64 `json:"recipient_id"`
	Active      bool  `json:"active"`
}

func toAssignmentResponses(assignments []*assignment.Assignment) []assignmentResponse {
	responses := make([]assignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, assignmentResponse{
			ID:          a.ID,
			PuestoID:    a.PuestoID,
			EventTypeID: a.EventTypeID,
			RecipientID: a.RecipientID,
			Active:      a.IsActive,
		})
	}
	return responses
}

func (s *Server) handleCreateAssignment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAssignmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "puesto_id, tipo_novedad_id and recipient_id are required"})
			return
		}

		created, err := s.assignments.CreateAssignment(c.Request.Context(), req.PuestoID, req.EventTypeID, req.RecipientID)
		if err != nil {
			switch err {
			case idb.ErrRecipientNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
			case app.ErrRecipientInactive, app.ErrAssignmentExists:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				logger.Log.WithError(err).Error("Failed to create assignment")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create assignment"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "assignment created",
			"id":      created.ID,
		})
	}
}

func (s *Server) handleListAssignments() gin.HandlerFunc {
	return func(c *gin.Context) {
		var puestoID int64
		if v, ok := c.GetQuery("puesto_id"); ok {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "puesto_id must be numeric"})
				return
			}
			puestoID = parsed
		}

		assignments, err := s.assignments.List(c.Request.Context(), puestoID)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to list assignments")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assignments"})
			return
		}
		c.JSON(http.StatusOK, toAssignmentResponses(assignments))
	}
}

func (s *Server) handleDeleteAssignment() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "assignment id must be numeric"})
			return
		}

		if err := s.assignments.Delete(c.Request.Context(), id); err != nil {
			if err == idb.ErrAssignmentNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
				return
			}
			logger.Log.WithError(err).Error("Failed to delete assignment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete assignment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "assignment deleted"})
	}
}
