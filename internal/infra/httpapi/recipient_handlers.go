package httpapi

import (
	"net/http"
	"strconv"

	"novedad_notification_service/internal/app"
	"novedad_notification_service/internal/domain/recipient"
	idb "novedad_notification_service/internal/infra/database"
	"novedad_notification_service/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

// recipientResponse is the JSON shape for recipient listings.
type recipientResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

func toRecipientResponses(recipients []*recipient.Recipient) []recipientResponse {
	responses := make([]recipientResponse, 0, len(recipients))
	for _, r := range recipients {
		responses = append(responses, recipientResponse{
			ID:     r.ID,
			Name:   r.Name,
			Email:  r.Email,
			Active: r.IsActive,
		})
	}
	return responses
}

func (s *Server) handleListRecipients() gin.HandlerFunc {
	return func(c *gin.Context) {
		recipients, err := s.recipients.ListActive(c.Request.Context())
		if err != nil {
			logger.Log.WithError(err).Error("Failed to list recipients")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipients"})
			return
		}
		c.JSON(http.StatusOK, toRecipientResponses(recipients))
	}
}

// createRecipientRequest is the JSON body for recipient creation.
type createRecipientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) handleCreateRecipient() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRecipientRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and a valid email are required"})
			return
		}

		created, err := s.recipients.CreateRecipient(c.Request.Context(), req.Name, req.Email)
		if err != nil {
			if err == app.ErrEmailTaken {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Log.WithError(err).Error("Failed to create recipient")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recipient"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "recipient created",
			"id":      created.ID,
		})
	}
}

// searchResultResponse matches the original search payload shape.
type searchResultResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) handleSearchRecipients() gin.HandlerFunc {
	return func(c *gin.Context) {
		fragment, ok := c.GetQuery("email")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}

		results, err := s.recipients.Search(c.Request.Context(), fragment)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to search recipients")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search recipients"})
			return
		}

		responses := make([]searchResultResponse, 0, len(results))
		for _, r := range results {
			responses = append(responses, searchResultResponse{ID: r.ID, Email: r.Email, Name: r.Name})
		}
		c.JSON(http.StatusOK, responses)
	}
}

func (s *Server) handleVerifyRecipient() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := c.GetQuery("email")
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}

		exists, err := s.recipients.Exists(c.Request.Context(), email)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to verify recipient email")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify recipient email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"existe": exists})
	}
}

func (s *Server) handleDeactivateRecipient() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient id must be numeric"})
			return
		}

		_, err = s.recipients.Deactivate(c.Request.Context(), id)
		if err != nil {
			switch err {
			case idb.ErrRecipientNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
			case app.ErrRecipientAlreadyInactive:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				logger.Log.WithError(err).Error("Failed to deactivate recipient")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate recipient"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "recipient deactivated"})
	}
}
