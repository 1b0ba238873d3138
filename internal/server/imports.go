package server

import (
	"net/http"
	"strings"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type importCompletedRequest struct {
	UserID     string   `json:"user_id"`
	StateCodes []string `json:"state_codes"`
}

type importCompletedResponse struct {
	NewAlerts []alertdomain.Alert `json:"new_alerts"`
}

// ImportCompleted is the signal an ingestion job sends after a transaction
// batch lands. It runs the full pipeline for the touched states and returns
// the crossings the run created.
func (s *Server) ImportCompleted(c *gin.Context) {
	var req importCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		AbortWithError(c, newValidationError("user_id", "invalid_user", "invalid user id"))
		return
	}
	if len(req.StateCodes) == 0 {
		AbortWithError(c, newValidationError("state_codes", "no_affected_states", "state_codes is required"))
		return
	}

	created, err := s.orchestrator.ProcessBatch(c.Request.Context(), userID, req.StateCodes)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": importCompletedResponse{NewAlerts: created}})
}
