package server

import (
	"net/http"
	"strings"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListAlerts(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		UnreadOnly bool `form:"unread_only"`
		Limit      int  `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.alertSvc.ListAlerts(c.Request.Context(), alertdomain.ListRequest{
		UserID:     userID,
		UnreadOnly: query.UnreadOnly,
		Limit:      query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type markAlertsReadRequest struct {
	AlertIDs []string `json:"alert_ids"`
}

// MarkAlertsRead flags the given alerts as read. An absent or empty id list
// flags every alert the user has.
func (s *Server) MarkAlertsRead(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req markAlertsReadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	alertIDs := make([]snowflake.ID, 0, len(req.AlertIDs))
	for _, raw := range req.AlertIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, newValidationError("alert_ids", "invalid_alert_id", "invalid alert id"))
			return
		}
		alertIDs = append(alertIDs, id)
	}

	updated, err := s.alertSvc.MarkRead(c.Request.Context(), alertdomain.MarkReadRequest{
		UserID:   userID,
		AlertIDs: alertIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": updated}})
}

func parseUserID(c *gin.Context) (snowflake.ID, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(c.Param("user_id")))
	if err != nil || userID == 0 {
		return 0, newValidationError("user_id", "invalid_user", "invalid user id")
	}
	return userID, nil
}
