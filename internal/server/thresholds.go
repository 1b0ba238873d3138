package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.thresholds.All()})
}

func (s *Server) GetThreshold(c *gin.Context) {
	code := strings.TrimSpace(c.Param("state_code"))
	rule, ok := s.thresholds.Get(code)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rule})
}
