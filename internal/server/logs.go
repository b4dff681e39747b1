package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleListLogs returns the audit log, newest first. The limit query
// parameter caps the page; the store applies its default otherwise.
func (s *Server) handleListLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	logs, err := s.store.ListLogs(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"logs": logs})
}
