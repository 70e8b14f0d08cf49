package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/riyarao-9-12/collaborative-drawing/pkg/health"
)

// handleHealth reports process and session health
func (s *Server) handleHealth(c *gin.Context) {
	snap := s.monitor.GetSnapshot(s.coordinator.UserCount(), s.coordinator.HistoryLen())
	status := http.StatusOK
	if snap.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, snap)
}

// handleUsers returns the current user list, the same data userListUpdate
// broadcasts carry
func (s *Server) handleUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.coordinator.Users())
}

// handleHistory returns the current history log, the same data a joiner
// receives via loadDrawingHistory
func (s *Server) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.coordinator.HistorySnapshot())
}

// handleStats returns archive counters when an archive is configured
func (s *Server) handleStats(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no archive store configured"})
		return
	}

	stats, err := s.store.GetStats()
	if err != nil {
		s.log.ErrorWithErr("stats query failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
