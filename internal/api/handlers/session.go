package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playlinks/backend/internal/game"
	"github.com/playlinks/backend/internal/models"
)

// GetSessionState returns a snapshot of a live session for client resync.
func GetSessionState() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		s, err := game.Manager.GetSession(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// GetRecentSessions returns the most recently completed holes.
func GetRecentSessions(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessions []models.GolfSession
		err := db.Select(&sessions, `
			SELECT * FROM golf_sessions
			WHERE completed_at IS NOT NULL
			ORDER BY completed_at DESC
			LIMIT 20`)
		if err != nil {
			log.Printf("GetRecentSessions db error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": sessions})
	}
}
