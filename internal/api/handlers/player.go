package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playlinks/backend/internal/models"
)

// GetPlayerProfile returns a player's profile
func GetPlayerProfile(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone := normalizePhone(c.Param("phone"))
		if phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}

		var player models.Player
		err := db.Get(&player, `SELECT * FROM players WHERE phone_number = $1`, phone)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			log.Printf("GetPlayerProfile db error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, player)
	}
}

// GetPlayerStats returns a player's aggregate hole stats
func GetPlayerStats(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone := normalizePhone(c.Param("phone"))
		if phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}

		var player models.Player
		err := db.Get(&player, `SELECT * FROM players WHERE phone_number = $1`, phone)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}
		if err != nil {
			log.Printf("GetPlayerStats db error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		stats := models.PlayerStats{
			PhoneNumber:      player.PhoneNumber,
			DisplayName:      player.DisplayName.String,
			TotalHolesPlayed: player.TotalHolesPlayed,
			TotalHolesWon:    player.TotalHolesWon,
		}
		if stats.TotalHolesPlayed > 0 {
			stats.WinRate = float64(stats.TotalHolesWon) / float64(stats.TotalHolesPlayed)
		}

		c.JSON(http.StatusOK, stats)
	}
}

// UpdateDisplayName sets a player's display name
func UpdateDisplayName(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone := normalizePhone(c.Param("phone"))
		if phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}

		var req struct {
			DisplayName string `json:"display_name"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display_name required"})
			return
		}
		name := strings.TrimSpace(req.DisplayName)
		if name == "" || len(name) > 32 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display_name must be 1-32 characters"})
			return
		}

		res, err := db.Exec(`UPDATE players SET display_name = $1 WHERE phone_number = $2`, name, phone)
		if err != nil {
			log.Printf("UpdateDisplayName db error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "display_name": name})
	}
}
