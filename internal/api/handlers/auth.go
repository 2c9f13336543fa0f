package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/playlinks/backend/internal/config"
	"github.com/playlinks/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// mintToken signs an identity token for the session engine. Guests carry a
// guest claim so the engine knows there is no account behind them.
func mintToken(cfg *config.Config, subject, displayName string, guest bool) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"name": displayName,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Duration(cfg.TokenTTLMinutes) * time.Minute).Unix(),
	}
	if guest {
		claims["guest"] = true
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// GuestToken mints an identity token for an unregistered player
func GuestToken(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			DisplayName string `json:"display_name"`
		}
		// Body is optional for guests
		c.BindJSON(&req)

		// Rate limit per client IP
		if rdb != nil && cfg.GuestRateLimitSeconds > 0 {
			key := fmt.Sprintf("guest_rate:%s", c.ClientIP())
			ok, err := rdb.SetNX(context.Background(), key, "1", time.Duration(cfg.GuestRateLimitSeconds)*time.Second).Result()
			if err == nil && !ok {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many guest tokens requested"})
				return
			}
		}

		guestID := "guest_" + generateID(8)
		name := strings.TrimSpace(req.DisplayName)
		if name == "" {
			name = guestID
		}

		tokenString, err := mintToken(cfg, guestID, name, true)
		if err != nil {
			log.Printf("Failed to sign guest token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":        tokenString,
			"player_id":    guestID,
			"display_name": name,
		})
	}
}

// SetPIN creates or updates a player row with a bcrypt-hashed PIN
func SetPIN(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone"`
			PIN   string `json:"pin"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin required"})
			return
		}

		phone := normalizePhone(req.Phone)
		if phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}
		pin := strings.TrimSpace(req.PIN)
		if len(pin) < 4 || len(pin) > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pin must be 4-6 digits"})
			return
		}

		pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("SetPIN bcrypt error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		_, err = db.Exec(`
			INSERT INTO players (phone_number, pin_hash, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (phone_number) DO UPDATE SET pin_hash = EXCLUDED.pin_hash`,
			phone, string(pinHash))
		if err != nil {
			log.Printf("SetPIN db error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Login verifies a PIN and returns a signed identity token
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone"`
			PIN   string `json:"pin"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin required"})
			return
		}

		phone := normalizePhone(req.Phone)
		if phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}

		var player models.Player
		err := db.Get(&player, `SELECT * FROM players WHERE phone_number = $1`, phone)
		if err == sql.ErrNoRows || (err == nil && !player.PINHash.Valid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or pin"})
			return
		}
		if err != nil {
			log.Printf("Login db error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(player.PINHash.String), []byte(req.PIN)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or pin"})
			return
		}

		displayName := player.DisplayName.String
		if displayName == "" {
			displayName = phone
		}

		tokenString, err := mintToken(cfg, phone, displayName, false)
		if err != nil {
			log.Printf("Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		db.Exec(`UPDATE players SET last_active = NOW() WHERE phone_number = $1`, phone)

		c.JSON(http.StatusOK, gin.H{
			"token":        tokenString,
			"player_id":    phone,
			"display_name": displayName,
		})
	}
}
