package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playlinks/backend/internal/api/handlers"
	"github.com/playlinks/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	// CORS middleware for React development server
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Auth endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/guest", handlers.GuestToken(rdb, cfg))
			auth.POST("/pin", handlers.SetPIN(db, cfg))
			auth.POST("/login", handlers.Login(db, cfg))
		}

		// Session endpoints
		session := v1.Group("/session")
		{
			session.GET("/recent", handlers.GetRecentSessions(db))
			session.GET("/:id", handlers.GetSessionState())
			session.GET("/:id/ws", handlers.HandleGameWebSocket(db, rdb, cfg))
		}

		// Player endpoints
		player := v1.Group("/player")
		{
			player.GET(":phone/stats", handlers.GetPlayerStats(db))
			player.GET(":phone", handlers.GetPlayerProfile(db))
			player.PUT(":phone/display-name", handlers.UpdateDisplayName(db))
		}
	}
}
