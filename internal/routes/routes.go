package routes

import (
	"log"
	"time"

	"tunex/internal/config"
	"tunex/internal/handlers"
	"tunex/internal/middleware"
	"tunex/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	authHandler *handlers.AuthHandler,
	songHandler *handlers.SongHandler,
	playlistHandler *handlers.PlaylistHandler,
) *gin.Engine {

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	cfg := config.GlobalConfig
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20

	// =========================
	// CORS CONFIG (DEV / PROD)
	// =========================
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.Env == "production" {
		if cfg.CORSOrigin == "" {
			log.Fatal("❌ CORS_ORIGIN is not set in production")
		}
		corsConfig.AllowOrigins = []string{cfg.CORSOrigin}
	} else {
		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
		if cfg.CORSOrigin != "" {
			allowedOrigins = append(allowedOrigins, cfg.CORSOrigin)
		}
		corsConfig.AllowOrigins = allowedOrigins
	}

	router.Use(cors.New(corsConfig))

	// =========================
	// SECURITY HEADERS
	// =========================
	router.Use(func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// =========================
	// PUBLIC
	// =========================
	router.GET("/", authHandler.Index)
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/register", authHandler.RegisterPage)
	router.POST("/register", authHandler.Register)
	router.GET("/logout", authHandler.Logout)

	// =========================
	// CREATOR
	// =========================
	creator := router.Group("/")
	creator.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleCreator))
	{
		creator.GET("/dashboard/creator", songHandler.CreatorDashboard)
		creator.POST("/creator/upload", songHandler.Upload)
		creator.POST("/creator/edit/:song_id", songHandler.Edit)
		creator.POST("/creator/delete/:song_id", songHandler.Delete)
	}

	// =========================
	// LISTENER
	// =========================
	user := router.Group("/")
	user.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleUser))
	{
		user.GET("/dashboard/user", playlistHandler.UserDashboard)
		user.POST("/playlist/create", playlistHandler.Create)
		user.POST("/playlist/add", playlistHandler.AddSong)
		user.POST("/playlist/remove", playlistHandler.RemoveSong)
		user.GET("/playlist/:playlist_id", playlistHandler.View)
		user.POST("/playlist/rename/:playlist_id", playlistHandler.Rename)
		user.POST("/playlist/delete/:playlist_id", playlistHandler.Delete)
		user.POST("/playlist/reorder/:playlist_id", playlistHandler.Reorder)
	}

	// =========================
	// PLAY COUNT API
	// =========================
	api := router.Group("/api")
	api.Use(middleware.OptionalAuth())
	{
		api.POST("/song/:song_id/play", songHandler.Play)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Server is running",
		})
	})

	return router
}
