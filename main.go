package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tunex/internal/config"
	"tunex/internal/database"
	"tunex/internal/handlers"
	"tunex/internal/repository"
	"tunex/internal/routes"
	"tunex/internal/services"
)

func main() {

	// =========================
	// LOAD CONFIG
	// =========================
	if err := config.LoadConfig(); err != nil {
		log.Println("⚠️ Config load warning:", err)
		log.Println("⚠️ Using environment variables only")
	}

	// =========================
	// CONNECT DATABASE
	// =========================
	if err := database.ConnectDB(); err != nil {
		log.Fatalln("❌ Database connection failed:", err)
	}

	database.RunMigrations()

	// =========================
	// INIT REPOSITORIES
	// =========================
	userRepo := repository.NewUserRepository(database.DB)
	songRepo := repository.NewSongRepository(database.DB)
	playlistRepo := repository.NewPlaylistRepository(database.DB)

	// =========================
	// INIT SERVICES
	// =========================
	uploader, err := services.NewUploadService(config.GlobalConfig.UploadDir)
	if err != nil {
		log.Fatalln("❌ Upload dir setup failed:", err)
	}

	// =========================
	// INIT HANDLERS
	// =========================
	authHandler := handlers.NewAuthHandler(userRepo)
	songHandler := handlers.NewSongHandler(songRepo, uploader)
	playlistHandler := handlers.NewPlaylistHandler(playlistRepo, songRepo)

	// =========================
	// ROUTES
	// =========================
	router := routes.SetupRoutes(authHandler, songHandler, playlistHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = config.GlobalConfig.ServerPort
	}
	bindAddr := "0.0.0.0:" + port

	server := &http.Server{
		Addr:         bindAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// =========================
	// START SERVER
	// =========================
	go func() {
		log.Println("🎵 =======================================")
		log.Println("🎵   TUNEX API SERVER")
		log.Println("🎵 =======================================")
		log.Printf("🎵   Running on: %s", bindAddr)
		log.Println("🚀 Server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("❌ Server error:", err)
		}
	}()

	// =========================
	// GRACEFUL SHUTDOWN
	// =========================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	log.Println("✅ Server exited properly")
}
