package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vibebench/internal/api"
	"vibebench/internal/app/service"
	"vibebench/internal/common/security"
	"vibebench/internal/domain/repository"
	"vibebench/internal/platform/blob"
	"vibebench/internal/platform/cache"
	"vibebench/internal/platform/config"
	"vibebench/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.EnsureSchema(database.DB); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}
	fmt.Println("Database connected.")

	// 4. Initialize Redis view cache
	views := cache.Connect()
	defer views.Close()

	// 5. Initialize blob storage for chat-log uploads
	if err := blob.Init(); err != nil {
		log.Fatalf("Could not initialize blob storage: %v", err)
	}
	fmt.Println("Blob storage initialized.")

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	benchmarkRepo := repository.NewPgBenchmarkRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	likeRepo := repository.NewPgLikeRepository(database.DB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo, config.AppConfig.AdminEmails)
	benchmarkService := service.NewBenchmarkService(benchmarkRepo, submissionRepo, views)
	submissionService := service.NewSubmissionService(submissionRepo, benchmarkRepo, userRepo, views)
	likeService := service.NewLikeService(likeRepo, submissionRepo, views, database.DB)
	uploadService := service.NewUploadService(blob.PresignPut)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, benchmarkService, submissionService, likeService, uploadService, userRepo)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
