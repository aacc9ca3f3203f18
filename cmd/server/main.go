package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"nursery-tracker/internal/config"
	"nursery-tracker/internal/database"
	"nursery-tracker/internal/handlers"
	"nursery-tracker/internal/services"
	"nursery-tracker/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the local store
	store, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	// Bring the schema up to date before anything touches the store. A
	// failed migration must halt startup, never be skipped.
	migrator := database.NewMigrator(store)
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema is current")

	// Initialize blob store client
	blobClient, err := storage.NewBlobClient(cfg.Storage.URL, cfg.Storage.Key, cfg.Storage.Bucket)
	if err != nil {
		log.Fatalf("Failed to initialize blob store client: %v", err)
	}

	// Initialize service and handlers
	projectService := services.NewProjectService(store, blobClient)

	projectsHandler := handlers.NewProjectsHandler(projectService, blobClient)
	photosHandler := handlers.NewPhotosHandler(projectService, blobClient)
	commentsHandler := handlers.NewCommentsHandler(projectService)

	// Setup router
	router := gin.Default()
	router.Use(cors.Default())

	// Health check
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	// Project routes
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.PUT("/projects/:project_id/status", projectsHandler.UpdateStatus)
	api.POST("/projects/:project_id/header-image", photosHandler.SetHeaderImage)

	// Photos
	api.POST("/projects/:project_id/photos", photosHandler.Upload)
	api.GET("/projects/:project_id/photos", photosHandler.ListForProject)
	api.DELETE("/photos/:photo_id", photosHandler.Delete)
	api.GET("/photos/:photo_id/content", photosHandler.Content)

	// Comments
	api.POST("/projects/:project_id/comments", commentsHandler.Add)
	api.GET("/projects/:project_id/comments", commentsHandler.ListForProject)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
