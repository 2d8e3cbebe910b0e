package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/constants"
	"github.com/taskboard/taskboard-api/internal/database"
	"github.com/taskboard/taskboard-api/internal/handlers"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
	"github.com/taskboard/taskboard-api/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create Redis store")
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	stepRepo := repository.NewStepRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Initialize file storage; stored files are served back from StorageRoot
	fileStorage := storage.NewLocalFileStorage(cfg.StorageRoot, cfg.PublicBaseURL)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	stepService := services.NewStepService(stepRepo, taskRepo)
	attachmentService := services.NewAttachmentService(attachmentRepo, taskRepo, fileStorage)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	stepHandler := handlers.NewStepHandler(stepService)
	fileHandler := handlers.NewFileHandler(attachmentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskboard API is running",
		})
	})

	// Uploaded attachments are public by URL
	r.Static("/"+constants.AttachmentContainer, cfg.StorageRoot+"/"+constants.AttachmentContainer)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/reorder", taskHandler.ReorderTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Step routes (protected)
		steps := api.Group("/steps")
		steps.Use(middleware.RequireAuth())
		{
			steps.POST("/:taskId", stepHandler.CreateStep)
			steps.POST("/:taskId/reorder", stepHandler.ReorderSteps)
			steps.PUT("/:id", stepHandler.UpdateStep)
			steps.DELETE("/:id", stepHandler.DeleteStep)
		}

		// Attachment routes (protected)
		files := api.Group("/files")
		files.Use(middleware.RequireAuth())
		{
			files.POST("/:taskId", fileHandler.UploadFiles)
			files.PUT("/:id", fileHandler.RenameFile)
			files.DELETE("/:id", fileHandler.DeleteFile)
		}
	}

	// Start server
	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
