package app

import (
	"fmt"
	"log"

	"projectzen/internal/config"
	"projectzen/internal/handlers"
	"projectzen/internal/localstore"
	"projectzen/internal/middleware"
	"projectzen/internal/pdf"
	"projectzen/internal/repositories"
	"projectzen/internal/routes"
	"projectzen/internal/seed"
	"projectzen/internal/services"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "projectzen/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey(cfg.Server.JWTSecret)

	// === Local store (единственное durable-хранилище: сессия + уведомления) ===
	store, err := localstore.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal("Ошибка открытия локального хранилища: ", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Ошибка закрытия хранилища: %v", err)
		}
	}()

	// === Repos (in-memory, пересидируются при каждом старте) ===
	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	taskRepo := repositories.NewTaskRepository()
	notificationRepo := repositories.NewNotificationRepository()

	seed.Seed(userRepo, projectRepo, taskRepo)

	// === Внешние каналы доставки (оба опциональны) ===
	var emailService services.EmailService
	if cfg.Email.Enabled {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	var telegramService *services.TelegramService
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		telegramService, err = services.NewTelegramService(cfg.Telegram.BotToken)
		if err != nil {
			log.Printf("Telegram отключён: %v", err)
			telegramService = nil
		}
	}

	// === Services ===
	notificationService := services.NewNotificationService(notificationRepo, userRepo, store, emailService, telegramService)
	userService := services.NewUserService(userRepo, emailService)
	authService := services.NewAuthService(userRepo, userService, notificationService, store)
	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo, notificationService)
	taskService := services.NewTaskService(taskRepo, projectRepo, notificationService)

	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir)
	reportService := services.NewReportService(projectRepo, taskRepo, userRepo, pdfGen)

	// первичный дедлайн-свип по сидовым задачам
	if err := taskService.Reconcile(); err != nil {
		log.Printf("Ошибка первичного свипа дедлайнов: %v", err)
	}

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService, userService)
	taskHandler := handlers.NewTaskHandler(taskService, projectService, userService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	reportHandler := handlers.NewReportHandler(reportService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		projectHandler,
		taskHandler,
		notificationHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
