package routes

import (
	"github.com/gin-gonic/gin"

	"projectzen/internal/handlers"
	"projectzen/internal/middleware"
	"projectzen/internal/models"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	notificationHandler *handlers.NotificationHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/signup", authHandler.Signup)
	r.POST("/refresh", authHandler.RefreshToken)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	r.POST("/logout", authHandler.Logout)
	r.GET("/session", authHandler.Session)

	// USERS (настройки — только Admin)
	users := r.Group("/users", middleware.RequireRoles(models.RoleAdmin))
	{
		users.GET("/", userHandler.ListUsers)
		users.GET("/count", userHandler.GetUserCount)
		users.GET("/count/role/:role", userHandler.GetUserCountByRole)
		users.GET("/:id", userHandler.GetUserByID)
		users.PUT("/:id/role", userHandler.UpdateUserRole)
	}

	// PROJECTS
	projects := r.Group("/projects")
	{
		projects.POST("/", middleware.RequireRoles(models.RoleAdmin), projectHandler.Create)
		projects.GET("/", projectHandler.List)
		projects.GET("/:id", projectHandler.GetByID)
		projects.GET("/:id/tasks", projectHandler.GetTasks)
		projects.PUT("/:id/members", projectHandler.UpdateMembers)
		projects.DELETE("/:id", projectHandler.Delete)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
		tasks.POST("/:id/schedule", taskHandler.UpdateSchedule)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/comments", taskHandler.AddComment)
		tasks.POST("/:id/attachments", taskHandler.AddAttachment)
		tasks.DELETE("/:id/attachments/:attachment_id", taskHandler.DeleteAttachment)
		tasks.GET("/:id/attachments/:attachment_id/file", taskHandler.ServeAttachment)
	}

	// NOTIFICATIONS
	notifications := r.Group("/notifications")
	{
		notifications.GET("/", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.MarkAsRead)
		notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
	}

	// REPORTS
	reports := r.Group("/reports")
	{
		reports.GET("/summary", reportHandler.GetSummary)
		reports.GET("/projects/:id/pdf", reportHandler.ExportProjectPDF)
	}

	return r
}
