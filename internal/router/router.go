package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/internal/handlers"
	"github.com/taskdeck-dev/taskdeck/internal/middleware"
	"github.com/taskdeck-dev/taskdeck/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", middleware.AuthMiddleware(), handlers.BoardWebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		api.GET("/users/search", middleware.AuthMiddleware(), handlers.SearchUsers)

		// The group-level middleware rejects unauthenticated requests
		// for the whole prefix before any handler-level check runs.
		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			projects.POST("/:project_id/members", handlers.InviteMember)
			projects.GET("/:project_id/members", handlers.ListMembers)

			projects.POST("/:project_id/tasks", handlers.CreateTask)
			projects.GET("/:project_id/tasks", handlers.ListTasks)
			projects.PATCH("/:project_id/tasks/:task_id", handlers.UpdateTask)
			projects.DELETE("/:project_id/tasks/:task_id", handlers.DeleteTask)

			projects.GET("/:project_id/export", handlers.ExportProject)
		}
	}

	return r
}
