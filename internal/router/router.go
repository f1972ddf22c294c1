// Package router assembles the HTTP routes of the API.
package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack-api/internal/auth"
	"github.com/tasktrack/tasktrack-api/internal/constants"
	"github.com/tasktrack/tasktrack-api/internal/handlers"
	"github.com/tasktrack/tasktrack-api/internal/middleware"
	"github.com/tasktrack/tasktrack-api/internal/models"
	"github.com/tasktrack/tasktrack-api/internal/services"
)

// Deps holds everything the routes need.
type Deps struct {
	TaskService  *services.TaskService
	AuthService  *services.AuthService
	Tokens       *auth.TokenManager
	SessionStore sessions.Store
	// Development disables the security headers
	Development bool
}

// New returns a gin engine serving the API under /api/v1.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders(deps.Development))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Tokens)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	userHandler := handlers.NewUserHandler(deps.AuthService)
	requireAuth := middleware.RequireAuth(deps.Tokens)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task tracker API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
		}

		api.GET("/users", requireAuth, middleware.RequireRole(models.RoleAdmin), userHandler.ListUsers)

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskID(), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.PATCH("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), taskHandler.DeleteTask)
		}
	}

	return r
}
