package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/handlers"
	"github.com/planora-dev/planora/internal/middleware"
	"github.com/planora-dev/planora/internal/types"
)

func NewRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(db)
	projectHandler := handlers.NewProjectHandler(db)
	assignmentHandler := handlers.NewAssignmentHandler(db)
	templateHandler := handlers.NewTemplateHandler(db)

	authRequired := middleware.AuthMiddleware(db)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		users := api.Group("/users", authRequired)
		{
			users.GET("/:user_id", authHandler.GetUser)
		}

		templates := api.Group("/templates", authRequired)
		{
			templates.GET("", templateHandler.ListTemplates)
			templates.POST("", templateHandler.CreateTemplate)
			templates.GET("/:template_id", templateHandler.GetTemplate)
		}

		projects := api.Group("/projects", authRequired)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:project_id", projectHandler.GetProject)
			projects.PATCH("/:project_id", projectHandler.UpdateProject)
			projects.DELETE("/:project_id", projectHandler.DeleteProject)

			projects.GET("/:project_id/stats", projectHandler.GetStats)
			projects.GET("/:project_id/recent-comments", projectHandler.GetRecentComments)

			projects.POST("/:project_id/editors", projectHandler.AddEditor)
			projects.DELETE("/:project_id/editors/:user_id", projectHandler.RemoveEditor)
		}

		assignments := api.Group("/assignments", authRequired)
		{
			assignments.GET("/:assignment_id", assignmentHandler.GetAssignment)
			assignments.PATCH("/:assignment_id/status", assignmentHandler.UpdateStatus)
			assignments.PATCH("/:assignment_id/importance", assignmentHandler.UpdateImportance)
			assignments.PATCH("/:assignment_id/assignee", assignmentHandler.UpdateAssignee)
			assignments.PATCH("/:assignment_id/start-date", assignmentHandler.UpdateStartDate)
			assignments.PATCH("/:assignment_id/dates", assignmentHandler.UpdateDueDate)
			assignments.DELETE("/:assignment_id", assignmentHandler.DeleteAssignment)

			assignments.POST("/:assignment_id/comments", assignmentHandler.CreateComment)
			assignments.GET("/:assignment_id/comments", assignmentHandler.ListComments)
			assignments.PATCH("/:assignment_id/comments/:comment_id", assignmentHandler.UpdateComment)
			assignments.DELETE("/:assignment_id/comments/:comment_id", assignmentHandler.DeleteComment)
			assignments.POST("/:assignment_id/comments/:comment_id/like", assignmentHandler.ToggleLike)
		}
	}

	return r
}
