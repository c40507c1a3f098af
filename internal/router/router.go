package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/teamdash/teamdash/internal/handlers"
	"github.com/teamdash/teamdash/internal/middleware"
	"github.com/teamdash/teamdash/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:team_id", middleware.AuthMiddleware(), handlers.TeamFeed)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.POST("", handlers.CreateUser)
			users.GET("", handlers.ListUsers)
			users.GET("/:id", handlers.GetUser)
			users.PUT("/:id", handlers.UpdateUser)
			users.DELETE("/:id", handlers.DeleteUser)
		}

		teams := api.Group("/teams", middleware.AuthMiddleware())
		{
			teams.POST("", handlers.CreateTeam)
			teams.GET("", handlers.ListTeams)
			teams.GET("/:id", handlers.GetTeam)
			teams.PUT("/:id", handlers.UpdateTeam)
			teams.DELETE("/:id", handlers.DeleteTeam)
			teams.GET("/:id/members", handlers.ListTeamMembersOpen)
			teams.GET("/user/:id", handlers.ListUserTeams)
		}

		members := api.Group("/team-members", middleware.AuthMiddleware())
		{
			members.GET("", handlers.ListAllTeamMembers)
			members.GET("/:id", handlers.GetTeamMember)
			members.POST("/teams/:team_id/members", handlers.AddTeamMember)
			members.GET("/teams/:team_id/members", handlers.ListTeamMembers)
			members.DELETE("/teams/:team_id/members/:user_id", handlers.RemoveTeamMember)
			members.PUT("/teams/:team_id/members/:user_id/role", handlers.UpdateTeamMemberRole)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)
			tasks.GET("", handlers.ListTasks)
			tasks.GET("/:id", handlers.GetTask)
			tasks.PUT("/:id", handlers.UpdateTask)
			tasks.DELETE("/:id", handlers.DeleteTask)
			tasks.GET("/user/:id", handlers.ListTasksByUser)
			tasks.GET("/team/:id", handlers.ListTasksByTeam)
			tasks.GET("/status/:status", handlers.ListTasksByStatus)
		}
	}

	return r
}
