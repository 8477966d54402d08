package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/skillset-backend/internal/handlers"
	"github.com/yungbote/skillset-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	SetHandler     *handlers.SetHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Custom sets
	protected.POST("/sets", cfg.SetHandler.CreateSet)
	protected.GET("/sets", cfg.SetHandler.ListSets)
	protected.GET("/sets/:setId", cfg.SetHandler.GetSet)
	protected.PUT("/sets/:setId", cfg.SetHandler.RenameSet)
	protected.DELETE("/sets/:setId", cfg.SetHandler.DeleteSet)
	// Skills
	protected.POST("/sets/:setId/skills", cfg.SetHandler.AddSkill)
	protected.DELETE("/sets/:setId/skills/:skillId", cfg.SetHandler.RemoveSkill)
	protected.PUT("/sets/:setId/skills/:skillId/votes", cfg.SetHandler.SetVotes)
	// Tags
	protected.POST("/sets/:setId/skills/:skillId/tags", cfg.SetHandler.AddTag)
	protected.DELETE("/sets/:setId/skills/:skillId/tags/:tag", cfg.SetHandler.RemoveTag)
	protected.GET("/tags", cfg.SetHandler.ListDistinctTags)

	return router
}
