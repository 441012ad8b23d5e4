package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/owasp-zof/tabletop-portal/internal/handlers"
	"github.com/owasp-zof/tabletop-portal/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins  []string
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	UserHandler     *handlers.UserHandler
	TabletopHandler *handlers.TabletopHandler
	DocumentHandler *handlers.DocumentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
		api.GET("/document-types", cfg.DocumentHandler.ListTypes)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	// Tabletops
	protected.POST("/tabletops", cfg.TabletopHandler.Create)
	protected.GET("/tabletops", cfg.TabletopHandler.List)
	protected.GET("/tabletops/:tabletop_id", cfg.TabletopHandler.Get)
	protected.PATCH("/tabletops/:tabletop_id", cfg.TabletopHandler.Update)
	protected.POST("/tabletops/:tabletop_id/answers", cfg.TabletopHandler.AnswerQuestion)
	protected.DELETE("/tabletops/:tabletop_id", cfg.TabletopHandler.Delete)
	// Documents
	protected.GET("/tabletops/:tabletop_id/documents", cfg.DocumentHandler.List)
	protected.POST("/tabletops/:tabletop_id/documents/generate", cfg.DocumentHandler.GenerateAll)
	protected.POST("/tabletops/:tabletop_id/documents/generate/:document_type", cfg.DocumentHandler.Generate)
	protected.GET("/tabletops/:tabletop_id/documents/:document_id", cfg.DocumentHandler.Get)
	protected.GET("/tabletops/:tabletop_id/documents/:document_id/download", cfg.DocumentHandler.Download)
	protected.POST("/tabletops/:tabletop_id/documents/:document_id/regenerate", cfg.DocumentHandler.Regenerate)
	protected.DELETE("/tabletops/:tabletop_id/documents/:document_id", cfg.DocumentHandler.Delete)

	return router
}
