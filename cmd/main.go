package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/owasp-zof/tabletop-portal/internal/db"
	"github.com/owasp-zof/tabletop-portal/internal/handlers"
	"github.com/owasp-zof/tabletop-portal/internal/logger"
	"github.com/owasp-zof/tabletop-portal/internal/middleware"
	"github.com/owasp-zof/tabletop-portal/internal/repos"
	"github.com/owasp-zof/tabletop-portal/internal/server"
	"github.com/owasp-zof/tabletop-portal/internal/services"
	"github.com/owasp-zof/tabletop-portal/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	tabletopRepo := repos.NewTabletopRepo(thePG, log)
	questionRepo := repos.NewTabletopQuestionRepo(thePG, log)
	documentRepo := repos.NewDocumentRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	aiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}
	pdfService, err := services.NewPDFService(log)
	if err != nil {
		log.Error("Could not init PDFService", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(
		thePG,
		log,
		userRepo,
		userTokenRepo,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(log, userRepo)
	documentService := services.NewDocumentGenerationService(thePG, log, tabletopRepo, documentRepo, aiClient, pdfService)
	tabletopService := services.NewTabletopService(thePG, log, tabletopRepo, questionRepo, documentRepo, documentService)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	tabletopHandler := handlers.NewTabletopHandler(tabletopService)
	documentHandler := handlers.NewDocumentHandler(tabletopService, documentService, documentRepo)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:  strings.Split(allowedOrigins, ","),
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		UserHandler:     userHandler,
		TabletopHandler: tabletopHandler,
		DocumentHandler: documentHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
