package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"redline/internal/config"
	"redline/internal/handlers"
	"redline/internal/pdf"
	"redline/internal/repositories"
	"redline/internal/routes"
	"redline/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "redline/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === Repos ===
	otpRepo := repositories.NewMemoryOTPRepository()
	sessionRepo := repositories.NewMemorySessionRepository()

	var userRepo repositories.UserRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("Failed to close database: %v", err)
			}
		}()
		userRepo = repositories.NewPostgresUserRepository(db)
		log.Printf("[app] user store: postgres")
	} else {
		userRepo = repositories.NewMemoryUserRepository()
		log.Printf("[app] user store: in-memory (single instance only)")
	}

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	userService := services.NewUserService(userRepo, emailService, authService)

	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	sessionService := services.NewSessionService(sessionRepo)
	otpService := services.NewOTPService(otpRepo, emailService, sessionService, tokenService)

	// Periodic purge of expired OTP entries. Not required for correctness
	// (verification checks expiry), only to bound the store.
	stopSweeper := otpService.StartSweeper()
	defer stopSweeper()

	riskService := services.NewRiskService()
	documentService := services.NewDocumentService(riskService)
	rewriteService := services.NewRewriteService(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.DryRun)
	chatService := services.NewChatService(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.DryRun)
	explainerService := services.NewExplainerService(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.DryRun)
	diffService := services.NewDiffService()
	privacyService := services.NewPrivacyService()

	reportGen := pdf.NewReportGenerator(cfg.Files.RootDir)
	exportService := services.NewExportService(reportGen)

	jobService := services.NewJobService()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, otpService, sessionService, tokenService)
	jobHandler := handlers.NewJobHandler(jobService)
	documentHandler := handlers.NewDocumentHandler(documentService, jobService, cfg.Files.RootDir)
	analysisHandler := handlers.NewAnalysisHandler(jobService, rewriteService, diffService, privacyService, exportService)
	explainerHandler := handlers.NewExplainerHandler(jobService, chatService, explainerService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		jobHandler,
		documentHandler,
		analysisHandler,
		explainerHandler,
		tokenService,
		sessionService,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server failed: ", err)
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
