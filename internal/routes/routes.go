package routes

import (
	"github.com/gin-gonic/gin"

	"redline/internal/handlers"
	"redline/internal/middleware"
	"redline/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	jobHandler *handlers.JobHandler,
	documentHandler *handlers.DocumentHandler,
	analysisHandler *handlers.AnalysisHandler,
	explainerHandler *handlers.ExplainerHandler,
	tokens services.TokenService,
	sessions services.SessionService,
) *gin.Engine {

	// ---- public auth surface
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/send-otp", authHandler.SendOTP)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		// these inspect the bearer themselves: their failure codes differ
		// from what the middleware produces
		auth.GET("/verify-token", authHandler.VerifyToken)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.GET("/health", authHandler.Health)
	}

	// ---- protected API
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(tokens, sessions))
	{
		api.GET("/jobs/:id", jobHandler.GetJob)
		api.GET("/jobs", jobHandler.ListJobs)

		api.POST("/upload", documentHandler.Upload)
		api.POST("/rewrite", analysisHandler.Rewrite)
		api.POST("/diff", analysisHandler.Diff)
		api.POST("/privacy/redact", analysisHandler.Redact)
		api.POST("/export", analysisHandler.Export)

		api.POST("/chat", explainerHandler.Chat)
		api.POST("/explain", explainerHandler.Explain)
		api.POST("/analyze/clause", explainerHandler.AnalyzeClause)
		api.POST("/translate/plain", explainerHandler.TranslatePlain)
		api.POST("/historical/context", explainerHandler.HistoricalContext)
		api.GET("/export/:file", documentHandler.Download)
	}

	return r
}
