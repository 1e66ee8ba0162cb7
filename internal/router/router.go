package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/certprep/dva-practice-backend/internal/config"
	"github.com/certprep/dva-practice-backend/internal/handler"
	"github.com/certprep/dva-practice-backend/internal/middleware"
	"github.com/certprep/dva-practice-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	PracticeSet *handler.PracticeSetHandler
	Session     *handler.SessionHandler
	Generation  *handler.GenerationHandler
	Explanation *handler.ExplanationHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the provider-backed routes. Generation and
	// explanations both spend LLM quota per call.
	providerLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := router.Group("/api/v1")
	{
		sets := api.Group("/sets")
		{
			sets.GET("", handlers.PracticeSet.ListSets)
			// Static and param segments cannot share the GET subtree, so
			// the status route lives directly under /api/v1.
			sets.GET("/:set_number/questions", handlers.PracticeSet.GetSetQuestions)
			sets.POST("/generate", providerLimiter.Middleware(), handlers.Generation.TriggerGeneration)
		}
		api.GET("/generation-status", handlers.Generation.GenerationStatus)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", handlers.Session.StartSession)
			sessions.GET("/:session_id/question", handlers.Session.CurrentQuestion)
			sessions.POST("/:session_id/answers", handlers.Session.SubmitAnswer)
			sessions.POST("/:session_id/skip", handlers.Session.SkipQuestion)
			sessions.GET("/:session_id/score", handlers.Session.Score)
		}

		questions := api.Group("/questions")
		{
			questions.POST("/:question_id/explanation", providerLimiter.Middleware(), handlers.Explanation.ExplainQuestion)
		}
	}

	return router
}
