package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memehustle/backend/internal/api/handler"
	"github.com/memehustle/backend/internal/api/middleware"
	"github.com/memehustle/backend/internal/realtime"
	"github.com/memehustle/backend/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	memeService *service.MemeService,
	hub *realtime.Hub,
	corsConfig middleware.CORSConfig,
	mode string,
) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORS(corsConfig))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	memeHandler := handler.NewMemeHandler(memeService)
	leaderboardHandler := handler.NewLeaderboardHandler(memeService.Leaderboard())

	// Health check
	r.GET("/health", healthHandler.Health)

	// Realtime channel; the websocket applies the same origin policy as CORS
	checkOrigin := func(req *http.Request) bool {
		return middleware.IsOriginAllowed(req.Header.Get("Origin"), corsConfig)
	}
	r.GET("/ws", realtime.ServeWS(hub, memeService, checkOrigin))

	// REST API (fallback path for clients without a websocket)
	api := r.Group("/api")
	{
		api.GET("/memes", memeHandler.ListMemes)
		api.POST("/memes", memeHandler.CreateMeme)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.POST("/memes/:id/vote", memeHandler.Vote)
		api.POST("/memes/:id/bid", memeHandler.Bid)
		api.POST("/memes/:id/caption", memeHandler.RegenerateCaption)
	}

	return r
}
