package router

import (
	"github.com/gin-gonic/gin"

	"ledgerlens/internal/handler"
	"ledgerlens/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
// A nil verifier leaves the API open.
func Setup(
	verifier middleware.TokenVerifier,
	allowedOrigins []string,
	docH *handler.DocumentHandler,
	recordH *handler.RecordHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	if verifier != nil {
		v1.Use(middleware.AuthMiddleware(verifier))
	}

	docs := v1.Group("/documents")
	docs.POST("/extract", docH.Extract)
	docs.POST("/process", docH.Process)

	records := v1.Group("/records")
	records.POST("/detect", recordH.Detect)
	records.POST("/validate", recordH.Validate)

	return r
}
