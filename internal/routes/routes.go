package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xyz-asif/todospa/docs"

	"github.com/xyz-asif/todospa/internal/features/assets"
	"github.com/xyz-asif/todospa/internal/features/todos"
	"github.com/xyz-asif/todospa/internal/middleware"
	"github.com/xyz-asif/todospa/internal/pkg/logger"
	"github.com/xyz-asif/todospa/internal/pkg/ratelimit"
	"github.com/xyz-asif/todospa/internal/pkg/response"
)

const APIPrefix = "/api"

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the long-lived collaborators built once in main.
type Deps struct {
	Log     *logger.Logger
	DB      Pinger
	Todos   todos.Store
	Assets  *assets.Bundle
	Limiter *ratelimit.RateLimiter // nil disables rate limiting
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}

// NewRouter builds the engine with the middleware stack and every route.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Log))
	router.Use(middleware.CORS("*"))

	SetupRoutes(router, deps)
	return router
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	api := router.Group(APIPrefix)
	if deps.Limiter != nil {
		api.Use(ratelimit.Middleware(deps.Limiter))
	}

	api.GET("/health", health(deps.DB))
	api.GET(
		"/docs/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL(APIPrefix+"/docs/doc.json"),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("list"),
		),
	)

	todos.RegisterRoutes(api, deps.Todos, deps.Log)
	assets.RegisterRoutes(router, deps.Assets, APIPrefix, deps.Log)
}

// health godoc
// @Summary Service and database health
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			response.ServiceUnavailable(c, HealthResponse{Status: "degraded", Database: "down"})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "up"})
	}
}
