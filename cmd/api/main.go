// @title Todo API
// @version 1.0
// @description CRUD API for todos, served next to the embedded SPA
// @host localhost:8080
// @BasePath /api
// @schemes http
package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todospa/docs"
	"github.com/xyz-asif/todospa/internal/config"
	"github.com/xyz-asif/todospa/internal/database"
	"github.com/xyz-asif/todospa/internal/features/assets"
	"github.com/xyz-asif/todospa/internal/features/todos"
	"github.com/xyz-asif/todospa/internal/pkg/logger"
	"github.com/xyz-asif/todospa/internal/pkg/ratelimit"
	"github.com/xyz-asif/todospa/internal/routes"
	"github.com/xyz-asif/todospa/web"
)

func main() {
	cfg := config.Load()

	log := logger.Default()
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		log.SetJSON()
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	bundle, err := loadAssets(cfg)
	if err != nil {
		log.Fatal("Failed to load frontend assets: %v", err)
	}
	log.Info("Loaded %d frontend files", bundle.Len())
	for _, name := range bundle.Names() {
		log.Debug("  - %s", name)
	}

	log.Info("Connecting to MongoDB at %s...", cfg.MongoURI)
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: %v", err)
	}
	defer db.Disconnect(context.Background())
	log.Info("Connected to MongoDB")

	repo := todos.NewRepository(db.Database)
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repo.EnsureIndexes(indexCtx); err != nil {
		log.Warn("Could not create todo indexes: %v", err)
	}
	cancelIndex()

	stop := make(chan struct{})
	var limiter *ratelimit.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.StartCleanup(time.Minute, 10*time.Minute, stop)
	}

	router := routes.NewRouter(routes.Deps{
		Log:     log,
		DB:      db,
		Todos:   repo,
		Assets:  bundle,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting on %s", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// loadAssets reads STATIC_DIR when set, otherwise the build embedded in the binary.
func loadAssets(cfg *config.Config) (*assets.Bundle, error) {
	var fsys fs.FS
	if cfg.StaticDir != "" {
		fsys = os.DirFS(cfg.StaticDir)
	} else {
		dist, err := web.Dist()
		if err != nil {
			return nil, err
		}
		fsys = dist
	}
	return assets.LoadBundle(fsys, cfg.StaticPrecompress)
}
