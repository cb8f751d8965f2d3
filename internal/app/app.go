package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meshlog/core/internal/config"
	"github.com/meshlog/core/internal/middleware"
	"github.com/meshlog/core/internal/models"
	"github.com/meshlog/core/internal/modules/meshlog"
	"github.com/meshlog/core/internal/pkg/idgen"
	"github.com/meshlog/core/internal/pkg/kv"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	store  *kv.Client
	logger *zap.Logger
}

// New initializes the application: config → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	store, err := kv.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	// One region-scoped store partition per region, created once and reused.
	stores := make(map[models.Region]meshlog.Store, len(models.Regions()))
	for _, region := range models.Regions() {
		stores[region] = store.Partition(region)
	}
	handler := meshlog.NewHandler(stores, meshlog.Config{
		RecordTTL: cfg.RecordTTL(),
		IndexTTL:  cfg.IndexTTL(),
	}, idgen.Default(), logger)

	app := &App{cfg: cfg, router: router, store: store, logger: logger}
	app.registerRoutes(handler)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }
