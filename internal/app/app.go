package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/cache"
	"github.com/simp-lee/staffdesk/internal/config"
	"github.com/simp-lee/staffdesk/internal/crud"
	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/middleware"
	"github.com/simp-lee/staffdesk/internal/module/auth"
	"github.com/simp-lee/staffdesk/internal/module/department"
	"github.com/simp-lee/staffdesk/internal/module/employee"
	"github.com/simp-lee/staffdesk/internal/module/user"
)

const (
	metricsNamespace       = "staffdesk"
	defaultShutdownTimeout = 5 * time.Second
	defaultCacheTTL        = 10 * time.Minute
	startupTimeout         = 10 * time.Second
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	cache  *cache.Store
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// openCache is replaced in tests to avoid dialing redis.
var openCache = cache.Open

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the database, the optional redis cache, the CRUD
// services for every entity, the token service, startup data and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Database, migrated according to database.auto_migrate.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		closeDatabase(db)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// 3. Redis clients for the cache-aside layer.
	var store *cache.Store
	if cfg.Cache.Enabled {
		store, err = openCache(ctx, cfg.Cache.Redis)
		if err != nil {
			return nil, fmt.Errorf("setup cache: %w", err)
		}
		log.Info("cache connected", slog.Any("aliases", store.Aliases()), slog.String("ttl", cfg.Cache.TTL))
	}
	defer func() {
		if success {
			return
		}
		if err := store.Close(); err != nil {
			slog.Error("cache close error", slog.Any("error", err))
		}
	}()

	// 4. Token service and bootstrap admin.
	tokens := auth.NewService(user.NewRepository(db), auth.Config{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  config.Duration(cfg.Auth.AccessTTL, 5*time.Minute),
		RefreshTTL: config.Duration(cfg.Auth.RefreshTTL, 24*time.Hour),
	})
	if admin := cfg.Auth.Admin; admin.Username != "" {
		if err := tokens.EnsureAdmin(ctx, admin.Username, admin.Password, admin.Email); err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// 5. CRUD services, decorated with the read-through cache when enabled.
	departments := department.NewService(db)
	if err := department.Seed(ctx, departments, cfg.Seed.Departments); err != nil {
		return nil, fmt.Errorf("seed departments: %w", err)
	}

	var (
		departmentSvc department.Service             = departments
		employeeSvc   crud.Service[domain.Employee] = employee.NewService(db)
		userSvc       crud.Service[domain.User]     = user.NewService(db)
	)
	if store != nil {
		ttl := config.Duration(cfg.Cache.TTL, defaultCacheTTL)
		departmentSvc = crud.NewCached[domain.Department](departmentSvc, store, cache.DefaultAlias, department.CachePrefix, ttl)
		employeeSvc = crud.NewCached[domain.Employee](employeeSvc, store, cache.DefaultAlias, employee.CachePrefix, ttl)
		userSvc = crud.NewCached[domain.User](userSvc, store, cache.DefaultAlias, user.CachePrefix, ttl)
	}

	// 6. Gin engine with custom middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	metrics := middleware.NewMetrics(metricsNamespace)

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)),
		metrics.Middleware(),
	)

	// 7. Routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Public: []Module{auth.NewModule(auth.NewHandler(tokens))},
		Modules: []Module{
			employee.NewModule(employeeSvc),
			department.NewModule(departmentSvc),
			user.NewModule(userSvc),
		},
		Verifier: tokens,
		DB:       db,
		Cache:    store,
		Metrics:  metrics,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		cache:  store,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Handler exposes the configured engine, mainly for in-process testing.
func (a *App) Handler() http.Handler {
	return a.engine
}

// resolveCORSConfig builds the middleware settings from configuration.
// In release mode, when no allowlist is configured, cross-origin requests
// are denied.
func resolveCORSConfig(mode string, cfg config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	if len(cfg.AllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.AllowHeaders
	}
	corsConfig.AllowCredentials = cfg.AllowCredentials
	if cfg.MaxAge != "" {
		maxAge := config.Duration(cfg.MaxAge, 24*time.Hour)
		corsConfig.MaxAge = strconv.Itoa(int(maxAge / time.Second))
	}

	switch {
	case len(cfg.AllowOrigins) > 0:
		corsConfig.AllowOrigins = cfg.AllowOrigins
	case mode == gin.ReleaseMode:
		corsConfig.AllowOrigins = []string{}
	}

	return corsConfig
}

func closeDatabase(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("database close error", slog.Any("error", err))
		return
	}
	slog.Info("database connection closed")
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// Shutdown waits up to server.shutdown_timeout for in-flight requests, then
// closes the database, the cache clients and the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		timeout := config.Duration(a.cfg.Server.ShutdownTimeout, defaultShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", slog.Any("error", err))
		}
	}

	closeDatabase(a.db)
	if err := a.cache.Close(); err != nil {
		slog.Error("cache close error", slog.Any("error", err))
	}

	slog.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
