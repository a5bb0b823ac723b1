package app

import (
	"context"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/db"
	"github.com/yungbote/coursebridge-backend/internal/http"
	"github.com/yungbote/coursebridge-backend/internal/observability"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
	"github.com/yungbote/coursebridge-backend/internal/realtime"
	"github.com/yungbote/coursebridge-backend/internal/realtime/bus"
)

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Server     *http.Server
	Cfg        Config
	Metrics    *observability.Metrics
	Bus        bus.Bus
	Repos      Repos
	Aggregates Aggregates
	Services   Services

	shutdownOtel func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	theDB, err := openDB(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	metrics := observability.Init(cfg.MetricsEnabled)
	shutdownOtel := observability.InitOTel(context.Background(), log, cfg.Otel)

	eventBus, err := wireBus(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	aggs := wireAggregates(theDB, log, metrics, reposet)
	serviceset := wireServices(theDB, log, metrics, eventBus, reposet, aggs)
	handlerset := wireHandlers(theDB, log, serviceset)
	middleware := wireMiddleware(log, cfg)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Metrics:      metrics,
		Bus:          eventBus,
		Repos:        reposet,
		Aggregates:   aggs,
		Services:     serviceset,
		shutdownOtel: shutdownOtel,
	}, nil
}

func openDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		svc, err := db.NewSQLiteService(cfg.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return svc.DB(), nil
	case "", "postgres":
		svc, err := db.NewPostgresService(log)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return svc.DB(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// wireBus uses Redis pub/sub when REDIS_ADDR is set and an in-process bus otherwise.
func wireBus(log *logger.Logger, cfg Config) (bus.Bus, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-memory event bus")
		return bus.NewMemoryBus(), nil
	}
	b, err := bus.NewRedisBus(log, bus.RedisConfig{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel})
	if err != nil {
		return nil, fmt.Errorf("init redis bus: %w", err)
	}
	return b, nil
}

// Start launches background collectors and the event log forwarder.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB, a.Cfg.CollectorsPeriod)
	if rc, ok := a.Bus.(interface{ Client() *goredis.Client }); ok {
		a.Metrics.StartRedisCollector(ctx, a.Log, rc.Client(), a.Cfg.CollectorsPeriod)
	}

	eventLog := a.Log.With("component", "EventForwarder")
	if err := a.Bus.StartForwarder(ctx, func(ev realtime.Event) {
		eventLog.Debug("event", "type", ev.Type, "course_id", ev.CourseID, "event_id", ev.ID)
	}); err != nil {
		a.Log.Warn("event forwarder not started", "error", err)
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = a.Cfg.HTTPAddr
	}
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown drains in-flight HTTP requests.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("event bus close failed", "error", err)
		}
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
