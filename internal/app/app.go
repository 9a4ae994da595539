package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/scenegallery/scenegallery/internal/collection"
	"github.com/scenegallery/scenegallery/internal/config"
	"github.com/scenegallery/scenegallery/internal/httpserver"
	"github.com/scenegallery/scenegallery/internal/httpserver/deps"
	"github.com/scenegallery/scenegallery/internal/logger"
	"github.com/scenegallery/scenegallery/internal/query"
	"github.com/scenegallery/scenegallery/internal/redis"
	"github.com/scenegallery/scenegallery/internal/remote"
	"github.com/scenegallery/scenegallery/internal/scheduler"
	"github.com/scenegallery/scenegallery/internal/sources/synonyms"
	redisstore "github.com/scenegallery/scenegallery/internal/store/redis"
	"github.com/scenegallery/scenegallery/internal/trash"
	"github.com/scenegallery/scenegallery/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	collection  *collection.Store
	reconciler  *scheduler.Reconciler
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Initialize Redis-backed snapshot cache
	store := redisstore.NewStore(redisClient)

	// Restore trash entries persisted by earlier runs. Trash is local
	// only, so losing this load would lose deletions for good.
	ledger := trash.NewLedger(store, loggerClient)
	if err := ledger.Load(context.Background()); err != nil {
		loggerClient.Warn("failed to load trash from redis", logger.Error(err))
	}

	channel := remote.New(remote.Options{
		BaseURL: cfg.RemoteURL,
		Timeout: cfg.QueryTimeout,
		Retries: cfg.QueryRetries,
	}, loggerClient)

	table, err := synonyms.NewLoader(cfg.SynonymFile).Load()
	if err != nil {
		loggerClient.Warn("failed to load synonyms, search runs without expansion",
			logger.Error(err))
	}
	engine := query.NewEngine(table)

	coll := collection.New(collection.Options{
		Remote:    channel,
		Cache:     store,
		Ledger:    ledger,
		Freshness: cfg.CacheFreshness,
		Logger:    loggerClient,
	})

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reconciler := scheduler.NewReconciler(coll, loggerClient, cfg.ReconcileInterval, reloadTrigger)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		RedisClient:   redisClient,
		Collection:    coll,
		Channel:       channel,
		Engine:        engine,
		PageSize:      cfg.PageSize,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		collection:  coll,
		reconciler:  reconciler,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting SceneGallery v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("SceneGallery %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start reconciler (hydrates the collection and keeps it in sync)
	if err := a.reconciler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reconciler: %w", err)
	}
	a.logger.Info("reconciler started",
		logger.Duration("interval", a.cfg.ReconcileInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reconciler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ SceneGallery stopped cleanly")
	return nil
}
