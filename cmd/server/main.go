package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/config"
	"github.com/iliyamo/adsaga-console/internal/database"
	"github.com/iliyamo/adsaga-console/internal/handler"
	"github.com/iliyamo/adsaga-console/internal/middleware"
	"github.com/iliyamo/adsaga-console/internal/queue"
	"github.com/iliyamo/adsaga-console/internal/router"
	"github.com/iliyamo/adsaga-console/internal/service"
	"github.com/iliyamo/adsaga-console/internal/session"
	"github.com/iliyamo/adsaga-console/internal/storage"
	"github.com/iliyamo/adsaga-console/internal/telemetry"
)

func main() {
	cfg := config.Load() // Load environment config
	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, cfg.AppName, cfg.AppVersion, cfg.OTLPEndpoint,
		os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true", log)
	defer func() { _ = shutdownTracing(context.Background()) }()

	// Redis backs persisted storage and rate limiting; nil means degrade.
	rdb := config.NewRedisClient(ctx, cfg, log)
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	store, closeStore := openStorage(ctx, cfg, rdb, log)
	defer closeStore()

	var events session.Publisher = session.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		pub := queue.NewPublisher(cfg.RabbitMQURL, 256, log)
		go pub.Run(ctx)
		events = pub
	}

	client := api.New(cfg.APIBaseURL)
	auth := service.NewAuthService(client)
	registry := session.NewRegistry(session.Deps{
		Storage:   store,
		Sealer:    storage.NewSealer(cfg.ClientSecret),
		Auth:      auth,
		Registrar: auth,
		Events:    events,
		Logger:    log,
	}, cfg.SessionIdle)
	go registry.Run(ctx)

	limits, err := config.LoadRateLimitConfig()
	if err != nil {
		log.Error("rate limit config invalid", "err", err)
		os.Exit(1)
	}

	h := handler.New(handler.AppInfo{Name: cfg.AppName, Version: cfg.AppVersion}, client, log)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(requestLogger(log))

	router.RegisterRoutes(e)
	router.RegisterConsole(e, h,
		middleware.ClientIdentity(middleware.ClientConfig{
			Secret: cfg.ClientSecret,
			Name:   cfg.CookieName,
			TTL:    cfg.CookieTTL,
			Secure: cfg.CookieSecure,
		}, registry),
		middleware.NewTokenBucket(limits, rdb, log),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, "console"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info("listening", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.APIBaseURL, "storage", cfg.StorageBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// openStorage picks the persisted client storage backend.  Redis falls back
// to process memory when it is unreachable; MySQL is required once chosen.
func openStorage(ctx context.Context, cfg config.Config, rdb *redis.Client, log *slog.Logger) (storage.Store, func()) {
	switch cfg.StorageBackend {
	case config.StorageMySQL:
		db, err := database.Open(ctx, database.Conn{
			User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		})
		if err != nil {
			log.Error("mysql connect failed", "err", err)
			os.Exit(1)
		}
		s := storage.NewMySQLStore(db)
		if err := s.Migrate(ctx); err != nil {
			log.Error("mysql migrate failed", "err", err)
			os.Exit(1)
		}
		return s, func() { _ = db.Close() }
	case config.StorageRedis:
		if rdb != nil {
			return storage.NewRedisStore(rdb, cfg.StoragePrefix, cfg.StorageTTL), func() {}
		}
		log.Warn("redis unavailable; client storage kept in memory")
	}
	return storage.NewMemoryStore(), func() {}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("client", middleware.ClientID(c)),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
				log.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
				return nil
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}
