package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/gommon/log" // Echo's leveled logger

	"github.com/iliyamo/employee-portal/internal/api"
	"github.com/iliyamo/employee-portal/internal/config" // Internal config loader
	"github.com/iliyamo/employee-portal/internal/database"
	"github.com/iliyamo/employee-portal/internal/handler"
	"github.com/iliyamo/employee-portal/internal/middleware"
	"github.com/iliyamo/employee-portal/internal/queue"
	"github.com/iliyamo/employee-portal/internal/repository"
	"github.com/iliyamo/employee-portal/internal/router" // Internal router setup
	"github.com/iliyamo/employee-portal/internal/service"
	"github.com/iliyamo/employee-portal/internal/session"
	"github.com/iliyamo/employee-portal/internal/workflow"
)

func main() {
	cfg := config.Load() // Load environment config (.env first)
	lvl := logLevel(cfg.LogLevel)
	log.SetLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is optional; without it sessions and the submit guard live in
	// this process and rate limiting is off.
	rdb := config.NewRedisClient()
	sealer, err := session.NewSealer(cfg.SessionSecret)
	if err != nil {
		log.Fatal(err)
	}
	var (
		backend session.Backend = session.NewMemoryBackend()
		guard   workflow.Guard  = workflow.NewMemoryGuard()
	)
	if rdb != nil {
		backend = session.NewRedisBackend(rdb, sealer, "sess")
		guard = workflow.NewRedisGuard(rdb, cfg.InflightTTL)
		defer rdb.Close()
	} else {
		log.Warn("running without redis: in-memory sessions, no rate limiting")
	}
	store := session.NewStore(backend, cfg.SessionTTL)

	// Activity store and queue.
	var db *sql.DB
	if cfg.DBHost != "" {
		if db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName); err != nil {
			log.Warnf("activity store unavailable: %v", err)
			db = nil
		} else {
			defer db.Close()
		}
	}
	activity := repository.NewActivityRepo(db)
	if db != nil {
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := activity.EnsureSchema(sctx); err != nil {
			log.Warnf("activity schema: %v", err)
		}
		cancel()
	}

	var events workflow.Publisher
	if cfg.ActivityEnabled && cfg.AMQPURL != "" {
		pub := service.NewActivityPublisher(cfg.AMQPURL)
		defer pub.Close()
		events = pub

		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogDir: "logs", Store: activity}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("activity consumer stopped: %v", err)
			}
		}()
	}

	flows := workflow.New(api.New(cfg.BackendURL, cfg.BackendTimeout), guard, events, cfg.RegisterDelay)

	checks := map[string]handler.Check{}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if db != nil {
		checks["database"] = db.PingContext
	}

	e, err := router.New(router.Options{
		Handlers: router.Handlers{
			Auth:      handler.NewAuthHandler(flows),
			Dashboard: handler.NewDashboardHandler(flows, activity),
			Employees: handler.NewEmployeesHandler(flows),
			Health:    handler.Health(checks),
		},
		Session: middleware.Session(middleware.SessionConfig{
			Store:  store,
			Secret: cfg.SessionSecret,
			TTL:    cfg.SessionTTL,
			Secure: cfg.CookieSecure,
		}),
		RateLimit:    config.LoadRateLimitConfig(),
		Redis:        rdb,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		log.Fatal(err)
	}
	e.Logger.SetLevel(lvl)

	addr := ":" + cfg.Port // Address string with port
	log.Infof("listening on %s (env=%s, backend=%s)", addr, cfg.Env, cfg.BackendURL) // Print startup info
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

// logLevel maps LOG_LEVEL onto gommon levels; unknown values mean info.
func logLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
