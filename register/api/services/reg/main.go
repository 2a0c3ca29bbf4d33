package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/signup/register/app/sdk/debug"
	"github.com/ardanlabs/signup/register/app/sdk/feed"
	"github.com/ardanlabs/signup/register/app/sdk/metrics"
	"github.com/ardanlabs/signup/register/app/sdk/mux"
	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/app/sdk/registry/notifiers/natsbus"
	"github.com/ardanlabs/signup/register/app/sdk/registry/stores/regdb"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/ardanlabs/signup/register/foundation/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var build = "develop"

func main() {
	var log *logger.Logger

	traceIDFn := func(ctx context.Context) string {
		return web.GetTraceID(ctx).String()
	}

	log = logger.New(os.Stdout, logger.LevelInfo, "REG", traceIDFn)

	// -------------------------------------------------------------------------

	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {

	// -------------------------------------------------------------------------
	// GOMAXPROCS

	log.Info(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	// -------------------------------------------------------------------------
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout        time.Duration `conf:"default:5s"`
			WriteTimeout       time.Duration `conf:"default:10s"`
			IdleTimeout        time.Duration `conf:"default:120s"`
			ShutdownTimeout    time.Duration `conf:"default:20s"`
			APIHost            string        `conf:"default:0.0.0.0:3000"`
			DebugHost          string        `conf:"default:0.0.0.0:3010"`
			CORSAllowedOrigins []string      `conf:"default:*"`
		}
		DB struct {
			Path        string        `conf:"default:data.db"`
			BusyTimeout time.Duration `conf:"default:5s"`
		}
		NATS struct {
			Host    string
			Subject string `conf:"default:registrations"`
		}
		Feed struct {
			PingInterval time.Duration `conf:"default:10s"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "REG",
		},
	}

	const prefix = "REG"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// -------------------------------------------------------------------------
	// App Starting

	log.Info(ctx, "starting service", "version", cfg.Build)
	defer log.Info(ctx, "shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Info(ctx, "startup", "config", out)

	log.BuildInfo(ctx)

	// -------------------------------------------------------------------------
	// Database Support

	dbPath, err := regdb.ResolvePath(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("resolving db path: %w", err)
	}

	log.Info(ctx, "startup", "status", "initializing database support", "path", dbPath)

	db, err := regdb.Open(regdb.Config{
		Path:        dbPath,
		BusyTimeout: cfg.DB.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}

	defer func() {
		log.Info(ctx, "shutdown", "status", "stopping database support", "path", dbPath)
		regdb.Close(db)
	}()

	if err := regdb.Migrate(ctx, db); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	log.Info(ctx, "startup", "status", "database tables created or verified")

	store := regdb.NewStore(log, db)

	// -------------------------------------------------------------------------
	// Metrics

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mtrcs := metrics.New(promReg)

	// -------------------------------------------------------------------------
	// Feed and NATS

	fd := feed.New(log, cfg.Feed.PingInterval)
	defer fd.Shutdown(ctx)

	notifiers := []registry.Notifier{mtrcs, fd}

	if cfg.NATS.Host != "" {
		log.Info(ctx, "startup", "status", "connecting to nats", "host", cfg.NATS.Host, "subject", cfg.NATS.Subject)

		nc, err := natsbus.Connect(cfg.NATS.Host, "REG")
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer nc.Drain()

		notifiers = append(notifiers, natsbus.New(log, nc, cfg.NATS.Subject))
	}

	reg := registry.New(log, store, notifiers...)

	// -------------------------------------------------------------------------
	// Start Debug Service

	go func() {
		log.Info(ctx, "startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

		if err := http.ListenAndServe(cfg.Web.DebugHost, debug.Mux(promReg)); err != nil {
			log.Error(ctx, "shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "msg", err)
		}
	}()

	// -------------------------------------------------------------------------
	// Start API Service

	log.Info(ctx, "startup", "status", "initializing V1 API support")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	cfgMux := mux.Config{
		Build:       build,
		Log:         log,
		Registry:    reg,
		Checker:     store,
		Feed:        fd,
		Metrics:     mtrcs,
		CORSOrigins: cfg.Web.CORSAllowedOrigins,
	}

	webAPI := mux.WebAPI(cfgMux)

	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      webAPI,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     logger.NewStdLogger(log, logger.LevelError),
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info(ctx, "startup", "status", "api router started", "host", api.Addr)

		serverErrors <- api.ListenAndServe()
	}()

	// -------------------------------------------------------------------------
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
