package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/api"
	"github.com/andrescamacho/goaltracker-go/internal/adapters/grpc"
	"github.com/andrescamacho/goaltracker-go/internal/adapters/metrics"
	"github.com/andrescamacho/goaltracker-go/internal/adapters/persistence"
	"github.com/andrescamacho/goaltracker-go/internal/adapters/registry"
	"github.com/andrescamacho/goaltracker-go/internal/adapters/scheduler"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/config"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/database"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/logging"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/tracker"
)

func main() {
	os.Exit(daemonMain())
}

// daemonMain returns the exit code so deferred cleanup runs before exiting
func daemonMain() int {
	// Parse command-line flags
	configFlag := flag.String("config", "", "Path to config file (default: search ., ./configs, /etc/goaltracker)")
	forceFlag := flag.Bool("force", false, "Stop any running daemon and start a new one")
	flag.Parse()

	fmt.Println("Goal Tracker Daemon v0.1.0")
	fmt.Println("==========================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Acquire PID file lock to prevent multiple instances
	if cfg.Daemon.PIDFile != "" {
		fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
		pf := pidfile.New(cfg.Daemon.PIDFile)

		if err := pf.Acquire(); err != nil {
			if !*forceFlag || !errors.Is(err, pidfile.ErrAlreadyRunning) {
				log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to stop the existing daemon", err)
			}

			fmt.Println("Force mode enabled - stopping existing daemon...")
			if killErr := pf.KillExisting(cfg.Daemon.ShutdownTimeout); killErr != nil {
				log.Fatalf("Failed to stop existing daemon: %v", killErr)
			}
			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after stopping existing daemon: %v", err)
			}
		}

		defer func() {
			if err := pf.Release(); err != nil {
				log.Printf("Warning: failed to release PID file: %v", err)
			}
		}()
		fmt.Println("PID file lock acquired")
	}

	if err := run(cfg); err != nil {
		log.Printf("Fatal error: %v", err)
		return 1
	}
	return 0
}

func run(cfg *config.Config) error {
	clock := shared.NewRealClock()

	logger, err := logging.New(cfg.Logging, clock)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.WithLogger(ctx, logger)

	// 1. Setup database connection
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Initialize metrics (must be done before the mediator so the middleware can record)
	var middleware []mediator.Middleware
	var httpMetrics *metrics.HTTPMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metrics.GetRegistry().MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		goalMetrics := metrics.NewGoalMetricsCollector()
		if err := goalMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register goal metrics: %w", err)
		}
		metrics.SetGlobalGoalCollector(goalMetrics)

		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		middleware = append(middleware, metrics.PrometheusMiddleware(commandMetrics))

		httpMetrics = metrics.NewHTTPMetricsCollector()
		if err := httpMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register HTTP metrics: %w", err)
		}
		metrics.SetGlobalHTTPCollector(httpMetrics)
		fmt.Println("Metrics initialized")
	}

	// 3. Load registry, world and presets, and register handlers
	tr, err := tracker.Build(ctx, cfg, tracker.Options{
		CacheRepo:  persistence.NewGormRecipeCacheRepository(db),
		StateRepo:  persistence.NewGormGoalStateRepository(db),
		Clock:      clock,
		Middleware: middleware,
	})
	if err != nil {
		return err
	}
	fmt.Println("Tracker assembled")

	// 4. Restore the recipe cache and the active preset
	if resp, err := tr.Mediator.Send(ctx, &commands.RestoreStateCommand{}); err != nil {
		logger.Log(common.LevelWarn, "Failed to restore state, starting fresh", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		restored := resp.(*commands.RestoreStateResponse)
		fmt.Printf("State restored: %d cached recipes, active goal %s\n", restored.RestoredItems, tr.Goals.Active().ID())
	}

	// 5. Start the scheduler and servers
	goalServer, err := grpc.NewGoalServer(tr.Mediator, logger, cfg.Daemon.Address)
	if err != nil {
		return fmt.Errorf("failed to create goal server: %w", err)
	}
	fmt.Printf("Goal service listening on: %s\n", goalServer.Addr())

	sched := scheduler.NewTickScheduler(tr.Mediator, cfg.Tracker.TickInterval, cfg.Tracker.TriggerRate, cfg.Tracker.TriggerBurst)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error { return goalServer.Serve(gctx) })

	if cfg.Daemon.HTTPAddress != "" {
		opts := api.RouterOptions{CORSOrigins: cfg.Daemon.CORSOrigins, HTTPMetrics: httpMetrics}
		if cfg.Metrics.Enabled {
			opts.MetricsPath = cfg.Metrics.Path
			opts.MetricsHandler = promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
		}

		httpServer := &http.Server{
			Addr:              cfg.Daemon.HTTPAddress,
			Handler:           api.NewRouter(tr.Mediator, logger, opts),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
		fmt.Printf("HTTP API listening on: %s\n", cfg.Daemon.HTTPAddress)
	}

	if cfg.Registry.Watch {
		reloader := registry.NewReloader(cfg.Registry.Path, cfg.Registry.Debounce, tr.Mediator)
		g.Go(func() error { return reloader.Watch(gctx) })
	}

	if cfg.Tracker.WatchWorld {
		g.Go(func() error {
			return tr.World.Watch(gctx, cfg.Registry.Debounce, func() {
				sched.Trigger(services.TriggerWorld)
			})
		})
	}

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	runErr := g.Wait()

	// 6. Persist caches and the active preset
	persistCtx, cancel := context.WithTimeout(common.WithLogger(context.Background(), logger), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if resp, err := tr.Mediator.Send(persistCtx, &commands.PersistStateCommand{}); err != nil {
		logger.Log(common.LevelError, "Failed to persist state", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		saved := resp.(*commands.PersistStateResponse)
		fmt.Printf("State saved: %d cached recipes, active goal %s\n", saved.CachedItems, saved.ActivePreset)
	}

	fmt.Println("\nDaemon stopped")
	return runErr
}
