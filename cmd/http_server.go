package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/auth"
	authPostgres "github.com/nattapongw/fieldservice/internal/auth/postgres"
	"github.com/nattapongw/fieldservice/internal/core/events"
	"github.com/nattapongw/fieldservice/internal/department"
	departmentPostgres "github.com/nattapongw/fieldservice/internal/department/postgres"
	"github.com/nattapongw/fieldservice/internal/employee"
	employeePostgres "github.com/nattapongw/fieldservice/internal/employee/postgres"
	"github.com/nattapongw/fieldservice/internal/fleet"
	fleetPostgres "github.com/nattapongw/fieldservice/internal/fleet/postgres"
	"github.com/nattapongw/fieldservice/internal/leave"
	leavePostgres "github.com/nattapongw/fieldservice/internal/leave/postgres"
	"github.com/nattapongw/fieldservice/internal/linebot"
	linebotPostgres "github.com/nattapongw/fieldservice/internal/linebot/postgres"
	"github.com/nattapongw/fieldservice/internal/poll"
	pollPostgres "github.com/nattapongw/fieldservice/internal/poll/postgres"
	"github.com/nattapongw/fieldservice/internal/reference"
	referencePostgres "github.com/nattapongw/fieldservice/internal/reference/postgres"
	"github.com/nattapongw/fieldservice/internal/search"
	searchPostgres "github.com/nattapongw/fieldservice/internal/search/postgres"
	"github.com/nattapongw/fieldservice/internal/site"
	sitePostgres "github.com/nattapongw/fieldservice/internal/site/postgres"
	"github.com/nattapongw/fieldservice/internal/stagedfile"
	stagedfilePostgres "github.com/nattapongw/fieldservice/internal/stagedfile/postgres"
	"github.com/nattapongw/fieldservice/internal/storage"
	"github.com/nattapongw/fieldservice/internal/telemetry"
	"github.com/nattapongw/fieldservice/internal/ticket"
	ticketPostgres "github.com/nattapongw/fieldservice/internal/ticket/postgres"
	"github.com/nattapongw/fieldservice/internal/transport"
	"github.com/nattapongw/fieldservice/internal/transport/middleware"
	"github.com/nattapongw/fieldservice/internal/transport/rest"
	"github.com/nattapongw/fieldservice/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config        *internal.Config
	DB            *sqlx.DB
	Redis         *redis.Client
	Router        *chi.Mux
	RouterDeps    rest.RouterDeps
	Dispatcher    *linebot.Dispatcher
	TraceShutdown func(context.Context) error
	Logger        *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	var handler http.Handler = deps.Router
	if deps.Config.Observability.Tracing.Enabled {
		handler = otelhttp.NewHandler(handler, "fieldservice")
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if deps.Dispatcher != nil {
			deps.Dispatcher.Shutdown()
		}
		if deps.TraceShutdown != nil {
			if err := deps.TraceShutdown(ctx); err != nil {
				deps.Logger.Error("trace exporter shutdown error", "error", err)
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				deps.Logger.Error("redis close error", "error", err)
			}
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.RouterDeps)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if config.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
	}

	traceShutdown := telemetry.Setup(context.Background(),
		config.Observability.Tracing.Enabled,
		config.Observability.Tracing.ServiceName,
		log)

	var (
		metrics        *middleware.Metrics
		metricsHandler http.Handler
	)
	if config.Observability.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		metrics = middleware.NewMetrics(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	eventBus := events.NewEventBus(log)
	base := transport.NewBaseHandler(log)

	verifier := auth.NewJWTTokenVerifier(config.Security.JWTSecret)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), verifier)
	authHandler := auth.NewHandler(authService)

	// The ticket repository doubles as the bot's ticket directory.
	ticketRepo := ticketPostgres.NewTicketRepository(gormDB)

	departmentHandler := department.NewHandler(base, department.NewService(departmentPostgres.NewDepartmentRepository(gormDB), log))
	siteHandler := site.NewHandler(base, site.NewService(sitePostgres.NewSiteRepository(gormDB), log))
	employeeHandler := employee.NewHandler(base, employee.NewService(employeePostgres.NewEmployeeRepository(gormDB), log))
	leaveHandler := leave.NewHandler(base, leave.NewService(leavePostgres.NewLeaveRepository(gormDB), eventBus, log))
	ticketHandler := ticket.NewHandler(base, ticket.NewService(ticketRepo, log))
	pollHandler := poll.NewHandler(base, poll.NewService(pollPostgres.NewPollRepository(gormDB), log))
	fleetHandler := fleet.NewHandler(base, fleet.NewService(fleetPostgres.NewVehicleRepository(gormDB), log))
	referenceHandler := reference.NewHandler(base, reference.NewService(referencePostgres.NewReferenceRepository(gormDB), log))
	stagedFileHandler := stagedfile.NewHandler(base, stagedfile.NewService(stagedfilePostgres.NewStagedFileRepository(gormDB), log))
	searchHandler := search.NewHandler(base, search.NewService(searchPostgres.NewSearchRepository(gormDB), log))

	publicFilesURL := config.Storage.PublicBaseURL
	if publicFilesURL == "" {
		publicFilesURL = strings.TrimRight(config.Server.BaseURL, "/") + "/files"
	}
	store, err := storage.NewDiskStore(config.Storage.BaseDir, publicFilesURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	var (
		dispatcher     *linebot.Dispatcher
		webhookHandler *linebot.WebhookHandler
	)
	if config.Line.ChannelSecret != "" {
		lineClient := linebot.NewClient(linebot.ClientConfig{
			ChannelAccessToken: config.Line.ChannelAccessToken,
			APIBaseURL:         config.Line.APIBaseURL,
			DataBaseURL:        config.Line.DataBaseURL,
		}, log)
		lineRepo := linebotPostgres.NewLineRepository(gormDB)

		var dedup *linebot.Deduplicator
		if redisClient != nil {
			dedup = linebot.NewDeduplicator(redisClient, log)
		}

		botService := linebot.NewService(lineRepo, lineRepo, ticketRepo, lineClient, store, eventBus, dedup, log)

		var (
			rejected      prometheus.Counter
			webhookEvents *prometheus.CounterVec
		)
		if metrics != nil {
			rejected = metrics.DispatchRejected
			webhookEvents = metrics.WebhookEvents
		}

		dispatcher = linebot.NewDispatcher(linebot.DispatcherConfig{
			MaxWorkers: config.Line.DispatchWorkers,
			QueueSize:  config.Line.DispatchQueueSize,
		}, botService.HandleEvent, rejected, log)

		webhookHandler = linebot.NewWebhookHandler(base, config.Line.ChannelSecret, dispatcher, webhookEvents, log)

		notifier := linebot.NewNotifier(lineRepo, lineClient, log)
		notifier.RegisterEventHandlers(eventBus)
	} else {
		log.Info("line channel secret not configured, webhook disabled")
	}

	return &Dependencies{
		Config:     config,
		DB:         db,
		Redis:      redisClient,
		Router:     chi.NewRouter(),
		Dispatcher: dispatcher,
		RouterDeps: rest.RouterDeps{
			DB:             db.DB,
			Redis:          redisClient,
			Logger:         log,
			Metrics:        metrics,
			MetricsHandler: metricsHandler,
			FilesDir:       store.Dir(),
			Auth:           authHandler,
			Departments:    departmentHandler,
			Sites:          siteHandler,
			Employees:      employeeHandler,
			Leaves:         leaveHandler,
			Tickets:        ticketHandler,
			Polls:          pollHandler,
			Fleet:          fleetHandler,
			Reference:      referenceHandler,
			StagedFiles:    stagedFileHandler,
			Search:         searchHandler,
			LineWebhook:    webhookHandler,
		},
		TraceShutdown: traceShutdown,
		Logger:        log,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-configured pgx pool so both
// share one pool and one set of limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}
	return gormDB, nil
}
