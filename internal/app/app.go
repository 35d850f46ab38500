package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/aluno"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/cep"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/config"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/db"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/events"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/health"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/kafka"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/logger"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/messaging"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/metrics"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/middleware"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/telemetry"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	db        *bun.DB
	publisher events.Publisher
	telemetry *telemetry.Telemetry
}

// Deps are the collaborators mounted on the HTTP router.
type Deps struct {
	Alunos  aluno.Service
	CEP     cep.Lookuper
	DB      health.Pinger
	Origins []string
	Logger  *slog.Logger
}

func New() *App {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogLogger := logger.NewWithServiceContext(ServiceName, Version, cfg.Env)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "env", cfg.Env)

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	slogLogger.Info("database connected", "host", cfg.Database.Host, "name", cfg.Database.DBName)

	if err := tel.Metrics.DB().RegisterDB(database.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}

	if err := db.RunMigrations(ctx, database, (*aluno.Aluno)(nil)); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	publisher := NewPublisher(cfg.Events, slogLogger, tel.Metrics.Msg())

	alunoRepo := aluno.NewRepository(database, tel.Metrics)
	alunoService := aluno.NewService(alunoRepo, slogLogger,
		aluno.WithPublisher(publisher),
		aluno.WithMetrics(tel.Metrics),
	)

	cepClient := cep.NewClient(cfg.CEP.BaseURL, time.Duration(cfg.CEP.TimeoutSeconds)*time.Second, tel.Metrics)

	app := &App{
		config:    cfg,
		logger:    slogLogger,
		db:        database,
		publisher: publisher,
		telemetry: tel,
		router: NewRouter(Deps{
			Alunos:  alunoService,
			CEP:     cepClient,
			DB:      database,
			Origins: cfg.Server.CORSOrigins,
			Logger:  slogLogger,
		}),
	}

	slogLogger.Info("application initialized successfully")

	return app
}

// NewRouter mounts every route behind the shared middleware stack.
func NewRouter(deps Deps) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS(deps.Origins))
	router.Use(middleware.MethodOverride)

	health.NewHandler(deps.DB, deps.Logger).RegisterRoutes(router)
	cep.NewHandler(deps.CEP, deps.Logger).RegisterRoutes(router)
	aluno.NewHandler(deps.Alunos, deps.Logger).RegisterRoutes(router)

	return router
}

// NewPublisher connects the configured broker. A broker that cannot be
// reached at startup degrades to events.Nop.
func NewPublisher(cfg config.EventsConfig, logger *slog.Logger, mm *metrics.MessagingMetrics) events.Publisher {
	switch cfg.Driver {
	case "nats":
		producer, err := messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, logger, mm)
		if err != nil {
			logger.Warn("failed to initialize NATS producer", "error", err)
			return events.Nop{}
		}
		logger.Info("NATS producer initialized successfully", "subject", cfg.NATS.Subject)
		return producer
	case "kafka":
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger, mm)
		if err != nil {
			logger.Warn("failed to initialize Kafka producer", "error", err)
			return events.Nop{}
		}
		logger.Info("Kafka producer initialized successfully", "topic", cfg.Kafka.Topic)
		return producer
	case "", "none":
		logger.Info("event publishing disabled")
		return events.Nop{}
	default:
		logger.Warn("unknown events driver, publishing disabled", "driver", cfg.Driver)
		return events.Nop{}
	}
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.Error("event publisher close error", "error", err)
	}

	db.Close(a.db)

	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
