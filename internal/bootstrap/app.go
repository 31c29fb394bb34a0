package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/exports"
	"resume-builder/internal/queue"
	"resume-builder/internal/records"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/pdf"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/workspace"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.Store
	Renderer         pdf.Renderer
	Queue            queue.Client
	RecordsRepo      records.Repo
	ExportsRepo      exports.Repo
	RecordsService   *records.Service
	WorkspaceService *workspace.Service
	ExportsService   *exports.Service
	WorkspaceHandler *workspace.Handler
	ExportsHandler   *exports.Handler
}

// Option adjusts Build, mainly so tests can replace the browser.
type Option func(*App)

// WithRenderer replaces the headless Chrome printer.
func WithRenderer(r pdf.Renderer) Option {
	return func(a *App) { a.Renderer = r }
}

// WithQueue replaces the export job queue built from QUEUE_BACKEND.
func WithQueue(q queue.Client) Option {
	return func(a *App) { a.Queue = q }
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.RecordStore) == "" {
		cfg.RecordStore = "memory"
	}
	ctx := context.Background()

	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	sqlDB, dialect, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}
	app.Store = store

	if app.Renderer == nil {
		app.Renderer = pdf.NewChromedpRenderer(cfg.ChromePath, cfg.PDFTimeout)
	}

	if app.Queue == nil {
		q, err := buildQueue(ctx, cfg)
		if err != nil {
			closeDB(sqlDB)
			return nil, err
		}
		app.Queue = q
	}

	buildServices(app, dialect)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		WorkspaceHandler: app.WorkspaceHandler,
		ExportHandler:    app.ExportsHandler,
		RateLimiter:      middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the queue connection and the database, if any.
func (a *App) Close() error {
	if closer, ok := a.Queue.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			telemetry.Warn("bootstrap.queue_close_failed", map[string]any{"error": err})
		}
	}
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// openDB is replaced in tests to observe the database handle.
var openDB = db.Open

// closeDB releases a database opened by a Build that did not complete.
func closeDB(sqlDB *sql.DB) {
	if sqlDB == nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		telemetry.Warn("bootstrap.db_close_failed", map[string]any{"error": err})
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, db.Dialect, error) {
	var (
		dialect db.Dialect
		dsn     string
	)
	switch cfg.RecordStore {
	case "memory":
		telemetry.Info("bootstrap.records", map[string]any{"store": "memory"})
		return nil, "", nil
	case "sqlite":
		dialect, dsn = db.DialectSQLite, cfg.SQLitePath
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, "", fmt.Errorf("RECORD_STORE=postgres requires DATABASE_URL")
		}
		dialect, dsn = db.DialectPostgres, cfg.DatabaseURL
	default:
		return nil, "", fmt.Errorf("unknown record store %q", cfg.RecordStore)
	}
	sqlDB, err := openDB(ctx, dialect, dsn, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, "", err
	}
	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		sqlDB.Close()
		return nil, "", fmt.Errorf("run migrations: %w", err)
	}
	telemetry.Info("bootstrap.records", map[string]any{"store": cfg.RecordStore})
	return sqlDB, dialect, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildQueue returns nil when asynchronous exports are disabled.
func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	switch cfg.QueueBackend {
	case "":
		return nil, nil
	case queue.BackendSQS:
		telemetry.Info("bootstrap.queue", map[string]any{"backend": "sqs"})
		return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.ExportQueueURL)
	case queue.BackendAMQP:
		telemetry.Info("bootstrap.queue", map[string]any{"backend": "amqp", "queue": cfg.AMQPQueue})
		return queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.QueueBackend)
	}
}

func buildServices(app *App, dialect db.Dialect) {
	switch dialect {
	case db.DialectPostgres:
		app.RecordsRepo = &records.PGRepo{DB: app.DB}
		app.ExportsRepo = &exports.PGRepo{DB: app.DB}
	case db.DialectSQLite:
		app.RecordsRepo = &records.SQLiteRepo{DB: app.DB}
		app.ExportsRepo = &exports.SQLiteRepo{DB: app.DB}
	default:
		app.RecordsRepo = records.NewMemoryRepo()
		app.ExportsRepo = exports.NewMemoryRepo()
	}

	app.RecordsService = &records.Service{Repo: app.RecordsRepo}
	app.WorkspaceService = workspace.NewService(app.RecordsService)
	app.WorkspaceService.Forms = workspace.NewBoundedRegistry(app.Config.WorkspaceMax, app.Config.WorkspaceIdleTTL)
	app.ExportsService = &exports.Service{
		Store:    app.Store,
		Repo:     app.ExportsRepo,
		Renderer: app.Renderer,
		Queue:    app.Queue,
	}
	app.WorkspaceHandler = workspace.NewHandler(app.WorkspaceService)
	app.ExportsHandler = exports.NewHandler(app.ExportsService, app.WorkspaceService)
}
