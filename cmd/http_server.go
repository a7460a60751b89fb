package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	authPostgres "github.com/frahmantamala/employee-management/internal/auth/postgres"
	"github.com/frahmantamala/employee-management/internal/core/events"
	"github.com/frahmantamala/employee-management/internal/department"
	departmentPostgres "github.com/frahmantamala/employee-management/internal/department/postgres"
	"github.com/frahmantamala/employee-management/internal/employee"
	employeePostgres "github.com/frahmantamala/employee-management/internal/employee/postgres"
	"github.com/frahmantamala/employee-management/internal/leave"
	leavePostgres "github.com/frahmantamala/employee-management/internal/leave/postgres"
	"github.com/frahmantamala/employee-management/internal/notification"
	"github.com/frahmantamala/employee-management/internal/report"
	reportPostgres "github.com/frahmantamala/employee-management/internal/report/postgres"
	"github.com/frahmantamala/employee-management/internal/request"
	requestPostgres "github.com/frahmantamala/employee-management/internal/request/postgres"
	"github.com/frahmantamala/employee-management/internal/transport/rest"
	"github.com/frahmantamala/employee-management/internal/transport/swagger"
	"github.com/frahmantamala/employee-management/internal/user"
	userPostgres "github.com/frahmantamala/employee-management/internal/user/postgres"
	"github.com/frahmantamala/employee-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests and websocket notifications`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Gorm       *gorm.DB
	Router     *chi.Mux
	Logger     *slog.Logger
	EventBus   *events.EventBus
	Dispatcher *notification.Dispatcher
	Hub        *notification.Hub
}

func startHTTPServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		deps.Hub.Run(hubCtx)
	}()

	setupRoutes(ctx, deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("Starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		deps.Logger.Info("Received signal, shutting down...")
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		deps.Logger.Error("Server shutdown error", "error", err)
	}
	stopHub()
	<-hubDone

	// handlers still running may enqueue email; let them finish before draining
	if err := deps.EventBus.Wait(shutdownCtx); err != nil {
		deps.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	if err := deps.Dispatcher.Shutdown(shutdownCtx); err != nil {
		deps.Logger.Error("Notification dispatcher shutdown error", "error", err)
	}
	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}

	deps.Logger.Info("Server stopped")
	return serveErr
}

func setupRoutes(ctx context.Context, deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger
	policy := auth.DefaultPolicy()

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokenGen, cfg.Security.BCryptCost, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), cfg.Security.BCryptCost, lg)
	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(deps.Gorm), lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(deps.Gorm), cfg.Security.BCryptCost, lg)
	leaveService := leave.NewService(leavePostgres.NewLeaveRepository(deps.Gorm), employeeService, policy, deps.EventBus, lg)
	requestService := request.NewService(requestPostgres.NewRequestRepository(deps.Gorm), policy, deps.EventBus, lg)
	reportService := report.NewService(reportPostgres.NewReportRepository(deps.DB), lg)

	notification.NewSubscriber(deps.Dispatcher, deps.Hub, lg).Register(deps.EventBus)

	openAPIPath := cfg.Server.OpenAPIPath
	if openAPIPath != "" {
		if _, err := swagger.Load(ctx, openAPIPath); err != nil {
			lg.Warn("openapi document unavailable, docs routes disabled", "error", err)
			openAPIPath = ""
		}
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:       rest.NewHealthHandler(deps.DB),
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Employee:     employee.NewHandler(employeeService),
		Department:   department.NewHandler(departmentService),
		Leave:        leave.NewHandler(leaveService),
		Request:      request.NewHandler(requestService),
		Report:       report.NewHandler(reportService),
		Notification: notification.NewHandler(deps.Hub, splitOrigins(cfg.Server.AllowedOrigins)),
	}, rest.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenAPIPath:    openAPIPath,
	}, lg)
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(ctx, config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	mailer := notification.NewMailer(config.Mail, lg)
	dispatcher := notification.NewDispatcher(mailer, notification.DispatcherConfig{
		Workers:   config.Notification.Workers,
		QueueSize: config.Notification.QueueSize,
	}, lg)

	return &Dependencies{
		Config:     config,
		Logger:     lg,
		DB:         db,
		Gorm:       gormDB,
		Router:     chi.NewRouter(),
		EventBus:   events.NewEventBus(lg),
		Dispatcher: dispatcher,
		Hub:        notification.NewHub(lg),
	}, nil
}

// initDB opens the shared pgx pool. Gorm and the sqlx report queries both use it.
func initDB(ctx context.Context, cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.ConnectContext(ctx, driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbConn, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
