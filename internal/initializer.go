package internal

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"

	"foodconnect/internal/config"
	"foodconnect/internal/interfaces"
	"foodconnect/internal/managers"
	"foodconnect/internal/middleware"
	"foodconnect/internal/migrations"
	"foodconnect/internal/repositories"
	"foodconnect/internal/routing"
	"foodconnect/internal/utils"
)

const (
	envFile         = ".env"
	shutdownTimeout = 10 * time.Second
)

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	setLogLevel(cfg.LogLevel)

	// Select the store backend
	var (
		pool      *pgxpool.Pool
		donations repositories.DonationRepository
		users     repositories.UserRepository
	)
	if cfg.StoreBackend == config.StoreBackendPostgres {
		pool = initializeDatabase(cfg.DatabaseURL)
		defer pool.Close()
		runMigrations(pool)
		donations = repositories.NewDonationPostgresRepository(pool)
		users = repositories.NewUserPostgresRepository(pool)
	} else {
		log.Warn("Using in-memory store, data is lost on restart")
		donations = repositories.NewDonationMemoryRepository()
		users = repositories.NewUserMemoryRepository()
	}

	// Initialize database manager
	var databasePool interfaces.PgxPoolIface
	if pool != nil {
		databasePool = pool
	}
	databaseMgr := managers.NewDatabaseManager(databasePool)

	// Initialize mail manager
	mailMgr := managers.NewMailManager(cfg.IsProduction(), cfg.MailgunDomain, cfg.MailgunAPIKey)

	// Initialize JWT manager
	jwtMgr, err := managers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal("Error initializing JWT manager: ", err)
	}

	var verifyEmail func(string) bool
	if cfg.EmailMXCheck {
		verifyEmail = utils.GetValidator().VerifyEmail
	}

	// Initialize router
	r := routing.InitRouter(routing.Dependencies{
		DatabaseMgr:    databaseMgr,
		JWTMgr:         jwtMgr,
		UserMgr:        managers.NewUserManager(users, jwtMgr, verifyEmail),
		DonationMgr:    managers.NewDonationManager(donations, users, mailMgr),
		StatsMgr:       managers.NewStatsManager(donations, users),
		OTPThrottle:    middleware.NewOTPThrottle(cfg.OTPAttemptsPerMinute),
		AllowedOrigins: cfg.CORSOrigins,
		ApiVersion:     cfg.ApiVersion,
	})
	log.Info("Initialized router")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handle interrupt signal gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Starting server on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server: ", err)
		}
	}()

	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server: ", err)
	}
}

func initializeDatabase(url string) *pgxpool.Pool {
	log.Info("Initializing database")

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	poolConfig.MinConns = 5
	poolConfig.MaxConns = 30
	poolConfig.MaxConnIdleTime = time.Minute * 2
	poolConfig.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	log.Info("Connected to database")
	return pool
}

// runMigrations applies the embedded goose migrations through a database/sql handle on the pool.
func runMigrations(pool *pgxpool.Pool) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("error selecting migration dialect: ", err)
	}
	if err := goose.UpContext(context.Background(), db, "."); err != nil {
		log.Fatal("error running migrations: ", err)
	}
	log.Info("Database schema is up to date")
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)

	log.SetOutput(os.Stdout)
}
