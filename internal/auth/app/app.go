package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/blob"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	httpapi "github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/http"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/keystore"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/mail"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/service"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store/drivers/sqlite"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/jwtx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	keys   keystore.KeyStore
	blobs  blob.ObjectStore
	mailer mail.Mailer
	tokens *jwtx.TokenService

	// Services
	authService         *service.AuthService
	userService         *service.UserService
	rolesService        *service.RolesService
	verificationService *service.VerificationService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required outside dev")
	}
	if cfg.CookieSecret == "" {
		return nil, errors.New("AUTH_COOKIE_SECRET is required outside dev")
	}

	app.tokens = &jwtx.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.Issuer,
		DefaultTTL: jwtx.DefaultSessionTTL,
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initKeyStore(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initBlobStore(); err != nil {
		_ = app.keys.Close()
		_ = app.db.Close()
		return nil, err
	}
	app.initMailer()
	app.initServices()

	// Seed the stock roles and root account on an empty database
	if err := app.seed(context.Background()); err != nil {
		_ = app.keys.Close()
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close the one-time key store
	if err := app.keys.Close(); err != nil {
		app.logger.Error("error closing key store", "error", err)
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initKeyStore selects redis when an address is configured, otherwise the
// in-memory store with its background sweeper.
func (app *Application) initKeyStore() error {
	if app.cfg.RedisAddr == "" {
		mem := keystore.NewMemoryStore(app.cfg.KeySweepInterval)
		mem.Start()
		app.keys = mem
		app.logger.Info("using in-memory key store", "sweep_interval", app.cfg.KeySweepInterval)
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: app.cfg.RedisAddr,
		DB:   app.cfg.RedisDB,
	})
	rs := keystore.NewRedisStore(client, "authkey")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", app.cfg.RedisAddr, err)
	}

	app.keys = rs
	app.logger.Info("using redis key store", "addr", app.cfg.RedisAddr)
	return nil
}

func (app *Application) initBlobStore() error {
	blobs, err := blob.NewFSStore(app.cfg.AvatarDir)
	if err != nil {
		return fmt.Errorf("failed to initialize avatar store: %w", err)
	}
	app.blobs = blobs
	return nil
}

// initMailer selects the HTTP mailer when an API key is configured. Without
// one, mail is written to the log instead of delivered.
func (app *Application) initMailer() {
	if app.cfg.MailAPIKey == "" {
		app.mailer = &mail.LogMailer{Logger: app.logger}
		app.logger.Info("no mail API key configured, logging mail instead")
		return
	}

	app.mailer = &mail.HTTPMailer{
		APIKey:    app.cfg.MailAPIKey,
		FromEmail: app.cfg.MailFromEmail,
		FromName:  app.cfg.MailFromName,
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:             app.db,
		Tokens:            app.tokens,
		Blobs:             app.blobs,
		Mailer:            app.mailer,
		WelcomeTemplateID: app.cfg.MailWelcomeTplID,
	}

	app.userService = &service.UserService{
		Store: app.db,
		Blobs: app.blobs,
	}
	app.rolesService = &service.RolesService{Store: app.db}

	app.verificationService = &service.VerificationService{
		Store:            app.db,
		Keys:             app.keys,
		Mailer:           app.mailer,
		WebURL:           app.cfg.WebURL,
		VerifyTemplateID: app.cfg.MailVerifyTplID,
		ResetTemplateID:  app.cfg.MailResetTplID,
	}
}

// seed applies the default role set and root account when the database is
// empty. AUTH_ROOT_PASSWORD overrides the stock root password.
func (app *Application) seed(ctx context.Context) error {
	seeder := &service.SeedService{
		Store: app.db,
		Blobs: app.blobs,
	}

	data := domain.DefaultSeed()
	if app.cfg.RootPassword != "" {
		data.RootPassword = app.cfg.RootPassword
	}

	return seeder.Apply(ctx, data)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		[]byte(app.cfg.CookieSecret),
		app.cfg.Env != "dev",
		BuildVersion,
		app.db,
		app.blobs,
		app.keys,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.RolesService = app.rolesService
	router.VerificationService = app.verificationService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
