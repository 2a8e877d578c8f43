// Package server wires the application together: database, services,
// handlers, middleware, and routes. It is the composition root; main.go
// stays a thin shell around it, and tests can stand up the full HTTP
// surface without a process.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/baraus/tutorhub/internal/auth"
	"github.com/baraus/tutorhub/internal/config"
	"github.com/baraus/tutorhub/internal/handler"
	"github.com/baraus/tutorhub/internal/mail"
	"github.com/baraus/tutorhub/internal/media"
	"github.com/baraus/tutorhub/internal/middleware"
	sqliteRepo "github.com/baraus/tutorhub/internal/repository/sqlite"
	"github.com/baraus/tutorhub/internal/service"
)

// Server owns the router and the resources that must be released on
// shutdown (for now just the database; the connection pool flushes the
// WAL on Close).
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the dependency graph bottom-up: database, then
// services, then handlers, then routes. Each layer receives interfaces
// from the one below, so handlers never touch the database and
// services never touch HTTP.
//
// Mail and object storage are optional: without SMTP settings reset
// tokens are logged instead of mailed (dev only), and without an
// object-store endpoint avatar upload answers with an error while the
// rest of the API works.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring token service: %w", err)
	}

	var mailer mail.Sender
	if cfg.SMTP.Host != "" {
		smtp, err := mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("configuring mail: %w", err)
		}
		mailer = smtp
	} else {
		logger.Warn("SMTP not configured, reset tokens will be logged instead of mailed")
		mailer = mail.NewLogSender(logger)
	}

	var store media.Store
	if cfg.ObjectStore.Endpoint != "" {
		s3, err := media.NewS3Store(cfg.ObjectStore.Endpoint,
			cfg.ObjectStore.AccessKey, cfg.ObjectStore.SecretKey,
			cfg.ObjectStore.Bucket, cfg.ObjectStore.PublicURL,
			cfg.ObjectStore.UseSSL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("configuring object storage: %w", err)
		}
		store = s3
	} else {
		logger.Warn("object storage not configured, avatar upload is disabled")
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens, mailer, store)
	return s, nil
}

// Handler exposes the router for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// signal loop. Tests use this; Start calls it on its own way out.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes(tokens *auth.TokenService, mailer mail.Sender, store media.Store) {
	// Middleware order matters: request ID first so the logger can see
	// it, Recoverer before the handlers so a panic becomes a 500.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	passwords := auth.NewPasswordService()

	userService := service.NewUserService(s.db.Users(), s.db.Classes(), tokens, passwords, mailer, s.logger)
	classService := service.NewClassService(s.db.Classes(), s.db.Subjects(), s.logger)
	connectionService := service.NewConnectionService(s.db.Connections(), s.db.Subjects(), s.logger)
	avatarService := service.NewAvatarService(s.db.Users(), store, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	classHandler := handler.NewClassHandler(classService, s.logger)
	connectionHandler := handler.NewConnectionHandler(connectionService, s.logger)
	avatarHandler := handler.NewAvatarHandler(avatarService, s.logger)

	s.router.Route("/v1", func(r chi.Router) {
		// Public surface
		r.Post("/authenticate", userHandler.HandleAuthenticate)
		r.Post("/register", userHandler.HandleRegister)
		r.Post("/forgot_password", userHandler.HandleForgotPassword)
		r.Post("/reset_password", userHandler.HandleResetPassword)
		r.Get("/subjects", classHandler.HandleSubjects)
		r.Get("/connections", connectionHandler.HandleList)

		// Everything below requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/users/{id}", userHandler.HandleGetUser)
			r.Get("/profile", userHandler.HandleProfile)
			r.Put("/profile", userHandler.HandleUpdateProfile)
			r.Post("/avatar", avatarHandler.HandleUpload)
			r.Get("/classes", classHandler.HandleList)
			r.Post("/classes", classHandler.HandleCreate)
			r.Post("/connections", connectionHandler.HandleCreate)
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.cfg.Addr),
			slog.String("env", s.cfg.Env),
			slog.String("database", s.cfg.StoragePath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
