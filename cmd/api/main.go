package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db"
	"github.com/authcore/authcore/internal/handlers"
	"github.com/authcore/authcore/internal/mail"
	"github.com/authcore/authcore/internal/middleware"
	"github.com/authcore/authcore/internal/service"
	"github.com/authcore/authcore/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(context.Background(), dbConn); err != nil {
		logger.Error("migrations", "error", err)
		os.Exit(1)
	}

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("token issuer", "error", err)
		os.Exit(1)
	}

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer, err = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
		if err != nil {
			logger.Error("mailer", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("SMTP_HOST not set, reset emails will only be logged")
		mailer = &mail.LogMailer{Logger: logger}
	}

	svc := service.NewCredentialService(
		store.NewPostgresStore(dbConn),
		mailer,
		auth.NewBcryptHasher(),
		issuer,
		cfg.ResetTokenTTL,
		cfg.RootDomain,
		logger,
	)

	cookie := auth.SessionCookie{Secure: cfg.Production}
	h := handlers.NewHandler(svc, cookie, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Server Running"))
	})

	// Public
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Get("/logout", h.Auth.Logout)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Get("/reset-password-form/{token}", h.Auth.ResetPasswordForm)
		r.Post("/reset-password/{token}", h.Auth.ResetPassword)
	})

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(issuer))

		r.Get("/me", h.Auth.Me)
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
