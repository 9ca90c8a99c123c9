// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the API server.
//
// Fields:
//   - Addr: listen address for the HTTP server.
//   - DatabaseURL: PostgreSQL DSN (pgx).
//   - JWTSecret: HMAC secret for signing session tokens (HS256).
//   - TokenTTL: session token lifetime.
//   - ResetTokenTTL: validity window for password-reset tokens.
//   - RootDomain: public base URL used in reset-password links.
//   - Production: hardens cookies (Secure) and hides error details.
//   - SMTP*: outbound mail settings; an empty SMTPHost selects the
//     log-only mailer instead of a real SMTP client.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	RootDomain    string
	Production    bool

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// Load builds a Config from environment variables. A missing JWT_SECRET
// is a startup error: token signing cannot degrade per-request.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}

	tokenTTL, err := parseTTL(getenv("TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid TOKEN_TTL: %w", err)
	}

	resetTTL, err := parseTTL(getenv("RESET_TOKEN_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid RESET_TOKEN_TTL: %w", err)
	}

	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid SMTP_PORT: %w", err)
	}

	return &Config{
		Addr:          ":" + getenv("PORT", "4000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     secret,
		TokenTTL:      tokenTTL,
		ResetTokenTTL: resetTTL,
		RootDomain:    getenv("ROOT_DOMAIN", "http://localhost:4000"),
		Production:    getenv("APP_ENV", "development") == "production",
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      port,
		SMTPUser:      os.Getenv("SMTP_EMAIL"),
		SMTPPassword:  os.Getenv("SMTP_EMAIL_PASSWORD"),
		MailFrom:      getenv("MAIL_FROM", os.Getenv("SMTP_EMAIL")),
	}, nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// parseTTL accepts durations such as "15m", "1h", "20s", or a bare
// number, which is read as minutes.
func parseTTL(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "s") || strings.HasSuffix(s, "m") || strings.HasSuffix(s, "h") {
		return time.ParseDuration(s)
	}
	min, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(min) * time.Minute, nil
}
