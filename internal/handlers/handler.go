package handlers

import (
	"log/slog"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/service"
)

type Handler struct {
	Auth *AuthHandler
}

func NewHandler(svc *service.CredentialService, cookie auth.SessionCookie, logger *slog.Logger) *Handler {
	return &Handler{
		Auth: NewAuthHandler(svc, cookie, logger),
	}
}
