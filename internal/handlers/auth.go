package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/service"
	"github.com/authcore/authcore/internal/utils"
)

type AuthHandler struct {
	svc    *service.CredentialService
	cookie auth.SessionCookie
	logger *slog.Logger
}

func NewAuthHandler(svc *service.CredentialService, cookie auth.SessionCookie, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie, logger: logger}
}

// ----------- Request/Response DTOs -------------

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

type resetPasswordReq struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type tokenResp struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, user)
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	ttl := time.Until(session.ExpiresAt)
	h.cookie.Set(w, session.Token, ttl)

	utils.JSON(w, http.StatusOK, tokenResp{
		Token:     session.Token,
		ExpiresIn: int64(ttl.Seconds()),
	})
}

// -------------- LOGOUT -----------------------

// Logout clears the session cookie. The token itself remains valid
// until its natural expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookie.Clear(w)
	utils.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ---------- FORGOT PASSWORD ------------------

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Email sent successfully"})
}

// ---------- RESET PASSWORD -------------------

var resetFormTmpl = template.Must(template.New("resetForm").Parse(`<!DOCTYPE html>
<html>
<head><title>Reset password</title></head>
<body>
<form id="reset-form" action="{{.Action}}">
<input type="password" id="password" placeholder="New password" required>
<input type="password" id="confirmPassword" placeholder="Confirm password" required>
<button type="submit">Reset password</button>
</form>
<p id="result"></p>
<script>
document.getElementById('reset-form').addEventListener('submit', async (e) => {
	e.preventDefault();
	const res = await fetch(e.target.action, {
		method: 'POST',
		headers: {'Content-Type': 'application/json'},
		body: JSON.stringify({
			password: document.getElementById('password').value,
			confirmPassword: document.getElementById('confirmPassword').value
		})
	});
	const body = await res.json();
	document.getElementById('result').textContent = body.message || body.error;
});
</script>
</body>
</html>
`))

// ResetPasswordForm serves the page behind the emailed reset link. The
// form submits to the reset-password endpoint carrying the same token.
func (h *AuthHandler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resetFormTmpl.Execute(w, map[string]string{
		"Action": "/auth/reset-password/" + token,
	}); err != nil {
		h.logger.Error("rendering reset form", "error", err)
	}
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req resetPasswordReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.svc.ResetPassword(r.Context(), token, req.Password, req.ConfirmPassword); err != nil {
		h.writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// -------------- ME (protected) ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := r.Context().Value(utils.CtxUserIDKey).(string)
	if !ok || uid == "" {
		utils.JSONError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	user, err := h.svc.Account(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// ---------------------------------------------

// writeServiceError maps service errors to HTTP statuses. Validation
// messages pass through verbatim; collaborator failures stay generic so
// internals never reach the client.
func (h *AuthHandler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidResetToken):
		utils.JSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrMailDelivery):
		h.logger.Error("mail delivery failed", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, service.ErrMailDelivery.Error())
	default:
		h.logger.Error("internal error", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
	}
}
