package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/billsplit/internal/auth"
)

// AuthService exchanges the shared password for a JWT.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

type loginRequest struct {
	Password string `json:"password"`
	Device   string `json:"device"`
}

// Login handles POST /login.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	slog.Info("Login request", "device", req.Device)

	if err := s.authenticator.Authenticate(req.Password); err != nil {
		slog.Warn("Login failed", "device", req.Device, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := s.jwtManager.Generate(req.Device)
	if err != nil {
		slog.Error("Failed to generate token", "device", req.Device, "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	slog.Info("User logged in successfully", "device", req.Device)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
