package apiserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"social-go/internal/auth"
	"social-go/internal/middleware"
	"social-go/internal/models"
	"social-go/internal/services"
)

// AuthHandler exposes registration, login/logout and the two-factor
// enrollment endpoints.
type AuthHandler struct {
	authService    services.AuthService
	userService    services.UserService
	tokenBlacklist auth.TokenBlacklist
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService services.AuthService, userService services.UserService, tokenBlacklist auth.TokenBlacklist, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userService:    userService,
		tokenBlacklist: tokenBlacklist,
		logger:         logger,
	}
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// LoginRequest is the body of POST /auth/login. Token carries the TOTP code
// for 2FA-enabled accounts.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token,omitempty"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		writeJSONError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{
		"message": "User created!",
		"user":    user,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		writeJSONError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Username, req.Password, req.Token)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, LoginResponse{
		Message: "User successfully logged in.",
		Token:   token,
		User:    user,
	})
}

// Logout handles POST /auth/logout by blacklisting the current token's JTI
// until its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeJSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		writeJSONError(w, "token cannot be revoked", http.StatusInternalServerError)
		return
	}

	if err := h.tokenBlacklist.Add(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.logger.Error("failed to blacklist token", zap.Error(err))
		writeJSONError(w, "logout failed", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Generate2FA handles POST /auth/{username}/2fa/generate. It returns the
// otpauth provisioning URL plus a QR PNG encoded as a data URL.
func (h *AuthHandler) Generate2FA(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	otpauthURL, err := h.userService.Generate2FASecret(r.Context(), username)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	png, err := qrcode.Encode(otpauthURL, qrcode.Medium, 256)
	if err != nil {
		h.logger.Error("failed to encode 2FA QR code", zap.Error(err))
		writeJSONError(w, "failed to generate 2FA QR code", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{
		"otpauthUrl": otpauthURL,
		"qr":         "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFactorTokenRequest is the body of POST /auth/{username}/2fa/enable.
type TwoFactorTokenRequest struct {
	Token string `json:"token"`
}

// Enable2FA handles POST /auth/{username}/2fa/enable.
func (h *AuthHandler) Enable2FA(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var req TwoFactorTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.userService.Enable2FA(r.Context(), username, req.Token); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "2FA enabled"})
}

// Disable2FA handles POST /auth/{username}/2fa/disable.
func (h *AuthHandler) Disable2FA(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	if err := h.userService.Disable2FA(r.Context(), username); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "2FA disabled"})
}
