package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/emotion-detection-service/internal/config"
	"github.com/iliyamo/emotion-detection-service/internal/middleware"
	"github.com/iliyamo/emotion-detection-service/internal/repository"
)

// CredentialStore is the narrow view of the user repository the auth
// handlers need. *repository.UserRepo satisfies it; tests substitute an
// in-memory implementation.
type CredentialStore interface {
	Create(ctx context.Context, username, password string, cost int) error
	Verify(ctx context.Context, username, password string) (bool, error)
}

// TokenIssuer mints signed access tokens. *auth.Issuer satisfies it.
type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
}

// AuthHandler bundles dependencies for the signup, login and whoami
// endpoints. It holds no per-request state of its own.
type AuthHandler struct {
	Cfg    config.Config
	Users  CredentialStore
	Tokens TokenIssuer
}

func NewAuthHandler(cfg config.Config, u CredentialStore, t TokenIssuer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup creates an account. The response carries only a confirmation
// message; neither the password nor its digest is ever echoed back.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Create(ctx, req.Username, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrUsernameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User " + req.Username + " registered successfully"})
}

// Login verifies credentials and returns a bearer token. An unknown
// username and a wrong password produce byte-identical 401 responses so
// the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Users.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	token, _, err := h.Tokens.Issue(req.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{AccessToken: token, TokenType: "bearer"})
}

// Whoami returns the username bound to the presented token. It runs
// behind BearerAuth, which has already validated the token.
func (h *AuthHandler) Whoami(c echo.Context) error {
	username := middleware.Username(c)
	if username == "" {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "missing identity"})
	}
	return c.JSON(http.StatusOK, echo.Map{"username": username})
}
