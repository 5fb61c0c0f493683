package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/middleware/auth"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

// Register godoc
// @Summary  Register a user
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body transport.RegisterRequest true "new user"
// @Success  201 {object} RegisterResponse
// @Failure  422 {object} ValidationResponse
// @Router   /auth/register [post]
func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 422, "reason", "invalid body", "error", err)
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("register_error", "status", 422, "reason", "validation failed", "error", err)
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			l.Warn("register_error", "status", 422, "reason", "email taken")
			return FieldError("email", "The email has already been taken.")
		}
		l.Error("register_error", "status", 422, "reason", "cannot create user", "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message": "Registration failed.",
			"error":   err.Error(),
		})
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User Registered Successfully",
		"data":    transport.NewRegisteredUser(user),
		"status":  http.StatusCreated,
	})
}

// Login godoc
// @Summary  Log in and receive a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body transport.LoginRequest true "credentials"
// @Success  200 {object} TokenResponse
// @Failure  401 {object} MessageResponse
// @Failure  422 {object} ValidationResponse
// @Router   /auth/login [post]
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 422, "reason", "invalid body", "error", err)
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 422, "reason", "validation failed", "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return auth.ErrUnauthenticated
		}
		l.Error("login_failed", "status", 401, "reason", "cannot issue token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
			"message": "Login failed",
			"error":   err.Error(),
		})
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   res.ExpiresIn,
		User:        res.User,
	})
}

// Me godoc
// @Summary   Current user
// @Tags      auth
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} UserResponse
// @Failure   401 {object} MessageResponse
// @Router    /auth/me [get]
func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return auth.ErrUnauthenticated
	}

	user, err := h.Svc.Me(ctx, claims)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("me_error", "status", 401, "reason", "user no longer exists", "error", err)
			return auth.ErrUnauthenticated
		}
		l.Error("me_error", "status", 500, "reason", "cannot load user", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Logout godoc
// @Summary   Revoke the current token
// @Tags      auth
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} MessageResponse
// @Failure   401 {object} MessageResponse
// @Failure   500 {object} MessageResponse
// @Router    /auth/logout [post]
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return auth.ErrUnauthenticated
	}

	if err := h.Svc.Logout(ctx, claims); err != nil {
		l.Error("logout_error", "status", 500, "reason", "cannot revoke token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to logout, token invalid")
	}

	l.Info("logout_success", "jti", claims.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "User Logged Out"})
}
