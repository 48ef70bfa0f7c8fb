package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/atomconnect/atom-connect-api/internal/api/middleware"
	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// OAuthProvider abstracts the upstream OAuth flow (Google).
type OAuthProvider interface {
	AuthCodeURL(state string) string
	// Identity exchanges the callback code and returns the asserted
	// email and display name.
	Identity(ctx context.Context, code string) (email, name string, err error)
}

// StateStore holds single-use OAuth state nonces (Redis).
type StateStore interface {
	Put(ctx context.Context, state string) error
	// Take consumes the state and reports whether it existed.
	Take(ctx context.Context, state string) (bool, error)
}

// AuthHandler handles registration, sign-in, the OAuth flow, and password
// maintenance.
type AuthHandler struct {
	authService ports.AuthService
	oauth       OAuthProvider // nil when OAuth is not configured
	states      StateStore
	tokenTTLSec int
}

func NewAuthHandler(authService ports.AuthService, oauth OAuthProvider, states StateStore, tokenTTLSec int) *AuthHandler {
	return &AuthHandler{authService: authService, oauth: oauth, states: states, tokenTTLSec: tokenTTLSec}
}

type registerRequest struct {
	Name        string `json:"name"     validate:"required,min=2"`
	Email       string `json:"email"    validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role"     validate:"required,oneof=FREELANCER ORGANIZATION"`
	CompanyName string `json:"company_name,omitempty"`
	Website     string `json:"website,omitempty"`
	Location    string `json:"location,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password"     validate:"required,min=8"`
	Confirm string `json:"confirm_password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a freelancer or organization account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		Role:        domain.Role(req.Role),
		CompanyName: req.CompanyName,
		Website:     req.Website,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates credentials and returns a session token. The token
// is also set as a cookie for browser navigations through the gatekeeper.
//
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// ChangePassword rotates the caller's password.
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Password change"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), actor, ports.ChangePasswordInput{
		Current: req.Current,
		New:     req.New,
		Confirm: req.Confirm,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "password changed"})
}

// OAuthRedirect starts the Google sign-in flow.
//
// @Summary      Begin OAuth sign-in
// @Tags         auth
// @Success      302
// @Failure      503  {object}  errorResponse
// @Router       /auth/oauth/google [get]
func (h *AuthHandler) OAuthRedirect(c echo.Context) error {
	if h.oauth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "oauth is not configured")
	}

	state := uuid.NewString()
	if err := h.states.Put(c.Request().Context(), state); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// OAuthCallback completes the Google sign-in flow. The state nonce is
// single-use; a replayed or forged callback is rejected before the code
// exchange.
//
// @Summary      OAuth provider callback
// @Tags         auth
// @Produce      json
// @Param        state  query     string  true  "State nonce"
// @Param        code   query     string  true  "Authorization code"
// @Success      200    {object}  authResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /auth/oauth/google/callback [get]
func (h *AuthHandler) OAuthCallback(c echo.Context) error {
	if h.oauth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "oauth is not configured")
	}

	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing state or code")
	}

	ok, err := h.states.Take(c.Request().Context(), state)
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown or expired oauth state")
	}

	email, name, err := h.oauth.Identity(c.Request().Context(), code)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "oauth exchange failed")
	}

	token, user, err := h.authService.OAuthLogin(c.Request().Context(), ports.OAuthInput{Email: email, Name: name})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   h.tokenTTLSec,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
