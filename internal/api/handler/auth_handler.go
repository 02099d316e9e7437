package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

type AuthHandler struct {
	auth  ports.AuthService
	audit ports.AuditService
	log   zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, audit ports.AuditService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, audit: audit, log: log}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	Nickname    string `json:"nickname,omitempty"`
	Image       string `json:"image,omitempty"`
	CreatedDate string `json:"createdDate,omitempty"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		Username:    u.Username,
		Role:        u.Role,
		Nickname:    u.Nickname,
		Image:       u.Image,
		CreatedDate: u.CreatedDate,
	}
}

// Register creates a new account with the user role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and issues a signed token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

// Profile returns the authenticated user's account.
func (h *AuthHandler) Profile(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.auth.Profile(c.Request().Context(), username)
	if err != nil {
		return err
	}

	resp := struct {
		userResponse
		Certifications int `json:"certifications"`
	}{toUserResponse(user), len(user.Certifications)}

	return c.JSON(http.StatusOK, resp)
}

type nicknameRequest struct {
	Nickname string `json:"nickname"`
}

func (h *AuthHandler) UpdateNickname(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req nicknameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.UpdateNickname(c.Request().Context(), username, req.Nickname); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"nickname": req.Nickname})
}

type imageRequest struct {
	Image string `json:"image" validate:"required"`
}

func (h *AuthHandler) UpdateImage(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req imageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.auth.UpdateImage(c.Request().Context(), username, req.Image); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

type passwordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.auth.ChangePassword(c.Request().Context(), username, req.NewPassword); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Activity lists the authenticated user's own audit trail.
func (h *AuthHandler) Activity(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	entries, err := h.audit.ListForUser(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}
