package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
)

// importBodyLimit caps uploaded user-import files at 10 MiB.
const importBodyLimit = 10 << 20

type AdminHandler struct {
	admin ports.AdminService
	audit ports.AuditService
	log   zerolog.Logger
}

func NewAdminHandler(admin ports.AdminService, audit ports.AuditService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, audit: audit, log: log}
}

type adminUserView struct {
	Username       string `json:"username"`
	Role           string `json:"role"`
	Nickname       string `json:"nickname,omitempty"`
	Certifications int    `json:"certifications"`
	CreatedDate    string `json:"createdDate,omitempty"`
}

// ListUsers returns every account without password hashes or certificates.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.admin.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	views := make([]adminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, adminUserView{
			Username:       u.Username,
			Role:           u.Role,
			Nickname:       u.Nickname,
			Certifications: len(u.Certifications),
			CreatedDate:    u.CreatedDate,
		})
	}

	return c.JSON(http.StatusOK, views)
}

// DeleteUser removes an account and its notifications.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.admin.DeleteUser(c.Request().Context(), admin, c.Param("username")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleRole flips an account between user and admin.
func (h *AdminHandler) ToggleRole(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	role, err := h.admin.ToggleRole(c.Request().Context(), admin, c.Param("username"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"role": role})
}

// ExportUsers downloads the user list as an indented JSON document.
func (h *AdminHandler) ExportUsers(c echo.Context) error {
	data, err := h.admin.ExportUsers(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="users.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// ImportUsers merges an uploaded user list into the store. The body is the
// raw JSON document previously produced by export, or a compatible list.
func (h *AdminHandler) ImportUsers(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(io.LimitReader(c.Request().Body, importBodyLimit))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}

	count, err := h.admin.ImportUsers(c.Request().Context(), admin, data)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int{"imported": count})
}

// Stats returns counts for the admin settings overview.
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) GetConfig(c echo.Context) error {
	cfg, err := h.admin.GetConfig(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cfg)
}

type systemConfigRequest struct {
	ExpiryWarningDays         int    `json:"expiryWarningDays" validate:"required,min=1,max=365"`
	ExpiryAlertEnabled        bool   `json:"expiryAlertEnabled"`
	EmailNotificationsEnabled bool   `json:"emailNotificationsEnabled"`
	AutoRenewReminders        bool   `json:"autoRenewReminders"`
	MaxLoginAttempts          int    `json:"maxLoginAttempts" validate:"required,min=1"`
	SessionTimeoutMinutes     int    `json:"sessionTimeoutMinutes" validate:"required,min=1"`
	BackupFrequency           string `json:"backupFrequency" validate:"required,oneof=daily weekly monthly"`
}

func (h *AdminHandler) SaveConfig(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req systemConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cfg := domain.SystemConfig{
		ExpiryWarningDays:         req.ExpiryWarningDays,
		ExpiryAlertEnabled:        req.ExpiryAlertEnabled,
		EmailNotificationsEnabled: req.EmailNotificationsEnabled,
		AutoRenewReminders:        req.AutoRenewReminders,
		MaxLoginAttempts:          req.MaxLoginAttempts,
		SessionTimeoutMinutes:     req.SessionTimeoutMinutes,
		BackupFrequency:           req.BackupFrequency,
	}
	if err := h.admin.SaveConfig(c.Request().Context(), admin, cfg); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cfg)
}

func (h *AdminHandler) ResetConfig(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	cfg, err := h.admin.ResetConfig(c.Request().Context(), admin)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cfg)
}

// Analytics returns status distribution, category breakdown, user
// engagement, and compliance metrics.
func (h *AdminHandler) Analytics(c echo.Context) error {
	report, err := h.admin.Analytics(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, report)
}

// ExportAnalytics downloads the analytics report as a JSON attachment.
func (h *AdminHandler) ExportAnalytics(c echo.Context) error {
	report, err := h.admin.Analytics(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="analytics-report.json"`)
	return c.JSONPretty(http.StatusOK, report, "  ")
}

// Backup bundles users, certifications, broadcasts, audit logs, and config
// into a single downloadable document and records the backup time.
func (h *AdminHandler) Backup(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	data, err := h.admin.Backup(c.Request().Context(), admin)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="backup.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// AuditLog returns the full activity log, optionally filtered by username.
func (h *AdminHandler) AuditLog(c echo.Context) error {
	username := c.QueryParam("username")

	var (
		entries []domain.AuditActivity
		err     error
	)
	if username != "" {
		entries, err = h.audit.ListForUser(c.Request().Context(), username)
	} else {
		entries, err = h.audit.ListAll(c.Request().Context())
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}
