package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/ports"
)

type RenewalHandler struct {
	renewals ports.RenewalService
	log      zerolog.Logger
}

func NewRenewalHandler(renewals ports.RenewalService, log zerolog.Logger) *RenewalHandler {
	return &RenewalHandler{renewals: renewals, log: log}
}

type renewalRequest struct {
	NewExpiryDate string       `json:"newExpiryDate" validate:"required,datetime=2006-01-02"`
	Notes         string       `json:"notes"`
	NewFile       *fileRequest `json:"newFile"`
}

// Request marks one of the authenticated user's certifications as pending
// renewal. The current expiry date and file stay in effect until an admin
// approves.
func (h *RenewalHandler) Request(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req renewalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.RenewalRequestInput{
		Username:        username,
		CertificationID: c.Param("id"),
		NewExpiryDate:   req.NewExpiryDate,
		Notes:           req.Notes,
	}
	if req.NewFile != nil {
		input.NewFile = &ports.FileInput{Name: req.NewFile.Name, Data: req.NewFile.Data}
	}

	if err := h.renewals.Request(c.Request().Context(), input); err != nil {
		return err
	}

	return c.NoContent(http.StatusAccepted)
}

// ListPending returns every user's pending renewal requests. Admin only.
func (h *RenewalHandler) ListPending(c echo.Context) error {
	pending, err := h.renewals.ListPending(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pending)
}

// Approve applies the proposed expiry date and file. Admin only.
func (h *RenewalHandler) Approve(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.renewals.Approve(c.Request().Context(), admin, c.Param("username"), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Reject discards the proposal, leaving the current record untouched. Admin only.
func (h *RenewalHandler) Reject(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.renewals.Reject(c.Request().Context(), admin, c.Param("username"), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
