package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/ports"
)

type CertificationHandler struct {
	certs ports.CertificationService
	log   zerolog.Logger
}

func NewCertificationHandler(certs ports.CertificationService, log zerolog.Logger) *CertificationHandler {
	return &CertificationHandler{certs: certs, log: log}
}

type fileRequest struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

type addCertificationRequest struct {
	Name         string      `json:"name" validate:"required"`
	Organization string      `json:"organization" validate:"required"`
	IssueDate    string      `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate   string      `json:"expiryDate" validate:"required,datetime=2006-01-02"`
	Category     string      `json:"category"`
	File         fileRequest `json:"file"`
}

type updateCertificationRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	IssueDate    string `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate   string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	Category     string `json:"category"`
}

// Add registers a new certification for the authenticated user.
func (h *CertificationHandler) Add(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addCertificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cert, err := h.certs.Add(c.Request().Context(), ports.AddCertificationInput{
		Username:     username,
		Name:         req.Name,
		Organization: req.Organization,
		IssueDate:    req.IssueDate,
		ExpiryDate:   req.ExpiryDate,
		Category:     req.Category,
		File:         ports.FileInput{Name: req.File.Name, Data: req.File.Data},
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, cert)
}

// List returns the authenticated user's certifications with classifications.
func (h *CertificationHandler) List(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	views, err := h.certs.ListMine(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, views)
}

// Stats returns the dashboard counters for the authenticated user.
func (h *CertificationHandler) Stats(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.certs.Stats(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *CertificationHandler) Get(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.certs.Get(c.Request().Context(), username, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CertificationHandler) Update(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateCertificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.certs.Update(c.Request().Context(), username, c.Param("id"), ports.UpdateCertificationInput{
		Name:         req.Name,
		Organization: req.Organization,
		IssueDate:    req.IssueDate,
		ExpiryDate:   req.ExpiryDate,
		Category:     req.Category,
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

type categoryRequest struct {
	Category string `json:"category"`
}

func (h *CertificationHandler) UpdateCategory(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.certs.UpdateCategory(c.Request().Context(), username, c.Param("id"), req.Category); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CertificationHandler) Delete(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.certs.Delete(c.Request().Context(), username, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// BulkDelete removes several certifications at once and reports how many
// were actually deleted.
func (h *CertificationHandler) BulkDelete(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req bulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	deleted, err := h.certs.BulkDelete(c.Request().Context(), username, req.IDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int{"deleted": deleted})
}

func listAllFilter(c echo.Context) ports.ListAllFilter {
	return ports.ListAllFilter{
		Status:   c.QueryParam("status"),
		Username: c.QueryParam("username"),
		Search:   c.QueryParam("search"),
	}
}

// ListAll returns every user's certifications, optionally filtered. Admin only.
func (h *CertificationHandler) ListAll(c echo.Context) error {
	views, err := h.certs.ListAll(c.Request().Context(), listAllFilter(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, views)
}

// DeleteForUser removes a certification from any user's account. Admin only.
func (h *CertificationHandler) DeleteForUser(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.certs.DeleteForUser(c.Request().Context(), admin, c.Param("username"), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ExportCSV streams the filtered admin certification listing as CSV.
func (h *CertificationHandler) ExportCSV(c echo.Context) error {
	data, err := h.certs.ExportCSV(c.Request().Context(), listAllFilter(c))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="certifications.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
