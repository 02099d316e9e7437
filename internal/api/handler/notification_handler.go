package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
	"github.com/certtrack/certification-system/internal/infrastructure/queue"
)

type NotificationHandler struct {
	notifications ports.NotificationService
	dispatcher    *queue.Dispatcher
	log           zerolog.Logger
}

func NewNotificationHandler(notifications ports.NotificationService, dispatcher *queue.Dispatcher, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, dispatcher: dispatcher, log: log}
}

// List returns the authenticated user's notifications, regenerating expiry
// notices first. The filter query param accepts "all", "unread", or a
// notification type.
func (h *NotificationHandler) List(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	filter := c.QueryParam("filter")
	if filter == "" {
		filter = "all"
	}

	notices, err := h.notifications.ListForUser(c.Request().Context(), username, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notices)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkRead(c.Request().Context(), username, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(c.Request().Context(), username, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) ClearAll(c echo.Context) error {
	username, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.notifications.ClearAll(c.Request().Context(), username); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) Preferences(c echo.Context) error {
	prefs, err := h.notifications.Preferences(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, prefs)
}

type preferencesRequest struct {
	Expired      bool `json:"expired"`
	ExpiringSoon bool `json:"expiringSoon"`
}

func (h *NotificationHandler) SavePreferences(c echo.Context) error {
	var req preferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	prefs := domain.NotificationPreferences{Expired: req.Expired, ExpiringSoon: req.ExpiringSoon}
	if err := h.notifications.SavePreferences(c.Request().Context(), prefs); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, prefs)
}

type broadcastRequest struct {
	Title      string   `json:"title" validate:"required"`
	Message    string   `json:"message" validate:"required"`
	Recipients []string `json:"recipients"`
	SendToAll  bool     `json:"sendToAll"`
}

// Broadcast records an admin message and fans delivery out to each
// recipient's notification list through the dispatcher. Admin only.
func (h *NotificationHandler) Broadcast(c echo.Context) error {
	admin, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req broadcastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.notifications.Broadcast(c.Request().Context(), ports.BroadcastInput{
		Title:      req.Title,
		Message:    req.Message,
		SendBy:     admin,
		Recipients: req.Recipients,
		SendToAll:  req.SendToAll,
	})
	if err != nil {
		return err
	}

	deliveries := make([]queue.Delivery, 0, len(record.Recipients))
	for _, recipient := range record.Recipients {
		deliveries = append(deliveries, queue.Delivery{
			Username: recipient,
			Notice: domain.Notification{
				ID:        record.ID,
				Type:      domain.NotificationAdminMessage,
				Title:     "📢 " + record.Title,
				Message:   record.Message,
				Timestamp: record.SentAt,
				SendBy:    record.SendBy,
			},
		})
	}
	h.dispatcher.EnqueueBatch(deliveries)

	return c.JSON(http.StatusCreated, record)
}

// ListBroadcasts returns the broadcast history. Admin only.
func (h *NotificationHandler) ListBroadcasts(c echo.Context) error {
	records, err := h.notifications.ListBroadcasts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, records)
}

// DeleteBroadcast removes one entry from the broadcast history. Admin only.
func (h *NotificationHandler) DeleteBroadcast(c echo.Context) error {
	if err := h.notifications.DeleteBroadcast(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
