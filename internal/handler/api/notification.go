package api

import (
	"net/http"

	resdto "mention-relay/internal/handler/dto/response"
	"mention-relay/internal/handler/httperr"
	"mention-relay/internal/handler/middleware"
	"mention-relay/internal/usecase/commands"
	"mention-relay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	cmds commands.NotificationCommands
	q    queries.NotificationQueries
}

func NewNotificationHandler(cmds commands.NotificationCommands, q queries.NotificationQueries) *NotificationHandler {
	return &NotificationHandler{cmds: cmds, q: q}
}

// @Summary List notifications
// @Description List the authenticated user's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.NotificationResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingIdentity, "Unauthorized", nil)
		return
	}

	items, err := h.q.ListByRecipient(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load notifications", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": resdto.FromNotificationList(items)})
}

// @Summary Unread notification count
// @Description Count of the authenticated user's unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.UnreadCountResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingIdentity, "Unauthorized", nil)
		return
	}

	count, err := h.q.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to count notifications", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.UnreadCountResponse{Count: count})
}

// @Summary Mark notification read
// @Description Mark one of the authenticated user's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} resdto.AffectedCountResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingIdentity, "Unauthorized", nil)
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	affected, err := h.cmds.MarkRead(c.Request.Context(), notificationID, userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to mark notification read", nil)
		return
	}
	// Zero affected covers missing, someone else's, and already-read rows
	// alike: all map to 404 so existence of other users' rows never leaks.
	if affected == 0 {
		httperr.AbortWithError(c, http.StatusNotFound, errNotActionable, "Not found", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.AffectedCountResponse{Affected: affected})
}

// @Summary Mark all notifications read
// @Description Mark every unread notification of the authenticated user as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.AffectedCountResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingIdentity, "Unauthorized", nil)
		return
	}

	affected, err := h.cmds.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to mark notifications read", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.AffectedCountResponse{Affected: affected})
}
