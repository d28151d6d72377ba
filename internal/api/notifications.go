package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerhub/cheerhub/internal/engagement"
)

// NotificationAPI serves the notification inbox
type NotificationAPI struct {
	notifier *engagement.Notifier
}

// NewNotificationAPI creates a new notification API handler
func NewNotificationAPI(notifier *engagement.Notifier) *NotificationAPI {
	return &NotificationAPI{notifier: notifier}
}

// List handles GET /api/notifications. The `after` query parameter
// turns the listing into a changes-since pull for polling clients.
func (a *NotificationAPI) List(c *gin.Context) {
	views, err := a.notifier.List(c.Request.Context(), viewerFrom(c), queryInt64(c, "after"), queryInt(c, "limit"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": views})
}

// Count handles GET /api/notifications/count
func (a *NotificationAPI) Count(c *gin.Context) {
	count, err := a.notifier.UnreadCount(c.Request.Context(), viewerFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

type markReadRequest struct {
	IDs []int64 `json:"ids"`
	All bool    `json:"all"`
}

// MarkRead handles PATCH /api/notifications
func (a *NotificationAPI) MarkRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !req.All && len(req.IDs) == 0 {
		badRequest(c, "ids or all is required")
		return
	}

	viewer := viewerFrom(c)
	var err error
	if req.All {
		err = a.notifier.MarkAllRead(c.Request.Context(), viewer)
	} else {
		err = a.notifier.MarkRead(c.Request.Context(), viewer, req.IDs)
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
