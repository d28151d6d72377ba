package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerhub/cheerhub/internal/engagement"
)

// MessageAPI serves direct messaging
type MessageAPI struct {
	messenger *engagement.Messenger
}

// NewMessageAPI creates a new message API handler
func NewMessageAPI(messenger *engagement.Messenger) *MessageAPI {
	return &MessageAPI{messenger: messenger}
}

type sendMessageRequest struct {
	RecipientID int64  `json:"recipientId"`
	Body        string `json:"body"`
}

// Send handles POST /api/messages
func (a *MessageAPI) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipientID <= 0 {
		badRequest(c, "recipientId is required")
		return
	}

	view, err := a.messenger.Send(c.Request.Context(), viewerFrom(c), req.RecipientID, req.Body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Conversations handles GET /api/conversations
func (a *MessageAPI) Conversations(c *gin.Context) {
	views, err := a.messenger.Conversations(c.Request.Context(), viewerFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": views})
}

// Messages handles GET /api/conversations/:id/messages
func (a *MessageAPI) Messages(c *gin.Context) {
	conversationID, ok := pathID(c)
	if !ok {
		return
	}
	page, err := a.messenger.Messages(c.Request.Context(), viewerFrom(c), conversationID, queryInt64(c, "cursor"), queryInt(c, "limit"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
