package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerhub/cheerhub/internal/engagement"
)

// RepostAPI serves repost creation and removal
type RepostAPI struct {
	reposts *engagement.Reposts
}

// NewRepostAPI creates a new repost API handler
func NewRepostAPI(reposts *engagement.Reposts) *RepostAPI {
	return &RepostAPI{reposts: reposts}
}

// Create handles POST /api/posts/:id/repost
func (a *RepostAPI) Create(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}
	view, err := a.reposts.Create(c.Request.Context(), viewerFrom(c), postID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Delete handles DELETE /api/posts/:id/repost
func (a *RepostAPI) Delete(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.reposts.Delete(c.Request.Context(), viewerFrom(c), postID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
