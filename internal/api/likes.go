package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerhub/cheerhub/internal/engagement"
)

// LikeAPI serves like toggles for posts and comments
type LikeAPI struct {
	counters *engagement.Counters
}

// NewLikeAPI creates a new like API handler
func NewLikeAPI(counters *engagement.Counters) *LikeAPI {
	return &LikeAPI{counters: counters}
}

// LikePost handles POST /api/posts/:id/like
func (a *LikeAPI) LikePost(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.counters.LikePost(c.Request.Context(), viewerFrom(c), postID); err != nil {
		handleError(c, err)
		return
	}
	a.postCounts(c, postID, http.StatusCreated)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (a *LikeAPI) UnlikePost(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.counters.UnlikePost(c.Request.Context(), viewerFrom(c), postID); err != nil {
		handleError(c, err)
		return
	}
	a.postCounts(c, postID, http.StatusOK)
}

// LikeComment handles POST /api/comments/:id/like
func (a *LikeAPI) LikeComment(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.counters.LikeComment(c.Request.Context(), viewerFrom(c), commentID); err != nil {
		handleError(c, err)
		return
	}
	a.commentCounts(c, commentID, http.StatusCreated)
}

// UnlikeComment handles DELETE /api/comments/:id/like
func (a *LikeAPI) UnlikeComment(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.counters.UnlikeComment(c.Request.Context(), viewerFrom(c), commentID); err != nil {
		handleError(c, err)
		return
	}
	a.commentCounts(c, commentID, http.StatusOK)
}

// Toggle responses carry the fresh counts so clients need no follow-up
// fetch
func (a *LikeAPI) postCounts(c *gin.Context, postID int64, status int) {
	counts, err := a.counters.ForPost(c.Request.Context(), postID, viewerFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(status, counts)
}

func (a *LikeAPI) commentCounts(c *gin.Context, commentID int64, status int) {
	counts, err := a.counters.ForComment(c.Request.Context(), commentID, viewerFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(status, counts)
}
