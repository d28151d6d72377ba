package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerhub/cheerhub/internal/engagement"
)

// CommentAPI serves the comment thread surface
type CommentAPI struct {
	threads *engagement.Threads
}

// NewCommentAPI creates a new comment API handler
func NewCommentAPI(threads *engagement.Threads) *CommentAPI {
	return &CommentAPI{threads: threads}
}

// List handles GET /api/posts/:id/comments
func (a *CommentAPI) List(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	sort := c.DefaultQuery("sort", engagement.SortRecent)
	if sort != engagement.SortRecent && sort != engagement.SortPopular {
		badRequest(c, "sort must be recent or popular")
		return
	}

	page, err := a.threads.List(c.Request.Context(), viewerFrom(c), postID, sort, queryInt64(c, "cursor"), queryInt(c, "limit"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parentId"`
}

// Create handles POST /api/posts/:id/comments
func (a *CommentAPI) Create(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := a.threads.Create(c.Request.Context(), viewerFrom(c), postID, req.Content, req.ParentID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// Update handles PATCH /api/comments/:id
func (a *CommentAPI) Update(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := a.threads.Update(c.Request.Context(), viewerFrom(c), commentID, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /api/comments/:id
func (a *CommentAPI) Delete(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.threads.Delete(c.Request.Context(), viewerFrom(c), commentID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Replies handles GET /api/comments/:id/replies
func (a *CommentAPI) Replies(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}
	replies, err := a.threads.Replies(c.Request.Context(), viewerFrom(c), commentID, queryInt(c, "offset"), queryInt(c, "limit"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}
