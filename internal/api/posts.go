package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerhub/cheerhub/internal/engagement"
)

// FeedAPI serves the viewer's activity feed
type FeedAPI struct {
	feed *engagement.Feed
}

// NewFeedAPI creates a new feed API handler
func NewFeedAPI(feed *engagement.Feed) *FeedAPI {
	return &FeedAPI{feed: feed}
}

// Page handles GET /api/posts
func (a *FeedAPI) Page(c *gin.Context) {
	page, err := a.feed.Page(c.Request.Context(), viewerFrom(c), queryInt64(c, "cursor"), queryInt(c, "limit"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// PostAPI serves single posts and post creation
type PostAPI struct {
	posts *engagement.Posts
}

// NewPostAPI creates a new post API handler
func NewPostAPI(posts *engagement.Posts) *PostAPI {
	return &PostAPI{posts: posts}
}

type createPostRequest struct {
	Content string   `json:"content"`
	Media   []string `json:"media"`
	TeamID  *int64   `json:"teamId"`
}

// Create handles POST /api/posts
func (a *PostAPI) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := a.posts.Create(c.Request.Context(), viewerFrom(c), req.Content, req.Media, req.TeamID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Get handles GET /api/posts/:id
func (a *PostAPI) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := a.posts.Get(c.Request.Context(), viewerFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
