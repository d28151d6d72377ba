package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cheerhub/cheerhub/internal/engagement"
)

// ConnectionAPI serves the connection graph
type ConnectionAPI struct {
	graph *engagement.Graph
}

// NewConnectionAPI creates a new connection API handler
func NewConnectionAPI(graph *engagement.Graph) *ConnectionAPI {
	return &ConnectionAPI{graph: graph}
}

type connectionRequest struct {
	UserID int64 `json:"userId"`
}

// Request handles POST /api/connections
func (a *ConnectionAPI) Request(c *gin.Context) {
	var req connectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID <= 0 {
		badRequest(c, "userId is required")
		return
	}

	view, err := a.graph.Request(c.Request.Context(), viewerFrom(c), req.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

type respondRequest struct {
	Accept *bool `json:"accept"`
}

// Respond handles PATCH /api/connections/:id
func (a *ConnectionAPI) Respond(c *gin.Context) {
	connectionID, ok := pathID(c)
	if !ok {
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Accept == nil {
		badRequest(c, "accept is required")
		return
	}

	view, err := a.graph.Respond(c.Request.Context(), viewerFrom(c), connectionID, *req.Accept)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// List handles GET /api/connections
func (a *ConnectionAPI) List(c *gin.Context) {
	views, err := a.graph.List(c.Request.Context(), viewerFrom(c), c.Query("status"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": views})
}

// TeamAPI serves team follows and invites
type TeamAPI struct {
	graph *engagement.Graph
}

// NewTeamAPI creates a new team API handler
func NewTeamAPI(graph *engagement.Graph) *TeamAPI {
	return &TeamAPI{graph: graph}
}

// Follow handles POST /api/teams/:id/follow
func (a *TeamAPI) Follow(c *gin.Context) {
	teamID, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.graph.FollowTeam(c.Request.Context(), viewerFrom(c), teamID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Unfollow handles DELETE /api/teams/:id/follow
func (a *TeamAPI) Unfollow(c *gin.Context) {
	teamID, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.graph.UnfollowTeam(c.Request.Context(), viewerFrom(c), teamID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type inviteRequest struct {
	UserID int64 `json:"userId"`
}

// Invite handles POST /api/teams/:id/invite
func (a *TeamAPI) Invite(c *gin.Context) {
	teamID, ok := pathID(c)
	if !ok {
		return
	}

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID <= 0 {
		badRequest(c, "userId is required")
		return
	}

	if err := a.graph.InviteToTeam(c.Request.Context(), viewerFrom(c), teamID, req.UserID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
