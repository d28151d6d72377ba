package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/engagement"
	"github.com/cheerhub/cheerhub/internal/models"
	"github.com/cheerhub/cheerhub/internal/session"
)

// AuthAPI handles registration, login and account settings
type AuthAPI struct {
	repo       *db.Repository
	sessions   *session.Store
	bcryptCost int
}

// NewAuthAPI creates a new auth API handler
func NewAuthAPI(repo *db.Repository, sessions *session.Store, bcryptCost int) *AuthAPI {
	return &AuthAPI{repo: repo, sessions: sessions, bcryptCost: bcryptCost}
}

type registerRequest struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// userView is the account owner's own profile shape, settings included
type userView struct {
	ID            int64           `json:"id"`
	Handle        string          `json:"handle"`
	DisplayName   string          `json:"displayName"`
	Visibility    string          `json:"visibility"`
	Notifications map[string]bool `json:"notifications"`
}

// Register creates an account and opens a session
func (a *AuthAPI) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	req.Handle = strings.TrimSpace(strings.ToLower(req.Handle))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Handle == "" || len(req.Handle) > 32 {
		badRequest(c, "handle must be 1-32 characters")
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Handle
	}
	if len(req.Password) < 8 {
		badRequest(c, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.bcryptCost)
	if err != nil {
		handleError(c, err)
		return
	}

	user := &models.User{
		Handle:                     req.Handle,
		DisplayName:                req.DisplayName,
		PasswordHash:               string(hash),
		CreatedAt:                  time.Now().UTC(),
		NotifyOnLike:               true,
		NotifyOnComment:            true,
		NotifyOnReply:              true,
		NotifyOnConnectionRequest:  true,
		NotifyOnConnectionAccepted: true,
		NotifyOnMessage:            true,
		NotifyOnRepost:             true,
		NotifyOnTeamInvite:         true,
	}
	if err := db.NewUserRepository(a.repo).Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			badRequest(c, "handle already taken")
			return
		}
		handleError(c, err)
		return
	}

	token, err := a.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  renderUser(user),
	})
}

// Login verifies credentials and opens a session
func (a *AuthAPI) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := db.NewUserRepository(a.repo).GetByHandle(c.Request.Context(), strings.TrimSpace(strings.ToLower(req.Handle)))
	if err != nil {
		handleError(c, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := a.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  renderUser(user),
	})
}

// Logout revokes the presented token
func (a *AuthAPI) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		if err := a.sessions.Delete(c.Request.Context(), token); err != nil {
			handleError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user's own profile
func (a *AuthAPI) Me(c *gin.Context) {
	viewer := viewerFrom(c)
	user, err := db.NewUserRepository(a.repo).GetByID(c.Request.Context(), viewer.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	if user == nil {
		handleError(c, engagement.ErrUserNotFound)
		return
	}
	c.JSON(http.StatusOK, renderUser(user))
}

type settingsRequest struct {
	DisplayName                *string `json:"displayName"`
	Visibility                 *string `json:"visibility"`
	NotifyOnLike               *bool   `json:"notifyOnLike"`
	NotifyOnComment            *bool   `json:"notifyOnComment"`
	NotifyOnReply              *bool   `json:"notifyOnReply"`
	NotifyOnConnectionRequest  *bool   `json:"notifyOnConnectionRequest"`
	NotifyOnConnectionAccepted *bool   `json:"notifyOnConnectionAccepted"`
	NotifyOnMessage            *bool   `json:"notifyOnMessage"`
	NotifyOnRepost             *bool   `json:"notifyOnRepost"`
	NotifyOnTeamInvite         *bool   `json:"notifyOnTeamInvite"`
}

// UpdateSettings patches profile and notification preferences; absent
// fields are untouched
func (a *AuthAPI) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	users := db.NewUserRepository(a.repo)
	user, err := users.GetByID(c.Request.Context(), viewerFrom(c).UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	if user == nil {
		handleError(c, engagement.ErrUserNotFound)
		return
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			badRequest(c, "displayName must not be empty")
			return
		}
		user.DisplayName = name
	}
	if req.Visibility != nil {
		switch *req.Visibility {
		case "public":
			user.Visibility = models.VisibilityPublic
		case "connections":
			user.Visibility = models.VisibilityConnections
		default:
			badRequest(c, "visibility must be public or connections")
			return
		}
	}
	applyFlag(&user.NotifyOnLike, req.NotifyOnLike)
	applyFlag(&user.NotifyOnComment, req.NotifyOnComment)
	applyFlag(&user.NotifyOnReply, req.NotifyOnReply)
	applyFlag(&user.NotifyOnConnectionRequest, req.NotifyOnConnectionRequest)
	applyFlag(&user.NotifyOnConnectionAccepted, req.NotifyOnConnectionAccepted)
	applyFlag(&user.NotifyOnMessage, req.NotifyOnMessage)
	applyFlag(&user.NotifyOnRepost, req.NotifyOnRepost)
	applyFlag(&user.NotifyOnTeamInvite, req.NotifyOnTeamInvite)

	if err := users.Update(c.Request.Context(), user); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderUser(user))
}

func applyFlag(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func renderUser(user *models.User) userView {
	visibility := "public"
	if user.Visibility == models.VisibilityConnections {
		visibility = "connections"
	}
	return userView{
		ID:          user.ID,
		Handle:      user.Handle,
		DisplayName: user.DisplayName,
		Visibility:  visibility,
		Notifications: map[string]bool{
			"like":               user.NotifyOnLike,
			"comment":            user.NotifyOnComment,
			"reply":              user.NotifyOnReply,
			"connectionRequest":  user.NotifyOnConnectionRequest,
			"connectionAccepted": user.NotifyOnConnectionAccepted,
			"message":            user.NotifyOnMessage,
			"repost":             user.NotifyOnRepost,
			"teamInvite":         user.NotifyOnTeamInvite,
		},
	}
}
