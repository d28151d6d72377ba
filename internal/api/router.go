package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cheerhub/cheerhub/internal/cache"
	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/engagement"
	"github.com/cheerhub/cheerhub/internal/session"
	"github.com/cheerhub/cheerhub/pkg/config"
	"github.com/cheerhub/cheerhub/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db       *db.DB
	cache    *cache.Cache
	sessions *session.Store
	cfg      *config.Config
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, sessions *session.Store, cfg *config.Config) *Router {
	return &Router{
		db:       database,
		cache:    redisCache,
		sessions: sessions,
		cfg:      cfg,
		logger:   logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	gdb := r.db.DB
	repo := db.NewRepository(gdb)

	notifier := engagement.NewNotifier(gdb)
	counters := engagement.NewCounters(gdb, notifier)
	posts := engagement.NewPosts(gdb, counters)
	threads := engagement.NewThreads(gdb, notifier)
	feed := engagement.NewFeed(gdb, posts)
	reposts := engagement.NewReposts(gdb, posts, notifier)
	graph := engagement.NewGraph(gdb, notifier)
	messenger := engagement.NewMessenger(gdb, notifier)

	authAPI := NewAuthAPI(repo, r.sessions, r.cfg.Auth.BcryptCost)
	feedAPI := NewFeedAPI(feed)
	postAPI := NewPostAPI(posts)
	commentAPI := NewCommentAPI(threads)
	likeAPI := NewLikeAPI(counters)
	repostAPI := NewRepostAPI(reposts)
	notificationAPI := NewNotificationAPI(notifier)
	connectionAPI := NewConnectionAPI(graph)
	teamAPI := NewTeamAPI(graph)
	messageAPI := NewMessageAPI(messenger)

	api := engine.Group("/api")
	api.Use(Trace(), Authenticate(r.sessions))

	api.POST("/auth/register", authAPI.Register)
	api.POST("/auth/login", authAPI.Login)

	// Read-only surfaces usable without a session; views degrade to
	// anonymous decoration
	api.GET("/posts/:id", postAPI.Get)
	api.GET("/posts/:id/comments", commentAPI.List)
	api.GET("/comments/:id/replies", commentAPI.Replies)

	authed := api.Group("")
	authed.Use(RequireAuth())

	authed.POST("/auth/logout", authAPI.Logout)
	authed.GET("/me", authAPI.Me)
	authed.PATCH("/me/settings", authAPI.UpdateSettings)

	authed.GET("/posts", feedAPI.Page)
	authed.POST("/posts", postAPI.Create)

	authed.POST("/posts/:id/comments", commentAPI.Create)
	authed.PATCH("/comments/:id", commentAPI.Update)
	authed.DELETE("/comments/:id", commentAPI.Delete)

	authed.POST("/posts/:id/like", likeAPI.LikePost)
	authed.DELETE("/posts/:id/like", likeAPI.UnlikePost)
	authed.POST("/comments/:id/like", likeAPI.LikeComment)
	authed.DELETE("/comments/:id/like", likeAPI.UnlikeComment)

	authed.POST("/posts/:id/repost", repostAPI.Create)
	authed.DELETE("/posts/:id/repost", repostAPI.Delete)

	authed.GET("/notifications", notificationAPI.List)
	authed.GET("/notifications/count", notificationAPI.Count)
	authed.PATCH("/notifications", notificationAPI.MarkRead)

	authed.POST("/connections", connectionAPI.Request)
	authed.PATCH("/connections/:id", connectionAPI.Respond)
	authed.GET("/connections", connectionAPI.List)

	authed.POST("/teams/:id/follow", teamAPI.Follow)
	authed.DELETE("/teams/:id/follow", teamAPI.Unfollow)
	authed.POST("/teams/:id/invite", teamAPI.Invite)

	authed.GET("/conversations", messageAPI.Conversations)
	authed.GET("/conversations/:id/messages", messageAPI.Messages)
	authed.POST("/messages", messageAPI.Send)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DEGRADED",
			"service": "cheerhub-api",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "cheerhub-api",
	})
}
