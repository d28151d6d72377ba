package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cheerhub/cheerhub/internal/engagement"
	"github.com/cheerhub/cheerhub/internal/session"
	"github.com/cheerhub/cheerhub/pkg/telemetry"
)

const viewerKey = "viewer"

// Authenticate resolves the bearer token into a viewer when present.
// Requests without a valid token proceed anonymously; RequireAuth draws
// the line for endpoints that need an identity.
func Authenticate(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		userID, err := sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}
		c.Set(viewerKey, engagement.Viewer{UserID: userID})
		c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if viewerFrom(c).Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// Trace opens a span per request
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}

func viewerFrom(c *gin.Context) engagement.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(engagement.Viewer); ok {
			return viewer
		}
	}
	return engagement.Viewer{}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, name string) int64 {
	val, _ := strconv.ParseInt(c.Query(name), 10, 64)
	if val < 0 {
		return 0
	}
	return val
}

func queryInt(c *gin.Context, name string) int {
	val, _ := strconv.Atoi(c.Query(name))
	if val < 0 {
		return 0
	}
	return val
}
