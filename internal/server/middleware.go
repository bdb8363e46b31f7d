package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/payables/internal/observability/context"
)

const (
	contextUsernameKey = "username"
	contextRoleKey     = "role"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	Username string
	Role     string
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-Id", "Retry-After"},
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// AuthRequired resolves the bearer token to a user and stores the actor on
// both the gin and the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUsernameKey, user.Username)
		c.Set(contextRoleKey, string(user.Role))
		c.Request = c.Request.WithContext(obscontext.WithActor(c.Request.Context(), user.Username, string(user.Role)))
		c.Next()
	}
}

// authorize gates a route on the casbin policy for object and action.
func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), actor.Username, actor.Role, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func actorFromContext(c *gin.Context) (Actor, bool) {
	username := strings.TrimSpace(c.GetString(contextUsernameKey))
	if username == "" {
		return Actor{}, false
	}
	return Actor{Username: username, Role: c.GetString(contextRoleKey)}, true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
