package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medicart/internal/domain"
)

const userKey = "user"

// requireAuth resolves the bearer token to a user and stores it in the context
func (s *Server) requireAuth(c *gin.Context) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	u, err := s.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		s.fail(c, err)
		c.Abort()
		return
	}
	c.Set(userKey, u)
	c.Next()
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
