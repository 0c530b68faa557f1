package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	scopeContextKey      = "auth_scope"
	tokenContextKey      = "auth_token"
	departmentContextKey = "auth_department_id"
)

// AdminMiddleware validates issued panel tokens; both admin and head scopes
// pass.
func (s *Service) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		scope, err := s.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(scopeContextKey, scope)
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// HeadMiddleware additionally requires the head-admin scope. Must run after
// AdminMiddleware.
func (s *Service) HeadMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if scope, _ := ScopeFromContext(c); scope != ScopeHead {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "head admin scope required"})
			return
		}
		c.Next()
	}
}

// DepartmentMiddleware validates department JWTs and stores the department id.
func DepartmentMiddleware(tokens *DepartmentTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(departmentContextKey, claims.DepartmentID)
		c.Next()
	}
}

// ScopeFromContext retrieves the validated admin scope.
func ScopeFromContext(c *gin.Context) (string, bool) {
	val, ok := c.Get(scopeContextKey)
	if !ok {
		return "", false
	}
	scope, ok := val.(string)
	return scope, ok
}

// TokenFromContext retrieves the bearer token captured by the middleware.
func TokenFromContext(c *gin.Context) (string, bool) {
	val, ok := c.Get(tokenContextKey)
	if !ok {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}

// DepartmentFromContext retrieves the authenticated department id.
func DepartmentFromContext(c *gin.Context) (string, bool) {
	val, ok := c.Get(departmentContextKey)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}

func (s *Service) extractToken(c *gin.Context) string {
	if token := bearerToken(c.GetHeader(s.headerName)); token != "" {
		return token
	}
	if token, err := c.Cookie(s.cookieName); err == nil && token != "" {
		return token
	}
	return ""
}

func bearerToken(header string) string {
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
