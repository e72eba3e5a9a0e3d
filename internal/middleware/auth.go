package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/slmiksa/flyboy-beats-core/internal/models"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/jwt"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	sessionpkg "github.com/slmiksa/flyboy-beats-core/internal/pkg/session"
	"gorm.io/gorm"
)

const (
	ContextKeyAdminID = "admin_id"
	ContextKeySID     = "session_id"
)

// Auth returns a middleware that enforces token authentication. Tokens
// are revalidated against the admin_sessions table on every request,
// so a stored token alone is never proof of authentication.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateTokenClaims(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyAdminID, claims.AdminID)
		c.Set(ContextKeySID, claims.SessionID)
		sessionpkg.Touch(db, claims.AdminID, claims.SessionID)
		c.Next()
	}
}

// RequireSuperAdmin gates the user-management subtree. Must run after Auth.
// The flag is read from the database, not the token, so demotions take
// effect immediately.
func RequireSuperAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admin models.AdminModel
		err := db.Select("is_super_admin").
			Where("id = ?", CurrentAdminID(c)).First(&admin).Error
		if err != nil || !admin.IsSuperAdmin {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// ValidateTokenClaims validates a signed token and its backing session.
func ValidateTokenClaims(db *gorm.DB, rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := sessionpkg.IsActive(db, claims.AdminID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errors.New("session expired or revoked")
	}
	return claims, nil
}

// CurrentAdminID extracts the authenticated admin ID from context.
func CurrentAdminID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyAdminID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentAdminID(c) != ""
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	if raw, err := c.Cookie("fb-token"); err == nil {
		return NormalizeToken(raw)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
