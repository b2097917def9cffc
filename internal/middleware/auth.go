package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/auth"
	"github.com/sanctuary/backend/internal/gate"
	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

const (
	UserIDKey  = "user_id"
	EmailKey   = "email"
	RoleKey    = "role"
	SessionKey = "session"

	SessionCookie = "session"
	bearerPrefix  = "Bearer "
)

// TokenValidator is satisfied by *auth.JWTService.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// UserLookup loads the account a token was issued to.
type UserLookup interface {
	GetByID(id uuid.UUID) (*models.User, error)
}

// SessionMiddleware resolves the caller's session snapshot from a bearer
// token or the session cookie. The role is read from the stored account,
// not the token, so role changes apply to tokens already issued. It never
// rejects: a missing or bad token, or an account that can't be loaded,
// yields the anonymous session.
func SessionMiddleware(tokens TokenValidator, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := gate.Anonymous

		if token := tokenFromRequest(c); token != "" {
			logger := applog.Ctx(c.Request.Context())
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				logger.Debug().Err(err).Msg("session token rejected")
			} else if user, err := users.GetByID(claims.UserID); err != nil {
				logger.Debug().Err(err).Str("user_id", claims.UserID.String()).Msg("session user not loaded")
			} else {
				session = gate.ForRole(user.Role)
				c.Set(UserIDKey, user.ID)
				c.Set(EmailKey, user.Email)
				c.Set(RoleKey, user.Role)
			}
		}

		c.Set(SessionKey, session)
		c.Next()
	}
}

// AuthMiddleware rejects callers without a valid session.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAuthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// GetSession returns the snapshot stored by SessionMiddleware.
func GetSession(c *gin.Context) gate.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(gate.Session); ok {
			return s
		}
	}
	return gate.Anonymous
}

// GetUserID extracts the authenticated user ID.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
