package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sanctuary/backend/internal/gate"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

// GateRecorder counts gate outcomes.
type GateRecorder interface {
	ObserveGateDecision(decision string)
}

// RequireAdmin admits only admin sessions. Browsers are redirected to the
// login page; API callers get 401/403 with the redirect target in the body.
func RequireAdmin(rec GateRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		d := gate.Admit(session, c.Request.URL.RequestURI())
		if rec != nil {
			rec.ObserveGateDecision(d.Kind.String())
		}

		switch d.Kind {
		case gate.Render:
			c.Next()

		case gate.ShowLoading:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session is loading"})

		case gate.Redirect:
			logger := applog.Ctx(c.Request.Context())
			logger.Info().
				Bool("authenticated", session.IsAuthenticated).
				Str(applog.FieldRole, session.Role).
				Str("target", d.Target).
				Msg("admin gate denied request")

			if wantsHTML(c) {
				c.Redirect(http.StatusFound, d.Target)
				c.Abort()
				return
			}

			status := http.StatusUnauthorized
			msg := "Authentication required"
			if session.IsAuthenticated {
				status = http.StatusForbidden
				msg = "Admin access required"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg, "redirect": d.Target})
		}
	}
}

func wantsHTML(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
