package websocket

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sanctuary/backend/internal/auth"
	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

const sessionCookie = "session"

// TokenValidator is satisfied by *auth.JWTService.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// UserLookup loads the account a token was issued to.
type UserLookup interface {
	GetByID(id uuid.UUID) (*models.User, error)
}

// LiveSource supplies the embed sent to a client when it connects.
type LiveSource interface {
	Current(ctx context.Context) (*models.LiveEmbed, error)
}

// Handler upgrades /ws/live requests into overlay clients
type Handler struct {
	hub      *Hub
	tokens   TokenValidator
	users    UserLookup
	live     LiveSource
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins
// accepts any origin.
func NewHandler(hub *Hub, tokens TokenValidator, users UserLookup, live LiveSource, allowedOrigins []string) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		users:  users,
		live:   live,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return false
				}
				for _, pattern := range allowedOrigins {
					if matchOrigin(pattern, origin) {
						return true
					}
				}
				return false
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade requests. The connection is
// public; a token (query, or session cookie) and ?path= are optional and
// can also be sent later in an auth message.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()
	logger := applog.Ctx(ctx)

	// Resolve the snapshot before upgrading; the request context ends with
	// the handler.
	embed, err := h.live.Current(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to resolve live video for new overlay client")
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := NewClient(h.hub, conn, h.tokens, h.users, logger)
	client.queue(models.WSMessage{
		Event:   models.EventLiveUpdate,
		Payload: models.WSLivePayload{Embed: embed},
	})

	token := c.Query("token")
	if token == "" {
		token, _ = c.Cookie(sessionCookie)
	}
	if path := c.Query("path"); token != "" || path != "" {
		client.auth <- models.WSAuthPayload{Token: token, Path: path}
	}

	if !h.hub.Register(client) {
		logger.Debug().Msg("overlay hub stopped; closing new connection")
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// matchOrigin supports exact matches or wildcard patterns like *.example.com
func matchOrigin(pattern, origin string) bool {
	if pattern == origin {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		originHost := origin
		if u, err := url.Parse(origin); err == nil {
			originHost = u.Hostname()
		}
		patHost := strings.TrimPrefix(pattern, "*.")
		if strings.HasSuffix(originHost, "."+patHost) {
			return true
		}
	}
	return false
}
