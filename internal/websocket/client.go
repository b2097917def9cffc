package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sanctuary/backend/internal/gate"
	"github.com/sanctuary/backend/internal/models"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Inbound messages per second and burst
	inboundRate  = 5
	inboundBurst = 10
)

// Client is one overlay connection. Besides receiving live updates it may
// authenticate and name an admin path it is showing; the client then gets
// the gate decision for that path and a single navigate message whenever
// the session becomes denied.
type Client struct {
	id     uuid.UUID
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	auth   chan models.WSAuthPayload
	errs   chan string
	tokens TokenValidator
	users  UserLookup
	logger zerolog.Logger

	limiter *rate.Limiter

	// Owned by WritePump
	session gate.Session
	userID  uuid.UUID
	path    string
	tracker gate.Tracker
	expires time.Time
}

// NewClient creates a new overlay client. The session starts as loading
// until an auth message or the connect-time token resolves it.
func NewClient(hub *Hub, conn *websocket.Conn, tokens TokenValidator, users UserLookup, logger zerolog.Logger) *Client {
	return &Client{
		id:      uuid.New(),
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		auth:    make(chan models.WSAuthPayload, 4),
		errs:    make(chan string, 8),
		tokens:  tokens,
		users:   users,
		logger:  logger,
		limiter: rate.NewLimiter(inboundRate, inboundBurst),
		session: gate.Loading,
	}
}

// ReadPump pumps messages from the WebSocket connection to the client's
// auth queue
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("websocket read failed")
			}
			break
		}

		if !c.limiter.Allow() {
			c.sendError("rate_limited")
			continue
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection. It
// also owns the session state, so auth changes and token expiry are
// evaluated here.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	var expiry *time.Timer
	defer func() {
		ticker.Stop()
		if expiry != nil {
			expiry.Stop()
		}
		c.conn.Close()
	}()

	for {
		var expired <-chan time.Time
		if expiry != nil {
			expired = expiry.C
		}

		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case payload := <-c.auth:
			if expiry != nil {
				expiry.Stop()
				expiry = nil
			}
			if ttl := c.authenticate(payload); ttl > 0 {
				expiry = time.NewTimer(ttl)
			}
			if err := c.write(c.evaluate()); err != nil {
				return
			}

		case msg := <-c.errs:
			err := c.write([]models.WSMessage{{
				Event:   models.EventError,
				Payload: models.WSErrorPayload{Message: msg},
			}})
			if err != nil {
				return
			}

		case <-expired:
			expiry = nil
			c.logger.Debug().Msg("overlay session expired")
			c.session = gate.Anonymous
			c.userID = uuid.Nil
			if err := c.write(c.evaluate()); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			if c.refresh() {
				if err := c.write(c.evaluate()); err != nil {
					return
				}
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var wsMsg struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &wsMsg); err != nil {
		c.sendError("Invalid message format")
		return
	}

	switch wsMsg.Event {
	case models.EventAuth:
		var p models.WSAuthPayload
		if err := json.Unmarshal(wsMsg.Payload, &p); err != nil {
			c.sendError("Invalid auth payload")
			return
		}
		select {
		case c.auth <- p:
		default:
			c.sendError("rate_limited")
		}

	default:
		c.sendError("Unknown event type")
	}
}

// authenticate resolves the session from p and returns how long it stays
// valid. An empty token signs out; an invalid one, or one whose account
// can't be loaded, is anonymous.
func (c *Client) authenticate(p models.WSAuthPayload) time.Duration {
	if p.Path != "" {
		c.path = p.Path
	}
	c.expires = time.Time{}
	c.userID = uuid.Nil
	c.session = gate.Anonymous

	if p.Token == "" {
		return 0
	}

	claims, err := c.tokens.ValidateToken(p.Token)
	if err != nil {
		c.logger.Debug().Err(err).Msg("overlay token rejected")
		return 0
	}

	user, err := c.users.GetByID(claims.UserID)
	if err != nil {
		c.logger.Debug().Err(err).Str("user_id", claims.UserID.String()).Msg("overlay user not loaded")
		return 0
	}

	c.userID = user.ID
	c.session = gate.ForRole(user.Role)
	if claims.ExpiresAt != nil {
		c.expires = claims.ExpiresAt.Time
		return time.Until(c.expires)
	}
	return 0
}

// refresh reloads the signed-in account's role and reports whether the
// session changed.
func (c *Client) refresh() bool {
	if c.userID == uuid.Nil {
		return false
	}

	next := gate.Anonymous
	if user, err := c.users.GetByID(c.userID); err != nil {
		c.logger.Debug().Err(err).Str("user_id", c.userID.String()).Msg("overlay user not loaded")
		c.userID = uuid.Nil
		c.expires = time.Time{}
	} else {
		next = gate.ForRole(user.Role)
	}

	if next == c.session {
		return false
	}
	c.session = next
	return true
}

// evaluate runs the gate for the watched path. Clients that never named a
// path only receive live updates.
func (c *Client) evaluate() []models.WSMessage {
	if c.path == "" {
		return nil
	}

	d, navigate := c.tracker.Observe(c.session, c.path)
	msgs := []models.WSMessage{{
		Event:   models.EventSessionState,
		Payload: models.WSSessionPayload{Decision: d.Kind.String(), Target: d.Target},
	}}
	if navigate {
		msgs = append(msgs, models.WSMessage{
			Event:   models.EventNavigate,
			Payload: models.WSNavigatePayload{Target: d.Target},
		})
	}
	return msgs
}

func (c *Client) write(msgs []models.WSMessage) error {
	for _, m := range msgs {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(m); err != nil {
			return err
		}
	}
	return nil
}

// queue hands a message to WritePump without blocking. Only the hub and
// the handler before registration may use it: the hub closes send.
func (c *Client) queue(msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// sendError reports a problem to the peer; dropped if the peer is not reading
func (c *Client) sendError(message string) {
	select {
	case c.errs <- message:
	default:
	}
}
