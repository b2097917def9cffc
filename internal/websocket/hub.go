package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/cache"
	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

// ErrHubStopped is returned by PublishLiveUpdate once Run has returned.
var ErrHubStopped = errors.New("hub stopped")

// ClientGauge is told how many overlay clients are connected.
type ClientGauge interface {
	SetOverlayClients(n int)
}

// Hub maintains the set of active overlay clients and broadcasts live
// updates to them
type Hub struct {
	// Registered clients, keyed by connection id
	clients map[uuid.UUID]*Client

	// Outbound messages for every client
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Redis client for pub/sub; nil on a single instance
	redis *cache.RedisClient

	gauge ClientGauge

	mu sync.RWMutex
}

// NewHub creates a new Hub. redis and gauge may be nil.
func NewHub(redis *cache.RedisClient, gauge ClientGauge) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		redis:      redis,
		gauge:      gauge,
	}
}

// Run starts the hub and blocks until ctx is done
func (h *Hub) Run(ctx context.Context) {
	logger := applog.Ctx(ctx)

	defer close(h.done)

	if h.redis != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.report()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.report()

			logger.Debug().Str("client_id", client.id.String()).Msg("overlay client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			h.report()

			logger.Debug().Str("client_id", client.id.String()).Msg("overlay client unregistered")

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it
					close(client.send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
			h.report()
		}
	}
}

// subscribeToRedis relays live updates published by any replica
func (h *Hub) subscribeToRedis(ctx context.Context) {
	logger := applog.Ctx(ctx)

	pubsub := h.redis.SubscribeToLive()
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				logger.Warn().Msg("live subscription closed")
				return
			}
			select {
			case h.broadcast <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}

// PublishLiveUpdate broadcasts to this instance's clients only. It stands
// in for the Redis publisher when the server runs without Redis.
func (h *Hub) PublishLiveUpdate(payload models.WSLivePayload) error {
	data, err := json.Marshal(models.WSMessage{Event: models.EventLiveUpdate, Payload: payload})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// Register adds c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c from the hub; a no-op once the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of connected overlay clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) report() {
	if h.gauge != nil {
		h.gauge.SetOverlayClients(h.ClientCount())
	}
}
