package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
)

type gaugeRecorder struct {
	mu   sync.Mutex
	last int
}

func (g *gaugeRecorder) SetOverlayClients(n int) {
	g.mu.Lock()
	g.last = n
	g.mu.Unlock()
}

func (g *gaugeRecorder) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func TestHubBroadcastsLiveUpdates(t *testing.T) {
	gauge := &gaugeRecorder{}
	h := NewHub(nil, gauge)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	// Use actual Client struct but only use the send channel for assertion
	c1 := &Client{id: uuid.New(), send: make(chan []byte, 4)}
	c2 := &Client{id: uuid.New(), send: make(chan []byte, 4)}
	h.register <- c1
	h.register <- c2

	embed := &models.LiveEmbed{VideoID: "ABC123", EmbedURL: "https://www.youtube.com/embed/ABC123?autoplay=1&rel=0"}
	if err := h.PublishLiveUpdate(models.WSLivePayload{Embed: embed}); err != nil {
		t.Fatalf("PublishLiveUpdate error: %v", err)
	}

	for _, c := range []*Client{c1, c2} {
		select {
		case b := <-c.send:
			var got struct {
				Event   string               `json:"event"`
				Payload models.WSLivePayload `json:"payload"`
			}
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatal(err)
			}
			if got.Event != models.EventLiveUpdate || got.Payload.Embed == nil || got.Payload.Embed.VideoID != "ABC123" {
				t.Fatalf("unexpected message: %s", b)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for live update")
		}
	}

	if gauge.value() != 2 {
		t.Errorf("gauge = %d, want 2", gauge.value())
	}

	h.unregister <- c1
	if _, ok := <-c1.send; ok {
		t.Fatal("expected send channel to be closed on unregister")
	}
	if n := h.ClientCount(); n != 1 {
		t.Errorf("ClientCount() = %d, want 1", n)
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	// A full buffer makes the hub's send fall through to the drop path
	slow := &Client{id: uuid.New(), send: make(chan []byte, 1)}
	slow.send <- []byte("backlog")
	h.register <- slow

	if err := h.PublishLiveUpdate(models.WSLivePayload{}); err != nil {
		t.Fatal(err)
	}

	if got := <-slow.send; string(got) != "backlog" {
		t.Fatalf("expected the queued message first, got %s", got)
	}
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Fatal("expected closed channel, got a message")
		}
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}
	if n := h.ClientCount(); n != 0 {
		t.Errorf("ClientCount() = %d, want 0", n)
	}
}

func TestHubStopsOnContextDone(t *testing.T) {
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := &Client{id: uuid.New(), send: make(chan []byte, 1)}
	h.register <- c
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-c.send; ok {
		t.Error("expected client channel closed on shutdown")
	}
}

func TestHubStoppedDoesNotBlock(t *testing.T) {
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		defer close(done)
		c := &Client{id: uuid.New(), send: make(chan []byte, 1)}
		if h.Register(c) {
			t.Error("Register after stop should report false")
		}
		h.Unregister(c)
		if err := h.PublishLiveUpdate(models.WSLivePayload{}); err != ErrHubStopped {
			t.Errorf("PublishLiveUpdate after stop = %v, want ErrHubStopped", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after Run returned")
	}
}

func TestMatchOrigin(t *testing.T) {
	tests := []struct {
		pattern string
		origin  string
		want    bool
	}{
		{"https://sanctuary.example", "https://sanctuary.example", true},
		{"*.sanctuary.example", "https://live.sanctuary.example", true},
		{"*.sanctuary.example", "https://evilsanctuary.example", false},
		{"https://sanctuary.example", "https://other.example", false},
	}
	for _, tt := range tests {
		if got := matchOrigin(tt.pattern, tt.origin); got != tt.want {
			t.Errorf("matchOrigin(%q, %q) = %v, want %v", tt.pattern, tt.origin, got, tt.want)
		}
	}
}
