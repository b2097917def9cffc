package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sanctuary/backend/internal/models"
)

type fakeStore struct {
	videos []models.LiveVideo
	err    error
	calls  int
}

func (f *fakeStore) ListLiveVideos() ([]models.LiveVideo, error) {
	f.calls++
	return f.videos, f.err
}

type fakeCache struct {
	videos      []models.LiveVideo
	ok          bool
	err         error
	invalidated int
}

func (f *fakeCache) GetLiveVideos() ([]models.LiveVideo, bool, error) {
	return f.videos, f.ok, f.err
}

func (f *fakeCache) SetLiveVideos(videos []models.LiveVideo, _ time.Duration) error {
	f.videos, f.ok = videos, true
	return nil
}

func (f *fakeCache) InvalidateLiveVideos() error {
	f.videos, f.ok = nil, false
	f.invalidated++
	return nil
}

type fakePublisher struct {
	payloads []models.WSLivePayload
}

func (f *fakePublisher) PublishLiveUpdate(p models.WSLivePayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

type countingRecorder map[string]int

func (c countingRecorder) ObserveLiveResolution(outcome string) { c[outcome]++ }

func TestService_CurrentUsesCache(t *testing.T) {
	store := &fakeStore{videos: []models.LiveVideo{{SourceURL: "https://youtu.be/LIVE01", IsActive: true}}}
	cache := &fakeCache{}
	svc := NewService(store, cache, nil, nil, time.Minute)

	for i := 0; i < 3; i++ {
		embed, err := svc.Current(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if embed == nil || embed.VideoID != "LIVE01" {
			t.Fatalf("embed = %+v", embed)
		}
	}
	if store.calls != 1 {
		t.Errorf("store called %d times, want 1", store.calls)
	}
}

func TestService_CurrentMalformedDegrades(t *testing.T) {
	rec := countingRecorder{}
	store := &fakeStore{videos: []models.LiveVideo{{SourceURL: "https://example.com/stream", IsActive: true}}}
	svc := NewService(store, nil, nil, rec, 0)

	embed, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("malformed url must not fail, got %v", err)
	}
	if embed != nil {
		t.Fatalf("expected no embed, got %+v", embed)
	}
	if rec[OutcomeMalformed] != 1 {
		t.Errorf("malformed not recorded: %v", rec)
	}
}

func TestService_CurrentStoreError(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("db down")}, nil, nil, nil, 0)
	if _, err := svc.Current(context.Background()); err == nil {
		t.Fatal("expected store error to surface")
	}
}

func TestService_CacheErrorFallsThrough(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeCache{err: errors.New("redis down")}, nil, nil, time.Minute)

	embed, err := svc.Current(context.Background())
	if err != nil || embed != nil {
		t.Fatalf("Current() = %v, %v", embed, err)
	}
	if store.calls != 1 {
		t.Errorf("store called %d times, want 1", store.calls)
	}
}

func TestService_ChangedInvalidatesAndPublishes(t *testing.T) {
	store := &fakeStore{}
	cache := &fakeCache{}
	pub := &fakePublisher{}
	rec := countingRecorder{}
	svc := NewService(store, cache, pub, rec, time.Minute)

	if _, err := svc.Current(context.Background()); err != nil {
		t.Fatal(err)
	}

	store.videos = []models.LiveVideo{{SourceURL: "https://www.youtube.com/watch?v=NEW123", IsActive: true}}
	if err := svc.Changed(context.Background()); err != nil {
		t.Fatalf("Changed() error = %v", err)
	}

	if cache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", cache.invalidated)
	}
	if len(pub.payloads) != 1 {
		t.Fatalf("published %d payloads, want 1", len(pub.payloads))
	}
	if got := pub.payloads[0].Embed; got == nil || got.VideoID != "NEW123" {
		t.Errorf("published embed = %+v", got)
	}
	if rec[OutcomeNone] != 1 || rec[OutcomeLive] != 1 {
		t.Errorf("outcomes = %v", rec)
	}
}
