package live

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

// Resolution outcomes reported to the Recorder.
const (
	OutcomeLive      = "live"
	OutcomeNone      = "none"
	OutcomeMalformed = "malformed"
)

// Store lists live-video records in collection order.
type Store interface {
	ListLiveVideos() ([]models.LiveVideo, error)
}

// Cache holds the last listed collection.
type Cache interface {
	GetLiveVideos() ([]models.LiveVideo, bool, error)
	SetLiveVideos(videos []models.LiveVideo, ttl time.Duration) error
	InvalidateLiveVideos() error
}

// Publisher fans live changes out to overlay clients.
type Publisher interface {
	PublishLiveUpdate(payload models.WSLivePayload) error
}

type Recorder interface {
	ObserveLiveResolution(outcome string)
}

// Service answers "what is live right now". Cache, Publisher and Recorder
// are optional.
type Service struct {
	store    Store
	cache    Cache
	pub      Publisher
	recorder Recorder
	ttl      time.Duration
}

func NewService(store Store, cache Cache, pub Publisher, recorder Recorder, ttl time.Duration) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		pub:      pub,
		recorder: recorder,
		ttl:      ttl,
	}
}

// Records returns the live-video collection, served from the cache when
// possible. Cache failures fall through to the store.
func (s *Service) Records(ctx context.Context) ([]models.LiveVideo, error) {
	logger := applog.Ctx(ctx)

	if s.cache != nil {
		videos, ok, err := s.cache.GetLiveVideos()
		if err != nil {
			logger.Warn().Err(err).Msg("live cache read failed")
		} else if ok {
			return videos, nil
		}
	}

	videos, err := s.store.ListLiveVideos()
	if err != nil {
		return nil, fmt.Errorf("failed to list live videos: %w", err)
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetLiveVideos(videos, s.ttl); err != nil {
			logger.Warn().Err(err).Msg("live cache write failed")
		}
	}
	return videos, nil
}

// Current returns the embed to show, or nil when nothing should be shown.
// A record with an unparseable link disables the overlay instead of failing.
func (s *Service) Current(ctx context.Context) (*models.LiveEmbed, error) {
	videos, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	embed, err := ResolveEmbed(videos)
	switch {
	case errors.Is(err, ErrUnrecognizedURL):
		active, _ := SelectActive(videos)
		logger := applog.Ctx(ctx)
		logger.Warn().
			Str("live_video_id", active.ID.String()).
			Str("source_url", active.SourceURL).
			Msg("active live video has an unrecognized url; overlay disabled")
		s.observe(OutcomeMalformed)
		return nil, nil
	case err != nil:
		return nil, err
	case embed == nil:
		s.observe(OutcomeNone)
		return nil, nil
	default:
		s.observe(OutcomeLive)
		return embed, nil
	}
}

// Changed must be called after any live-video mutation. It drops the cached
// collection and pushes the new current embed to overlay clients.
func (s *Service) Changed(ctx context.Context) error {
	logger := applog.Ctx(ctx)

	if s.cache != nil {
		if err := s.cache.InvalidateLiveVideos(); err != nil {
			logger.Warn().Err(err).Msg("live cache invalidation failed")
		}
	}
	if s.pub == nil {
		return nil
	}

	embed, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if err := s.pub.PublishLiveUpdate(models.WSLivePayload{Embed: embed}); err != nil {
		return fmt.Errorf("failed to publish live update: %w", err)
	}
	return nil
}

func (s *Service) observe(outcome string) {
	if s.recorder != nil {
		s.recorder.ObserveLiveResolution(outcome)
	}
}
