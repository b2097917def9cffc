// Package live selects the stream shown by the watch-live overlay and turns
// its YouTube link into an embeddable player URL.
package live

import (
	"errors"
	"regexp"
	"strings"

	"github.com/sanctuary/backend/internal/models"
)

// EmbedBase is the YouTube player endpoint.
const EmbedBase = "https://www.youtube.com/embed"

const (
	watchMarker = "v="
	shortMarker = "youtu.be/"
)

var ErrUnrecognizedURL = errors.New("unrecognized video url")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SelectActive returns the first active record in collection order.
func SelectActive(records []models.LiveVideo) (models.LiveVideo, bool) {
	for _, r := range records {
		if r.IsActive {
			return r, true
		}
	}
	return models.LiveVideo{}, false
}

// ResolveEmbed returns the embed for the first active record, nil when no
// record is active, or ErrUnrecognizedURL when its link can't be parsed.
func ResolveEmbed(records []models.LiveVideo) (*models.LiveEmbed, error) {
	active, ok := SelectActive(records)
	if !ok {
		return nil, nil
	}

	id, err := ExtractVideoID(active.SourceURL)
	if err != nil {
		return nil, err
	}

	return &models.LiveEmbed{
		LiveVideoID: active.ID,
		Title:       active.Title,
		VideoID:     id,
		EmbedURL:    EmbedURL(id),
	}, nil
}

// ExtractVideoID pulls the video identifier out of a watch link
// (…/watch?v=ID&…) or a short link (youtu.be/ID?…).
func ExtractVideoID(raw string) (string, error) {
	var id string
	if i := queryParamIndex(raw, watchMarker); i >= 0 {
		id = cut(raw[i+len(watchMarker):], "&#")
	} else if i := strings.Index(raw, shortMarker); i >= 0 {
		id = cut(raw[i+len(shortMarker):], "?#/")
	} else {
		return "", ErrUnrecognizedURL
	}

	if !videoIDPattern.MatchString(id) {
		return "", ErrUnrecognizedURL
	}
	return id, nil
}

// EmbedURL builds the autoplaying player URL for a video id.
func EmbedURL(videoID string) string {
	return EmbedBase + "/" + videoID + "?autoplay=1&rel=0"
}

// queryParamIndex finds name only where it starts a query parameter.
func queryParamIndex(raw, name string) int {
	best := -1
	for _, sep := range []string{"?", "&"} {
		if i := strings.Index(raw, sep+name); i >= 0 && (best < 0 || i+1 < best) {
			best = i + 1
		}
	}
	return best
}

func cut(s, delims string) string {
	if i := strings.IndexAny(s, delims); i >= 0 {
		return s[:i]
	}
	return s
}
