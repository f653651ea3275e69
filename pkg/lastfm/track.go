package lastfm

import (
	"context"
	"fmt"
)

// TrackService provides now playing, love and scrobble operations.
type TrackService struct {
	client *Client
}

// UpdateNowPlaying announces the track currently playing.
//
// This should be called when a track starts. It does not count as a
// scrobble and does not affect play counts. Under an active private
// session the call returns immediately without a network request.
func (t *TrackService) UpdateNowPlaying(ctx context.Context, sessionKey string, track Track) error {
	if t.client.privateSession() {
		t.client.logDebugf("lastfm: private session, skipping now playing update")
		return nil
	}

	_, err := t.client.call(ctx, "track.updateNowPlaying", map[string]string{
		"artist":   track.Artist,
		"track":    track.Title,
		"album":    track.Album,
		"duration": fmt.Sprintf("%d", track.Duration),
		"sk":       sessionKey,
	})
	return err
}

// SetLoved syncs the track's loved flag, calling track.love when the flag
// is set and track.unlove otherwise.
func (t *TrackService) SetLoved(ctx context.Context, sessionKey string, track Track) error {
	method := "track.unlove"
	if track.Loved {
		method = "track.love"
	}

	_, err := t.client.call(ctx, method, map[string]string{
		"artist": track.Artist,
		"track":  track.Title,
		"sk":     sessionKey,
	})
	return err
}

// Scrobble submits a permanent play record.
//
// The loved flag is synced first; a failure there aborts the scrobble and
// propagates, preserving the service's love-before-scrobble ordering. The
// timestamp must be when the track started playing, in epoch seconds.
// Under an active private session the call returns immediately without a
// network request.
func (t *TrackService) Scrobble(ctx context.Context, sessionKey string, track Track) error {
	if t.client.privateSession() {
		t.client.logDebugf("lastfm: private session, skipping scrobble")
		return nil
	}

	if err := t.SetLoved(ctx, sessionKey, track); err != nil {
		return fmt.Errorf("failed to sync loved state: %w", err)
	}

	_, err := t.client.call(ctx, "track.scrobble", map[string]string{
		"artist":    track.Artist,
		"track":     track.Title,
		"album":     track.Album,
		"duration":  fmt.Sprintf("%d", track.Duration),
		"timestamp": fmt.Sprintf("%d", track.Timestamp),
		"sk":        sessionKey,
	})
	return err
}
