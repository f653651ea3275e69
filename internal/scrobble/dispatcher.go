// Package scrobble turns monitor events into Last.fm submissions and keeps
// a local log of what was sent.
package scrobble

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/needledrop/needledrop/internal/monitor"
	"github.com/needledrop/needledrop/internal/player"
	"github.com/needledrop/needledrop/internal/store"
	"github.com/needledrop/needledrop/pkg/lastfm"
	"github.com/rs/zerolog"
)

// submitTimeout bounds each network submission independently of the
// dispatcher's lifetime.
const submitTimeout = 30 * time.Second

// Dispatcher consumes monitor events and submits them to Last.fm. Each
// submission runs in its own goroutine so a slow or failing request never
// blocks event consumption, and by extension never stalls the polling
// loop feeding it. Submission failures are logged and dropped; there is no
// retry or offline queue.
type Dispatcher struct {
	client  *lastfm.Client
	store   *store.Store
	history *History
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. history may be nil to disable the
// local play log.
func NewDispatcher(client *lastfm.Client, st *store.Store, history *History, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client:  client,
		store:   st,
		history: history,
		logger:  logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Run consumes events until the context is cancelled, then waits for
// in-flight submissions to finish.
func (d *Dispatcher) Run(ctx context.Context, events <-chan monitor.Event) {
	for {
		select {
		case <-ctx.Done():
			d.wg.Wait()
			return
		case ev := <-events:
			d.handle(ctx, ev)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev monitor.Event) {
	switch ev.Kind {
	case monitor.EventStateChanged:
		d.logger.Debug().Str("state", ev.State.String()).Msg("Player state changed")

	case monitor.EventNowPlaying:
		track := *ev.Track
		d.spawn(func() { d.submitNowPlaying(ctx, &track) })

	case monitor.EventScrobbleWanted:
		track := *ev.Track
		d.spawn(func() { d.submitScrobble(ctx, &track) })
	}
}

func (d *Dispatcher) spawn(fn func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn()
	}()
}

func (d *Dispatcher) submitNowPlaying(ctx context.Context, track *player.Track) {
	sessionKey := d.store.SessionKey()
	if sessionKey == "" {
		d.logger.Debug().Msg("Not signed in, skipping now playing update")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	if err := d.client.Track().UpdateNowPlaying(ctx, sessionKey, apiTrack(track)); err != nil {
		d.logger.Warn().Err(err).
			Str("track", track.Name).
			Msg("Failed to update now playing")
		return
	}

	d.logger.Info().
		Str("track", track.Name).
		Str("artist", track.Artist).
		Msg("Now playing updated")
}

func (d *Dispatcher) submitScrobble(ctx context.Context, track *player.Track) {
	sessionKey := d.store.SessionKey()
	if sessionKey == "" {
		d.logger.Debug().Msg("Not signed in, skipping scrobble")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	if err := d.client.Track().Scrobble(ctx, sessionKey, apiTrack(track)); err != nil {
		d.logger.Warn().Err(err).
			Str("track", track.Name).
			Str("artist", track.Artist).
			Msg("Failed to scrobble")
		return
	}

	d.logger.Info().
		Str("track", track.Name).
		Str("artist", track.Artist).
		Msg("Scrobbled")

	if d.history != nil && !d.store.PrivateSession() {
		if _, err := d.history.Record(ctx, track); err != nil {
			d.logger.Warn().Err(err).Msg("Failed to record play history")
		}
	}
}

// apiTrack converts a player track to the wire representation. Duration is
// rounded, not truncated: a 204.7s track submits as 205.
func apiTrack(t *player.Track) lastfm.Track {
	return lastfm.Track{
		Artist:    t.Artist,
		Title:     t.Name,
		Album:     t.Album,
		Duration:  int(math.Round(t.Length)),
		Timestamp: t.StartedAt,
		Loved:     t.Loved,
	}
}
