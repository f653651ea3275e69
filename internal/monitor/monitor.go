// Package monitor implements the playback polling state machine. It samples
// a player.Reader once per tick, tracks the current track and its position
// high-water mark, and emits tagged events when the track changes or a play
// qualifies for scrobbling.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/needledrop/needledrop/internal/player"
	"github.com/rs/zerolog"
)

// EventKind tags an Event.
type EventKind int

const (
	// EventNowPlaying fires when a new track is identified.
	EventNowPlaying EventKind = iota
	// EventScrobbleWanted fires when the previous track's play qualified
	// for a scrobble. At most once per track.
	EventScrobbleWanted
	// EventStateChanged fires when the player's transport state changes.
	EventStateChanged
)

// Event is one observation delivered to the host. Track is set for
// EventNowPlaying and EventScrobbleWanted; State for EventStateChanged.
type Event struct {
	Kind  EventKind
	Track *player.Track
	State player.State
}

// Scrobble eligibility: the play must cover at least 95% of the track, and
// tracks under 30 seconds never scrobble regardless of completion. Both
// limits mirror Last.fm's minimum-play policy; do not change one without
// the other.
const (
	scrobblePercent   = 95.0
	minScrobbleLength = 30.0
)

// Snapshot is the externally observable monitor state. Pointer fields are
// nil when unset; MaxPosition is the high-water mark of Position since the
// current track began.
type Snapshot struct {
	TrackID       *int64
	Track         *player.Track
	Position      *float64
	MaxPosition   *float64
	PlayerRunning bool
	State         player.State
}

// Monitor polls a player.Reader at a fixed interval and maintains a
// Snapshot. All snapshot writes happen on the polling goroutine; reads via
// Snapshot() are safe from any goroutine.
type Monitor struct {
	reader   player.Reader
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu   sync.RWMutex
	snap Snapshot
}

// New creates a new Monitor.
func New(reader player.Reader, interval time.Duration, logger zerolog.Logger) *Monitor {
	return &Monitor{
		reader:   reader,
		interval: interval,
		logger:   logger.With().Str("component", "monitor").Logger(),
		now:      time.Now,
	}
}

// Run starts the polling loop and sends events to the provided channel.
// Blocks until the context is cancelled. Reader failures are logged and
// retried on the next tick; they never stop the loop.
func (m *Monitor) Run(ctx context.Context, events chan<- Event) error {
	m.logger.Info().
		Dur("interval", m.interval).
		Msg("Starting playback monitor")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Tick immediately on start
	m.tick(ctx, events)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Playback monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx, events)
		}
	}
}

// Snapshot returns a copy of the current state. The contained Track is a
// copy as well, so callers may hold it across ticks.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := Snapshot{
		PlayerRunning: m.snap.PlayerRunning,
		State:         m.snap.State,
	}
	if m.snap.TrackID != nil {
		id := *m.snap.TrackID
		out.TrackID = &id
	}
	if m.snap.Track != nil {
		t := *m.snap.Track
		out.Track = &t
	}
	if m.snap.Position != nil {
		p := *m.snap.Position
		out.Position = &p
	}
	if m.snap.MaxPosition != nil {
		p := *m.snap.MaxPosition
		out.MaxPosition = &p
	}
	return out
}

// tick runs one poll of the reader. Each step applies its snapshot update
// only after the reads it needs have succeeded, so a failing tick leaves
// the snapshot coherent.
func (m *Monitor) tick(ctx context.Context, events chan<- Event) {
	if !m.reader.IsRunning(ctx) {
		// A dead player invalidates everything; clearing here prevents
		// stale scrobble eligibility surviving into a new player launch.
		m.mu.Lock()
		m.snap = Snapshot{PlayerRunning: false, State: player.StateUnknown}
		m.mu.Unlock()
		return
	}

	state, err := m.reader.State(ctx)
	if err != nil {
		m.logger.Debug().Err(err).Msg("Error reading player state")
		return
	}

	if state == player.StateStopped {
		m.mu.Lock()
		m.snap = Snapshot{PlayerRunning: true, State: m.snap.State}
		m.mu.Unlock()
	}

	m.mu.Lock()
	stateChanged := m.snap.State != state
	m.snap.PlayerRunning = true
	m.snap.State = state
	m.mu.Unlock()

	if stateChanged {
		m.logger.Debug().Str("state", state.String()).Msg("Player state changed")
		m.send(ctx, events, Event{Kind: EventStateChanged, State: state})
	}

	if state == player.StateStopped {
		return
	}

	pos, err := m.reader.Position(ctx)
	if err != nil {
		if errors.Is(err, player.ErrPositionUnknown) {
			// The player reports no usable position right after launch and
			// transiently during some transitions. Hold the snapshot and
			// retry next tick; clearing here would fabricate a track
			// boundary once the position comes back.
			m.logger.Debug().Msg("Player position unknown")
			return
		}
		m.logger.Debug().Err(err).Msg("Error reading player position")
		return
	}

	m.mu.Lock()
	m.snap.Position = &pos
	if m.snap.MaxPosition == nil || pos > *m.snap.MaxPosition {
		p := pos
		m.snap.MaxPosition = &p
	}
	m.mu.Unlock()

	trackID, err := m.reader.TrackID(ctx)
	if err != nil {
		m.logger.Debug().Err(err).Msg("Error reading track id")
		return
	}

	m.mu.RLock()
	sameTrack := m.snap.TrackID != nil && *m.snap.TrackID == trackID
	m.mu.RUnlock()
	if sameTrack {
		return
	}

	// Track boundary. Read the new track's metadata before touching the
	// snapshot so a failed read leaves the previous track in place.
	track, err := m.reader.Track(ctx)
	if err != nil {
		m.logger.Debug().Err(err).Msg("Error reading track metadata")
		return
	}
	// Estimate when the track actually began so a scrobble submitted later
	// carries the true start time, even if the monitor came up mid-track.
	track.StartedAt = m.now().Unix() - int64(pos)

	m.mu.Lock()
	prev := m.snap.Track
	scrobblePrev := prev != nil && m.snap.MaxPosition != nil &&
		prev.Length >= minScrobbleLength &&
		(*m.snap.MaxPosition/prev.Length)*100 >= scrobblePercent &&
		!prev.Scrobbled
	if scrobblePrev {
		prev.Scrobbled = true
	}
	// The next track is already accruing position, so the high-water mark
	// restarts at zero rather than unset.
	zero := 0.0
	m.snap.MaxPosition = &zero
	m.snap.TrackID = &trackID
	m.snap.Track = track
	m.mu.Unlock()

	if scrobblePrev {
		m.logger.Info().
			Str("track", prev.Name).
			Str("artist", prev.Artist).
			Msg("Scrobble wanted")
		m.send(ctx, events, Event{Kind: EventScrobbleWanted, Track: prev})
	}

	m.logger.Info().
		Str("track", track.Name).
		Str("artist", track.Artist).
		Str("album", track.Album).
		Msg("Track changed")
	m.send(ctx, events, Event{Kind: EventNowPlaying, Track: track})
}

// send delivers an event unless the context is done.
func (m *Monitor) send(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
