package player

import (
	"context"
	"errors"
)

// Track holds the metadata of one player track. StartedAt is filled in by
// the monitor when the track is identified; everything else comes from the
// player.
type Track struct {
	Artist  string  `json:"artist"`
	Album   string  `json:"album"`
	Name    string  `json:"name"`
	Length  float64 `json:"length"` // seconds
	Year    int     `json:"year"`
	Artwork []byte  `json:"artwork,omitempty"`
	Loved   bool    `json:"loved"`

	StartedAt int64 `json:"started_at"` // epoch seconds, estimated playback start
	Scrobbled bool  `json:"scrobbled"`  // flips true once, when the play qualifies
}

// State represents the player's transport state.
type State int

const (
	StateUnknown State = iota // Player state could not be determined
	StateStopped              // No track loaded
	StatePlaying              // Track is playing
	StatePaused               // Track is paused
	StateSeeking              // Fast-forwarding or rewinding
)

// String returns a human-readable representation of the State.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateSeeking:
		return "seeking"
	default:
		return "unknown"
	}
}

// ErrPositionUnknown is returned by Position when the player reports no
// usable value, which happens briefly after launch. Callers should hold
// their current state and retry on the next poll.
var ErrPositionUnknown = errors.New("player: position unknown")

// Reader is the set of queries the monitor needs from a music player.
// Each query is a separate typed call; any of them except IsRunning may
// fail when the player's automation interface is unreachable.
type Reader interface {
	// IsRunning reports whether the player process is active. It never
	// fails; an unreachable player reads as not running.
	IsRunning(ctx context.Context) bool

	// State returns the player's transport state.
	State(ctx context.Context) (State, error)

	// Position returns the playback position in seconds. Returns
	// ErrPositionUnknown when the player has no usable value yet.
	Position(ctx context.Context) (float64, error)

	// TrackID returns a stable per-track identifier used to detect track
	// changes without re-reading all metadata every poll.
	TrackID(ctx context.Context) (int64, error)

	// Track reads the current track's full metadata. StartedAt and
	// Scrobbled are left zeroed.
	Track(ctx context.Context) (*Track, error)
}
