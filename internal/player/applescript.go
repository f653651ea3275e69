package player

import (
	"context"
	"encoding/hex"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Per-query AppleScript sources for the Music app. Each reader method runs
// exactly one of these so the return type is fixed per call.
const (
	scriptIsRunning = `tell application "System Events" to (name of processes) contains "Music"`
	scriptState     = `tell application "Music" to get player state`
	scriptPosition  = `tell application "Music" to get the player position`
	scriptTrackID   = `tell application "Music" to get the database ID of the current track`
	scriptName      = `tell application "Music" to get the name of the current track`
	scriptArtist    = `tell application "Music" to get the artist of the current track`
	scriptAlbum     = `tell application "Music" to get the album of the current track`
	scriptDuration  = `tell application "Music" to get the duration of the current track`
	scriptYear      = `tell application "Music" to get the year of the current track`
	scriptLoved     = `tell application "Music" to get the loved of the current track`
	scriptArtwork   = `tell application "Music" to get the data of the first artwork of the current track`
)

// missingValue is what osascript prints when a query has no usable result,
// e.g. the player position right after the app launches.
const missingValue = "missing value"

// AppleScriptReader implements Reader by querying the Music app through
// osascript, one script per query.
type AppleScriptReader struct{}

// NewAppleScriptReader creates a new AppleScript-based reader.
func NewAppleScriptReader() *AppleScriptReader {
	return &AppleScriptReader{}
}

// runScript executes an AppleScript source and returns its trimmed output.
func (r *AppleScriptReader) runScript(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("osascript error: %s", string(exitErr.Stderr))
		}
		return "", fmt.Errorf("failed to execute osascript: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// IsRunning checks if the Music app is currently running. Script failures
// read as not running.
func (r *AppleScriptReader) IsRunning(ctx context.Context) bool {
	out, err := r.runScript(ctx, scriptIsRunning)
	if err != nil {
		return false
	}
	return out == "true"
}

// State returns the player's transport state.
func (r *AppleScriptReader) State(ctx context.Context) (State, error) {
	out, err := r.runScript(ctx, scriptState)
	if err != nil {
		return StateUnknown, err
	}

	switch out {
	case "playing":
		return StatePlaying, nil
	case "paused":
		return StatePaused, nil
	case "stopped":
		return StateStopped, nil
	case "fast forwarding", "rewinding":
		return StateSeeking, nil
	default:
		return StateUnknown, nil
	}
}

// Position returns the playback position in seconds.
func (r *AppleScriptReader) Position(ctx context.Context) (float64, error) {
	out, err := r.runScript(ctx, scriptPosition)
	if err != nil {
		return 0, err
	}
	if out == missingValue {
		return 0, ErrPositionUnknown
	}

	pos, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse position %q: %w", out, err)
	}
	return pos, nil
}

// TrackID returns the current track's database ID.
func (r *AppleScriptReader) TrackID(ctx context.Context) (int64, error) {
	out, err := r.runScript(ctx, scriptTrackID)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse track id %q: %w", out, err)
	}
	return id, nil
}

// Track reads the current track's metadata, one query per field. Artwork is
// optional and its failures are swallowed.
func (r *AppleScriptReader) Track(ctx context.Context) (*Track, error) {
	name, err := r.runScript(ctx, scriptName)
	if err != nil {
		return nil, err
	}
	artist, err := r.runScript(ctx, scriptArtist)
	if err != nil {
		return nil, err
	}
	album, err := r.runScript(ctx, scriptAlbum)
	if err != nil {
		return nil, err
	}
	durationStr, err := r.runScript(ctx, scriptDuration)
	if err != nil {
		return nil, err
	}
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration %q: %w", durationStr, err)
	}
	yearStr, err := r.runScript(ctx, scriptYear)
	if err != nil {
		return nil, err
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse year %q: %w", yearStr, err)
	}
	lovedStr, err := r.runScript(ctx, scriptLoved)
	if err != nil {
		return nil, err
	}

	var artwork []byte
	if raw, err := r.runScript(ctx, scriptArtwork); err == nil {
		artwork = parseArtworkData(raw)
	}

	return &Track{
		Artist:  artist,
		Album:   album,
		Name:    name,
		Length:  duration,
		Year:    year,
		Loved:   lovedStr == "true",
		Artwork: artwork,
	}, nil
}

// parseArtworkData decodes osascript's raw data descriptor output, which
// looks like «data tdta4D4D002A...» with the payload hex encoded after the
// four-character type tag. Returns nil if the output is anything else.
func parseArtworkData(raw string) []byte {
	const prefix, suffix = "«data ", "»"
	if !strings.HasPrefix(raw, prefix) || !strings.HasSuffix(raw, suffix) {
		return nil
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, prefix), suffix)
	if len(inner) <= 4 {
		return nil
	}
	data, err := hex.DecodeString(inner[4:])
	if err != nil {
		return nil
	}
	return data
}

// Play resumes playback in the Music app.
func (r *AppleScriptReader) Play(ctx context.Context) error {
	_, err := r.runScript(ctx, `tell application "Music" to play`)
	return err
}

// Pause pauses playback in the Music app.
func (r *AppleScriptReader) Pause(ctx context.Context) error {
	_, err := r.runScript(ctx, `tell application "Music" to pause`)
	return err
}

// PlayPause toggles between play and pause in the Music app.
func (r *AppleScriptReader) PlayPause(ctx context.Context) error {
	_, err := r.runScript(ctx, `tell application "Music" to playpause`)
	return err
}

// NextTrack skips to the next track in the Music app.
func (r *AppleScriptReader) NextTrack(ctx context.Context) error {
	_, err := r.runScript(ctx, `tell application "Music" to next track`)
	return err
}

// PreviousTrack goes back to the previous track in the Music app.
func (r *AppleScriptReader) PreviousTrack(ctx context.Context) error {
	_, err := r.runScript(ctx, `tell application "Music" to back track`)
	return err
}
