package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/needledrop/needledrop/internal/player"
	"github.com/spf13/cobra"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Resume playback in Apple Music",
	Long:  `Resume playback in Apple Music. If paused, starts playing the current track.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(func(ctx context.Context, r *player.AppleScriptReader) error {
			return r.Play(ctx)
		}, "play")
	},
}

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback in Apple Music",
	Long:  `Pause playback in Apple Music. Pauses the currently playing track.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(func(ctx context.Context, r *player.AppleScriptReader) error {
			return r.Pause(ctx)
		}, "pause")
	},
}

// playpauseCmd represents the playpause command
var playpauseCmd = &cobra.Command{
	Use:   "playpause",
	Short: "Toggle play/pause in Apple Music",
	Long:  `Toggle between play and pause states in Apple Music. If playing, pauses. If paused, resumes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(func(ctx context.Context, r *player.AppleScriptReader) error {
			return r.PlayPause(ctx)
		}, "playpause")
	},
}

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track in Apple Music",
	Long:  `Skip to the next track in the current playlist or queue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(func(ctx context.Context, r *player.AppleScriptReader) error {
			return r.NextTrack(ctx)
		}, "skip to next track")
	},
}

// prevCmd represents the prev command
var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous track in Apple Music",
	Long:  `Return to the previous track in the current playlist or queue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(func(ctx context.Context, r *player.AppleScriptReader) error {
			return r.PreviousTrack(ctx)
		}, "go to previous track")
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(playpauseCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
}

func runControl(fn func(context.Context, *player.AppleScriptReader) error, action string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := fn(ctx, player.NewAppleScriptReader()); err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	return nil
}
