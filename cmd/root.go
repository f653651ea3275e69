package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "needledrop",
	Short: "Apple Music scrobbler for Last.fm",
	Long: `needledrop is an Apple Music scrobbler for Last.fm.

It runs as a background daemon that monitors Apple Music playback
and scrobbles tracks to Last.fm according to Last.fm's scrobbling rules.

It also provides CLI commands to sign in to Last.fm, query the currently
playing track (useful for tmux status lines), control playback, and
review recently scrobbled tracks.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
