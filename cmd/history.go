package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/needledrop/needledrop/internal/config"
	"github.com/needledrop/needledrop/internal/scrobble"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently scrobbled tracks",
	Long: `List tracks that have been scrobbled to Last.fm, newest first.

The history records successful submissions only. Tracks played during a
private session are not recorded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		history, err := scrobble.OpenHistory(filepath.Join(config.GetDataDir(), "history.db"))
		if err != nil {
			return fmt.Errorf("failed to open play history: %w", err)
		}
		defer history.Close()

		plays, err := history.Recent(ctx, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read play history: %w", err)
		}

		if len(plays) == 0 {
			fmt.Println("No scrobbles recorded yet")
			return nil
		}

		for _, p := range plays {
			loved := " "
			if p.Loved {
				loved = "*"
			}
			fmt.Printf("%s %s  %s - %s (%s)\n",
				loved,
				p.StartedAt.Local().Format("2006-01-02 15:04"),
				p.Artist,
				p.Track,
				p.Album,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of tracks to list")
}
