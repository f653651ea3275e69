package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/needledrop/needledrop/internal/config"
	"github.com/needledrop/needledrop/internal/store"
	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of Last.fm",
	Long: `Sign out of Last.fm and forget the saved session.

This only removes the local session. It does not revoke the application
authorization on Last.fm; you can do that from your Last.fm settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(filepath.Join(config.GetDataDir(), "profile.json"))
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}

		profile := st.Profile()
		if profile.SessionKey == "" {
			fmt.Println("Not signed in")
			return nil
		}

		if err := st.Reset(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		fmt.Printf("Signed out %s\n", profile.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
