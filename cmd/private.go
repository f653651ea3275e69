package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/needledrop/needledrop/internal/config"
	"github.com/needledrop/needledrop/internal/store"
	"github.com/spf13/cobra"
)

// privateCmd represents the private command
var privateCmd = &cobra.Command{
	Use:   "private [on|off]",
	Short: "Toggle or set private session mode",
	Long: `Control private session mode.

While a private session is active, nothing is sent to Last.fm: no
scrobbles, no Now Playing updates, no loved-track changes. Playback is
still tracked locally.

Without arguments, toggles private mode. With 'on' or 'off', sets it
explicitly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(filepath.Join(config.GetDataDir(), "profile.json"))
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}

		enabled := !st.PrivateSession()
		if len(args) == 1 {
			switch args[0] {
			case "on":
				enabled = true
			case "off":
				enabled = false
			default:
				return fmt.Errorf("invalid argument: %s (must be 'on' or 'off')", args[0])
			}
		}

		if err := st.SetPrivateSession(enabled); err != nil {
			return fmt.Errorf("failed to update private session: %w", err)
		}

		if enabled {
			fmt.Println("Private session on. Nothing will be scrobbled.")
		} else {
			fmt.Println("Private session off. Scrobbling resumed.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(privateCmd)
}
