package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/needledrop/needledrop/internal/auth"
	"github.com/needledrop/needledrop/internal/config"
	"github.com/needledrop/needledrop/internal/store"
	"github.com/needledrop/needledrop/pkg/lastfm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var loginNoBrowser bool

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Last.fm",
	Long: `Sign in to Last.fm using the desktop authentication flow.

This command requests an authentication token, opens the Last.fm approval
page in your browser, and waits for you to approve the request. Once
approved, the session is saved locally and the daemon can scrobble.

Press Ctrl-C to cancel while waiting for approval.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Print the approval URL instead of opening a browser")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" {
		return fmt.Errorf("Last.fm API credentials not configured. Set lastfm.api_key and lastfm.api_secret in the config file")
	}

	st, err := store.Open(filepath.Join(config.GetDataDir(), "profile.json"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if existing := st.Profile(); existing.SessionKey != "" {
		fmt.Printf("Already signed in as %s. Run 'needledrop logout' first to switch accounts.\n", existing.Name)
		return nil
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:    cfg.LastFM.APIKey,
		APISecret: cfg.LastFM.APISecret,
		Privacy:   st,
	})
	if err != nil {
		return fmt.Errorf("failed to create Last.fm client: %w", err)
	}

	// Ctrl-C cancels the approval wait without saving anything
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flow := auth.New(client, logger)
	flow.OnPhase(func(p auth.Phase) {
		switch p {
		case auth.PhaseGeneratingToken:
			fmt.Println("Requesting authentication token...")
		case auth.PhaseWaitingForApproval:
			fmt.Println("Waiting for approval (press Ctrl-C to cancel)...")
		case auth.PhaseFinishingUp:
			fmt.Println("Approved! Fetching your profile...")
		}
	})
	flow.OnApprovalURL(func(url string) {
		if loginNoBrowser {
			fmt.Printf("Open this URL in your browser to approve:\n\n  %s\n\n", url)
			return
		}
		fmt.Printf("Opening %s\n", url)
		if err := openBrowser(url); err != nil {
			fmt.Printf("Could not open a browser. Open this URL manually:\n\n  %s\n\n", url)
		}
	})

	session, err := flow.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nSign-in cancelled. Nothing was saved.")
			return nil
		}
		return fmt.Errorf("sign-in failed: %w", err)
	}

	err = st.SetProfile(store.Profile{
		SessionKey: session.Key,
		Name:       session.Name,
		Subscriber: session.Subscriber,
		ProfileURL: session.ProfileURL,
		Avatar:     session.Avatar,
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("Signed in as %s\n", session.Name)
	return nil
}

// openBrowser opens the given URL in the default browser
func openBrowser(url string) error {
	return exec.Command("open", url).Start()
}
