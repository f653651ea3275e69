package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/needledrop/needledrop/internal/monitor"
	"github.com/needledrop/needledrop/internal/player"
	"github.com/needledrop/needledrop/internal/scrobble"
	"github.com/needledrop/needledrop/internal/store"
	"github.com/needledrop/needledrop/pkg/lastfm"
	"github.com/rs/zerolog"
)

// debugLogger adapts a zerolog.Logger to the lastfm.Logger interface
type debugLogger struct {
	log zerolog.Logger
}

func (l debugLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

// Config holds daemon configuration
type Config struct {
	PollInterval time.Duration // How often to poll the Music app
	StoreFile    string        // Path to the profile store file
	HistoryDB    string        // Path to the play history database
	APIKey       string        // Last.fm API key
	APISecret    string        // Last.fm API secret
}

// Daemon wires the playback monitor to the scrobble dispatcher and owns
// the shared profile store and play history.
type Daemon struct {
	config     Config
	store      *store.Store
	history    *scrobble.History
	monitor    *monitor.Monitor
	dispatcher *scrobble.Dispatcher
	logger     zerolog.Logger
}

// New creates a new Daemon instance
func New(cfg Config, reader player.Reader, logger zerolog.Logger) (*Daemon, error) {
	st, err := store.Open(cfg.StoreFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	history, err := scrobble.OpenHistory(cfg.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open play history: %w", err)
	}

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		Logger:    debugLogger{logger.With().Str("component", "lastfm").Logger()},
		Privacy:   st,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Last.fm client: %w", err)
	}

	return &Daemon{
		config:     cfg,
		store:      st,
		history:    history,
		monitor:    monitor.New(reader, cfg.PollInterval, logger),
		dispatcher: scrobble.NewDispatcher(client, st, history, logger),
		logger:     logger.With().Str("component", "daemon").Logger(),
	}, nil
}

// Run starts the daemon and blocks until a shutdown signal is received
func (d *Daemon) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Handle first signal gracefully, second signal forces exit
	go func() {
		<-sigChan
		d.logger.Info().Msg("Shutdown signal received, initiating graceful shutdown")
		cancel()

		<-sigChan
		d.logger.Warn().Msg("Second shutdown signal received, forcing exit")
		os.Exit(1)
	}()

	if err := d.run(ctx); err != nil && err != context.Canceled {
		return err
	}

	return nil
}

// run is the main daemon loop
func (d *Daemon) run(ctx context.Context) error {
	d.logger.Info().Msg("Starting daemon")

	var wg sync.WaitGroup
	events := make(chan monitor.Event, 10)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := d.monitor.Run(ctx, events); err != nil && err != context.Canceled {
			d.logger.Error().Err(err).Msg("Monitor error")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.dispatcher.Run(ctx, events)
	}()

	wg.Wait()

	d.logger.Info().Msg("Daemon stopped")
	return nil
}

// Shutdown releases daemon resources
func (d *Daemon) Shutdown() error {
	if err := d.history.Close(); err != nil {
		return fmt.Errorf("failed to close play history: %w", err)
	}
	return nil
}
