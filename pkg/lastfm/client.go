// Package lastfm provides a client for the Last.fm API 2.0.
//
// This package implements the subset of the Last.fm API that a scrobbler
// needs: the token/session authentication handshake, user info, now playing
// updates, love/unlove, and scrobbling. It is designed to be used as a
// standalone SDK.
//
// Example usage:
//
//	import "github.com/needledrop/needledrop/pkg/lastfm"
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := client.Auth().GetToken(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Authorize at:", token.AuthURL)
package lastfm

import (
	"fmt"
	"net/http"
)

// Config holds client configuration.
type Config struct {
	APIKey     string       // Required: Last.fm API key
	APISecret  string       // Required: Last.fm API secret
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL    string       // Optional: Base URL for API (defaults to Last.fm API, used for testing)
	AuthURL    string       // Optional: Base URL for the browser approval page
	UserAgent  string       // Optional: User-Agent header value
	Logger     Logger       // Optional: Logger interface for debug logging

	// Optional: consulted before now playing and scrobble submissions.
	// When PrivateSession reports true those calls return success without
	// touching the network.
	Privacy PrivacyChecker
}

// Logger is an optional interface for debug logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// PrivacyChecker reports whether the user has enabled a private session.
type PrivacyChecker interface {
	PrivateSession() bool
}

// Client is the main entry point for Last.fm API operations.
type Client struct {
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	baseURL    string
	authURL    string
	userAgent  string
	logger     Logger
	privacy    PrivacyChecker

	auth  *AuthService
	user  *UserService
	track *TrackService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

	// DefaultAuthURL is the page where users approve an auth token.
	DefaultAuthURL = "https://www.last.fm/api/auth/"

	defaultUserAgent = "needledrop/1.0"
)

// NewClient creates a new Last.fm API client.
//
// Returns an error if required configuration (APIKey, APISecret) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("lastfm: APIKey is required")
	}
	if cfg.APISecret == "" {
		return nil, fmt.Errorf("lastfm: APISecret is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: httpClient,
		baseURL:    baseURL,
		authURL:    authURL,
		userAgent:  userAgent,
		logger:     cfg.Logger,
		privacy:    cfg.Privacy,
	}

	c.auth = &AuthService{client: c}
	c.user = &UserService{client: c}
	c.track = &TrackService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// User returns the user service.
func (c *Client) User() *UserService {
	return c.user
}

// Track returns the track service.
func (c *Client) Track() *TrackService {
	return c.track
}

// privateSession reports whether submissions should be suppressed.
func (c *Client) privateSession() bool {
	return c.privacy != nil && c.privacy.PrivateSession()
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
