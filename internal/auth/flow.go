// Package auth orchestrates the Last.fm login flow: request a token, send
// the user to the browser approval page, poll for the session exchange, and
// finish by fetching the user's profile.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/needledrop/needledrop/pkg/lastfm"
	"github.com/rs/zerolog"
)

// Phase is the host-visible progress of a login flow.
type Phase int

const (
	// PhaseGeneratingToken covers the initial token request.
	PhaseGeneratingToken Phase = iota
	// PhaseWaitingForApproval covers the browser-approval polling loop.
	PhaseWaitingForApproval
	// PhaseFinishingUp covers the profile fetch after approval.
	PhaseFinishingUp
	// PhaseDone means the session is complete.
	PhaseDone
)

// String returns a human-readable representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseGeneratingToken:
		return "generating token"
	case PhaseWaitingForApproval:
		return "waiting for approval"
	case PhaseFinishingUp:
		return "finishing up"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Session is the completed result of a login flow. The caller is
// responsible for persisting it.
type Session struct {
	Key        string
	Name       string
	Subscriber bool
	ProfileURL string
	Avatar     []byte
}

// DefaultPollInterval is how often the flow polls for browser approval.
const DefaultPollInterval = 2 * time.Second

// Flow runs the token → approval → session login sequence.
type Flow struct {
	client   *lastfm.Client
	interval time.Duration
	logger   zerolog.Logger

	onPhase       func(Phase)
	onApprovalURL func(string)
}

// New creates a login flow.
func New(client *lastfm.Client, logger zerolog.Logger) *Flow {
	return &Flow{
		client:   client,
		interval: DefaultPollInterval,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// OnPhase registers a callback invoked on each phase transition.
func (f *Flow) OnPhase(fn func(Phase)) {
	f.onPhase = fn
}

// OnApprovalURL registers a callback invoked once with the browser URL the
// user must visit. The host typically opens it.
func (f *Flow) OnApprovalURL(fn func(string)) {
	f.onApprovalURL = fn
}

func (f *Flow) setPhase(p Phase) {
	f.logger.Debug().Str("phase", p.String()).Msg("Login phase changed")
	if f.onPhase != nil {
		f.onPhase(p)
	}
}

// Run executes the flow. It returns the completed session, or the first
// terminal error, or the context's error if cancelled. The loop has exactly
// three exits: success, error, cancellation; nothing is persisted here, so
// a cancelled flow leaves no partial state behind.
func (f *Flow) Run(ctx context.Context) (*Session, error) {
	f.setPhase(PhaseGeneratingToken)

	token, err := f.client.Auth().GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}

	if f.onApprovalURL != nil {
		f.onApprovalURL(token.AuthURL)
	}
	f.setPhase(PhaseWaitingForApproval)

	session, err := f.pollSession(ctx, token.Token)
	if err != nil {
		return nil, err
	}

	f.setPhase(PhaseFinishingUp)

	info, err := f.client.User().GetInfo(ctx, session.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	// Avatar fetch is best-effort and never blocks login.
	avatar, _ := f.client.User().GetImage(ctx, pickAvatarURL(info.Images))

	f.setPhase(PhaseDone)

	return &Session{
		Key:        session.Key,
		Name:       session.Name,
		Subscriber: session.Subscriber,
		ProfileURL: info.URL,
		Avatar:     avatar,
	}, nil
}

// pollSession polls auth.getSession until the user approves the token in
// the browser. API error 14 means "not yet approved" and keeps the loop
// going; any other error is terminal.
func (f *Flow) pollSession(ctx context.Context, token string) (*lastfm.Session, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.interval):
		}

		session, err := f.client.Auth().GetSession(ctx, token)
		if err != nil {
			if lastfm.IsPendingAuthorization(err) {
				f.logger.Debug().Msg("Token not yet approved, polling again")
				continue
			}
			return nil, fmt.Errorf("failed to exchange session: %w", err)
		}
		return session, nil
	}
}

// pickAvatarURL prefers the medium rendition, falling back to the first.
func pickAvatarURL(images []lastfm.UserImage) string {
	for _, img := range images {
		if img.Size == "medium" {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}
