package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/needledrop/needledrop/pkg/lastfm"
	"github.com/rs/zerolog"
)

// newTestFlow wires a flow against an httptest API server with a short
// poll interval.
func newTestFlow(t *testing.T, handler http.HandlerFunc) *Flow {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:    "k",
		APISecret: "s",
		BaseURL:   server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	flow := New(client, zerolog.Nop())
	flow.interval = 5 * time.Millisecond
	return flow
}

func TestFlow_SuccessAfterPendingPolls(t *testing.T) {
	var sessionCalls atomic.Int64

	flow := newTestFlow(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		switch r.FormValue("method") {
		case "auth.gettoken":
			_, _ = w.Write([]byte(`{"token":"tok-1"}`))
		case "auth.getSession":
			// Two pending responses, then approval.
			if sessionCalls.Add(1) <= 2 {
				_, _ = w.Write([]byte(`{"error":14,"message":"not authorized"}`))
				return
			}
			_, _ = w.Write([]byte(`{"session":{"name":"victor","key":"sess-key","subscriber":1}}`))
		case "user.getInfo":
			_, _ = w.Write([]byte(`{"user":{"url":"https://www.last.fm/user/victor","image":[]}}`))
		default:
			t.Errorf("unexpected method %s", r.FormValue("method"))
		}
	})

	var phases []Phase
	flow.OnPhase(func(p Phase) { phases = append(phases, p) })

	var approvalURL string
	flow.OnApprovalURL(func(u string) { approvalURL = u })

	session, err := flow.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if session.Key != "sess-key" || session.Name != "victor" || !session.Subscriber {
		t.Errorf("unexpected session %+v", session)
	}
	if session.ProfileURL != "https://www.last.fm/user/victor" {
		t.Errorf("unexpected profile URL %q", session.ProfileURL)
	}
	if !strings.Contains(approvalURL, "token=tok-1") {
		t.Errorf("expected approval URL with token, got %q", approvalURL)
	}
	if got := sessionCalls.Load(); got != 3 {
		t.Errorf("expected 3 session polls, got %d", got)
	}

	want := []Phase{PhaseGeneratingToken, PhaseWaitingForApproval, PhaseFinishingUp, PhaseDone}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d: expected %v, got %v", i, want[i], phases[i])
		}
	}
}

func TestFlow_TerminalAPIErrorStopsPolling(t *testing.T) {
	flow := newTestFlow(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		switch r.FormValue("method") {
		case "auth.gettoken":
			_, _ = w.Write([]byte(`{"token":"tok-1"}`))
		case "auth.getSession":
			_, _ = w.Write([]byte(`{"error":4,"message":"Authentication Failed"}`))
		}
	})

	_, err := flow.Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Authentication Failed") {
		t.Errorf("expected API message to surface, got %q", err.Error())
	}
}

func TestFlow_TransportErrorStopsPolling(t *testing.T) {
	var tokenIssued atomic.Bool
	flow := newTestFlow(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.FormValue("method") == "auth.gettoken" && !tokenIssued.Swap(true) {
			_, _ = w.Write([]byte(`{"token":"tok-1"}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	})

	_, err := flow.Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "http error 502") {
		t.Errorf("expected transport error to surface, got %q", err.Error())
	}
}

func TestFlow_CancelledWhileWaiting(t *testing.T) {
	flow := newTestFlow(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		switch r.FormValue("method") {
		case "auth.gettoken":
			_, _ = w.Write([]byte(`{"token":"tok-1"}`))
		case "auth.getSession":
			_, _ = w.Write([]byte(`{"error":14,"message":"not authorized"}`))
		}
	})

	var phases []Phase
	flow.OnPhase(func(p Phase) { phases = append(phases, p) })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := flow.Run(ctx)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	for _, p := range phases {
		if p == PhaseFinishingUp || p == PhaseDone {
			t.Errorf("cancelled flow must not progress past waiting, saw %v", p)
		}
	}
}

func TestFlow_GetTokenFailure(t *testing.T) {
	flow := newTestFlow(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":10,"message":"Invalid API key"}`))
	})

	_, err := flow.Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("expected token error to surface, got %q", err.Error())
	}
}

func TestPickAvatarURL(t *testing.T) {
	tests := []struct {
		name   string
		images []lastfm.UserImage
		want   string
	}{
		{
			name: "prefers medium",
			images: []lastfm.UserImage{
				{Size: "small", URL: "s"},
				{Size: "medium", URL: "m"},
				{Size: "large", URL: "l"},
			},
			want: "m",
		},
		{
			name: "falls back to first",
			images: []lastfm.UserImage{
				{Size: "small", URL: "s"},
				{Size: "large", URL: "l"},
			},
			want: "s",
		},
		{
			name:   "empty",
			images: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickAvatarURL(tt.images); got != tt.want {
				t.Errorf("pickAvatarURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
