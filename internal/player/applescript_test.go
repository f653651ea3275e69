package player

import (
	"bytes"
	"testing"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnknown, "unknown"},
		{StateStopped, "stopped"},
		{StatePlaying, "playing"},
		{StatePaused, "paused"},
		{StateSeeking, "seeking"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestParseArtworkData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []byte
	}{
		{
			name: "valid descriptor",
			raw:  "«data tdta89504E47»",
			want: []byte{0x89, 0x50, 0x4E, 0x47},
		},
		{
			name: "missing value",
			raw:  "missing value",
			want: nil,
		},
		{
			name: "empty payload",
			raw:  "«data tdta»",
			want: nil,
		},
		{
			name: "bad hex",
			raw:  "«data tdtaZZ»",
			want: nil,
		},
		{
			name: "no descriptor wrapper",
			raw:  "89504E47",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseArtworkData(tt.raw)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("parseArtworkData(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
