package lastfm

import (
	"testing"
)

func TestCalculateSignature(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		secret string
		want   string
	}{
		{
			name: "known digest",
			params: map[string]string{
				"method":  "auth.gettoken",
				"api_key": "abc",
			},
			secret: "secret",
			// md5("api_keyabcmethodauth.gettokensecret")
			want: "02800112d2cec60e21c00131c9b671f7",
		},
		{
			name: "keys sorted by byte value",
			params: map[string]string{
				"b": "2",
				"a": "1",
			},
			secret: "secret",
			// md5("a1b2secret")
			want: "670699129dd49818b5abd9e7c2fd6569",
		},
		{
			name: "format parameter excluded",
			params: map[string]string{
				"a":      "1",
				"b":      "2",
				"format": "json",
			},
			secret: "secret",
			want:   "670699129dd49818b5abd9e7c2fd6569",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateSignature(tt.params, tt.secret)
			if got != tt.want {
				t.Errorf("calculateSignature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCalculateSignature_InsertionOrderIrrelevant(t *testing.T) {
	first := map[string]string{}
	first["b"] = "2"
	first["a"] = "1"

	second := map[string]string{}
	second["a"] = "1"
	second["b"] = "2"

	if calculateSignature(first, "s") != calculateSignature(second, "s") {
		t.Error("signature depends on map insertion order")
	}
}

func TestCalculateSignature_Deterministic(t *testing.T) {
	params := map[string]string{
		"method":  "track.scrobble",
		"api_key": "key",
		"artist":  "Boards of Canada",
		"track":   "Roygbiv",
		"sk":      "session",
	}

	first := calculateSignature(params, "secret")
	for i := 0; i < 10; i++ {
		if got := calculateSignature(params, "secret"); got != first {
			t.Fatalf("signature not deterministic: %q vs %q", got, first)
		}
	}
}
