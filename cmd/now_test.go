package cmd

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPadToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "no padding when width is 0",
			input:    "Hello",
			width:    0,
			expected: "Hello",
		},
		{
			name:     "no padding when width is negative",
			input:    "Hello",
			width:    -1,
			expected: "Hello",
		},
		{
			name:     "pad short text with spaces",
			input:    "Hi",
			width:    10,
			expected: "Hi        ",
		},
		{
			name:     "exact width unchanged",
			input:    "Hello",
			width:    5,
			expected: "Hello",
		},
		{
			name:     "truncate long text with ellipsis",
			input:    "This is a very long string that needs truncation",
			width:    20,
			expected: "This is a very lo...",
		},
		{
			name:     "handle wide characters",
			input:    "日本語",
			width:    10,
			expected: "日本語    ",
		},
		{
			name:     "truncate wide character text",
			input:    "日本語とても長いテキスト",
			width:    10,
			expected: "日本語... ",
		},
		{
			name:     "empty string padding",
			input:    "",
			width:    5,
			expected: "     ",
		},
		{
			name:     "minimum width for truncation",
			input:    "Hello",
			width:    3,
			expected: "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := padToWidth(tt.input, tt.width)
			if result != tt.expected {
				t.Errorf("padToWidth(%q, %d) = %q, expected %q",
					tt.input, tt.width, result, tt.expected)
			}

			if tt.width > 0 {
				resultWidth := runewidth.StringWidth(result)
				if resultWidth != tt.width {
					t.Errorf("padToWidth(%q, %d) produced width %d, expected %d",
						tt.input, tt.width, resultWidth, tt.width)
				}
			}
		})
	}
}

func TestMarqueeText(t *testing.T) {
	t.Run("short text is padded statically", func(t *testing.T) {
		result := marqueeText("Hi", 10, 2, "   ")
		if result != "Hi        " {
			t.Errorf("marqueeText = %q, expected %q", result, "Hi        ")
		}
	})

	t.Run("long text produces exact window width", func(t *testing.T) {
		result := marqueeText("A very long song title that scrolls", 12, 2, "   ")
		if got := runewidth.StringWidth(result); got != 12 {
			t.Errorf("window width = %d, expected 12", got)
		}
	})

	t.Run("window content comes from the looped text", func(t *testing.T) {
		text := "abcdefghij"
		result := marqueeText(text, 4, 1, "|")
		looped := text + "|" + text + "|" + text
		if !strings.Contains(looped, strings.TrimRight(result, " ")) {
			t.Errorf("window %q not found in looped text", result)
		}
	})

	t.Run("zero width returns text unchanged", func(t *testing.T) {
		if got := marqueeText("Hello", 0, 2, "   "); got != "Hello" {
			t.Errorf("marqueeText = %q, expected %q", got, "Hello")
		}
	})
}

func TestFormatTrack(t *testing.T) {
	track := &nowTrack{
		Name:     "Karma Police",
		Artist:   "Radiohead",
		Album:    "OK Computer",
		Duration: 261,
		Position: 42.5,
	}

	tests := []struct {
		name     string
		format   string
		expected string
	}{
		{
			name:     "default format",
			format:   "{{.Artist}} - {{.Name}}",
			expected: "Radiohead - Karma Police",
		},
		{
			name:     "album format",
			format:   "{{.Name}} ({{.Album}})",
			expected: "Karma Police (OK Computer)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := formatTrack(track, tt.format)
			if err != nil {
				t.Fatalf("formatTrack failed: %v", err)
			}
			if result != tt.expected {
				t.Errorf("formatTrack = %q, expected %q", result, tt.expected)
			}
		})
	}

	t.Run("invalid template", func(t *testing.T) {
		if _, err := formatTrack(track, "{{.Artist"); err == nil {
			t.Error("expected error for invalid template")
		}
	})
}
