package classify

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Kind
	}{
		{
			name:    "file not found",
			message: "File not found: /tmp/audio.mp3",
			want:    Permanent,
		},
		{
			name:    "unsupported format",
			message: "Unsupported file format: .txt",
			want:    Permanent,
		},
		{
			name:    "oversized file mixed case",
			message: "FILE TOO LARGE: 600000000 bytes",
			want:    Permanent,
		},
		{
			name:    "empty file",
			message: "File is empty",
			want:    Permanent,
		},
		{
			name:    "bad credentials",
			message: "Invalid API Key provided",
			want:    Permanent,
		},
		{
			name:    "unauthorized",
			message: "provider returned status 401: Unauthorized",
			want:    Permanent,
		},
		{
			name:    "forbidden",
			message: "provider returned status 403: Forbidden",
			want:    Permanent,
		},
		{
			name:    "domain not allowed",
			message: "unsupported URL domain: example.com",
			want:    Permanent,
		},
		{
			name:    "private video",
			message: "ERROR: Private video. Sign in if you've been granted access",
			want:    Permanent,
		},
		{
			name:    "removed video",
			message: "ERROR: Video unavailable",
			want:    Permanent,
		},
		{
			name:    "bot check",
			message: "Sign in to confirm you're not a bot",
			want:    Permanent,
		},
		{
			name:    "network reset",
			message: "read tcp 10.0.0.2:443: connection reset by peer",
			want:    Transient,
		},
		{
			name:    "timeout",
			message: "context deadline exceeded",
			want:    Transient,
		},
		{
			name:    "rate limited",
			message: "provider returned status 429: Too Many Requests",
			want:    Transient,
		},
		{
			name:    "server error",
			message: "provider returned status 500: internal error",
			want:    Transient,
		},
		{
			name:    "empty message",
			message: "",
			want:    Transient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMessage(tt.message); got != tt.want {
				t.Errorf("ClassifyMessage(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "nil error",
			err:  nil,
			want: Transient,
		},
		{
			name: "typed permanent",
			err:  Permanentf("unsupported file format: %s", ".txt"),
			want: Permanent,
		},
		{
			name: "typed transient wins over pattern table",
			err:  Transientf("file too large right now, storage still syncing"),
			want: Transient,
		},
		{
			name: "wrapped typed error",
			err:  fmt.Errorf("transcribe entry: %w", Permanentf("file is empty")),
			want: Permanent,
		},
		{
			name: "untyped falls back to pattern table",
			err:  errors.New("Unauthorized"),
			want: Permanent,
		},
		{
			name: "untyped transient",
			err:  errors.New("dial tcp: i/o timeout"),
			want: Transient,
		},
		{
			name: "duration probe failure",
			err:  ErrDurationUnavailable,
			want: Transient,
		},
		{
			name: "ineffective segmentation",
			err:  ErrSegmentationIneffective,
			want: Permanent,
		},
		{
			name: "wrapped sentinel",
			err:  fmt.Errorf("split media: %w", ErrSegmentationIneffective),
			want: Permanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("split media: %w", ErrSegmentationIneffective)
	if !errors.Is(wrapped, ErrSegmentationIneffective) {
		t.Error("errors.Is should match the wrapped sentinel")
	}

	err := Permanentf("file not found: %s", "a.mp3")
	if err.Error() != "file not found: a.mp3" {
		t.Errorf("Error() = %q, want %q", err.Error(), "file not found: a.mp3")
	}
}

func TestKindString(t *testing.T) {
	if Permanent.String() != "permanent" {
		t.Errorf("Permanent.String() = %q", Permanent.String())
	}
	if Transient.String() != "transient" {
		t.Errorf("Transient.String() = %q", Transient.String())
	}
}
