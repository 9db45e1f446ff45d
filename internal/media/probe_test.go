package media

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nezhar/voicevault/internal/classify"
	"github.com/nezhar/voicevault/internal/logger"
)

type fakeExecutor struct {
	output    string
	err       error
	calls     [][]string
	onExecute func(name string, args []string) (string, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.onExecute != nil {
		return f.onExecute(name, args)
	}
	return f.output, f.err
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		want    float64
		wantErr bool
	}{
		{
			name:   "parses ffprobe output",
			output: "1834.56\n",
			want:   1834.56,
		},
		{
			name:    "ffprobe failure",
			err:     errors.New("command 'ffprobe' failed: exit status 1"),
			wantErr: true,
		},
		{
			name:    "unparsable output",
			output:  "N/A\n",
			wantErr: true,
		},
		{
			name:    "zero duration",
			output:  "0.0\n",
			wantErr: true,
		},
		{
			// ParseFloat parses "nan" without error.
			name:    "not-a-number duration",
			output:  "nan\n",
			wantErr: true,
		},
		{
			name:    "infinite duration",
			output:  "inf\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{output: tt.output, err: tt.err}
			m := New(exec, logger.New("error"))

			got, err := m.Duration(context.Background(), "/tmp/audio.mp3")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Duration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, classify.ErrDurationUnavailable) {
					t.Errorf("error %v should wrap ErrDurationUnavailable", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDurationInvokesFFprobe(t *testing.T) {
	exec := &fakeExecutor{output: "12.0"}
	m := New(exec, logger.New("error"))

	if _, err := m.Duration(context.Background(), "/tmp/audio.mp3"); err != nil {
		t.Fatalf("Duration() error = %v", err)
	}

	if len(exec.calls) != 1 {
		t.Fatalf("got %d executor calls, want 1", len(exec.calls))
	}
	call := exec.calls[0]
	if call[0] != "ffprobe" {
		t.Errorf("command = %q, want ffprobe", call[0])
	}
	if call[len(call)-1] != "/tmp/audio.mp3" {
		t.Errorf("last arg = %q, want the media path", call[len(call)-1])
	}
	want := fmt.Sprintf("%v", []string{"ffprobe", "-v", "quiet", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", "/tmp/audio.mp3"})
	if fmt.Sprintf("%v", call) != want {
		t.Errorf("call = %v, want %v", call, want)
	}
}
