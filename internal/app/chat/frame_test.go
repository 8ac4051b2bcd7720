package chat

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collectFrames(t *testing.T, d *Decoder) ([]string, error) {
	t.Helper()
	var frames []string
	for {
		frame, err := d.Next()
		if err != nil {
			return frames, err
		}
		frames = append(frames, frame)
	}
}

func TestDecoderJoinsSplitReads(t *testing.T) {
	d := NewDecoder(&chunkReader{chunks: []string{"al", "ice\n"}}, 64)

	frame, err := d.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if frame != "alice" {
		t.Fatalf("expected %q, got %q", "alice", frame)
	}

	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestDecoderSplitsOneReadIntoFrames(t *testing.T) {
	d := NewDecoder(&chunkReader{chunks: []string{"hello\r\n  spaced out  \n\n/users\n"}}, 64)

	frames, err := collectFrames(t, d)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	want := []string{"hello", "spaced out", "", "/users"}
	if diff := cmp.Diff(want, frames); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoderDropsUnterminatedTail(t *testing.T) {
	d := NewDecoder(&chunkReader{chunks: []string{"complete\npart", "ial"}}, 64)

	frames, err := collectFrames(t, d)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if diff := cmp.Diff([]string{"complete"}, frames); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}

	// The error is sticky.
	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF on repeat, got %v", err)
	}
}

func TestDecoderLineTooLong(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
	}{
		{name: "single read", chunks: []string{"0123456789abc\nok\n"}},
		{name: "across reads", chunks: []string{"0123456789", "abcdef", "\nok\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(&chunkReader{chunks: tt.chunks}, 8)

			if _, err := d.Next(); !errors.Is(err, ErrLineTooLong) {
				t.Fatalf("expected ErrLineTooLong, got %v", err)
			}

			frame, err := d.Next()
			if err != nil {
				t.Fatalf("Next after oversized line: %v", err)
			}
			if frame != "ok" {
				t.Fatalf("expected %q, got %q", "ok", frame)
			}
		})
	}
}

func TestDecoderReplacesInvalidUTF8(t *testing.T) {
	d := NewDecoder(&chunkReader{chunks: []string{"bad\xffbyte\n"}}, 64)

	frame, err := d.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if frame != "bad�byte" {
		t.Fatalf("expected replacement character, got %q", frame)
	}
}
