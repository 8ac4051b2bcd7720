package chat

import (
	"bytes"
	"io"
	"strings"

	"linechat/internal/pkg/errs"
)

const readChunkSize = 4096

// ErrLineTooLong is returned by Decoder.Next for a line that exceeded the size limit.
// The line has been discarded up to its terminator; the next call continues normally.
var ErrLineTooLong = errs.NewError(errs.ErrLineTooLong)

// Decoder splits a byte stream into '\n'-terminated frames.
//
// A frame is only produced once its terminator has been read, so a partial line
// delivered across several reads is buffered, and an unterminated tail at end of
// stream is dropped. Decoder is owned by a single reader goroutine.
type Decoder struct {
	r          io.Reader
	chunk      []byte
	pending    []byte
	maxLine    int
	discarding bool
	err        error
}

// NewDecoder returns a Decoder reading from r. maxLine bounds the bytes buffered for
// one frame; values <= 0 disable the bound.
func NewDecoder(r io.Reader, maxLine int) *Decoder {
	return &Decoder{
		r:       r,
		chunk:   make([]byte, readChunkSize),
		maxLine: maxLine,
	}
}

// Next returns the next frame, trimmed of surrounding whitespace.
// Once the underlying reader fails, every call returns that error.
func (d *Decoder) Next() (string, error) {
	for {
		if i := bytes.IndexByte(d.pending, '\n'); i >= 0 {
			line := string(d.pending[:i])
			d.pending = append(d.pending[:0], d.pending[i+1:]...)

			if d.discarding || (d.maxLine > 0 && len(line) > d.maxLine) {
				d.discarding = false
				return "", ErrLineTooLong
			}
			return normalizeFrame(line), nil
		}

		if d.discarding || (d.maxLine > 0 && len(d.pending) > d.maxLine) {
			d.discarding = true
			d.pending = d.pending[:0]
		}

		if d.err != nil {
			return "", d.err
		}

		n, err := d.r.Read(d.chunk)
		d.pending = append(d.pending, d.chunk[:n]...)
		if err != nil {
			d.err = err
		}
	}
}

// Buffered returns the number of bytes read but not yet emitted as a frame.
func (d *Decoder) Buffered() int {
	return len(d.pending)
}

func normalizeFrame(line string) string {
	return strings.TrimSpace(strings.ToValidUTF8(line, "\uFFFD"))
}
