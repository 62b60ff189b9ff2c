package frame

import (
	"bytes"
	"errors"
	"io"
)

// Terminator ends every frame on the wire. It never appears inside a
// well-formed message.
const Terminator byte = 0x00

var (
	ErrFrameTooLarge      = errors.New("frame: frame too large")
	ErrEmbeddedTerminator = errors.New("frame: payload contains terminator")
)

// Limits constrains decoder memory use.
type Limits struct {
	MaxFrameBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxFrameBytes: 4 * 1024 * 1024,
	}
}

// Decoder accumulates stream bytes and splits them into frames.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	limits  Limits
	buf     []byte
	scanned int
}

func NewDecoder(limits Limits) *Decoder {
	return &Decoder{limits: limits}
}

// Feed appends p to the buffer and returns every frame completed by it,
// terminator stripped, in stream order. Returned frames do not alias the
// decoder's buffer. An incomplete tail stays buffered for the next call.
func (d *Decoder) Feed(p []byte) ([][]byte, error) {
	d.buf = append(d.buf, p...)

	var frames [][]byte
	start := 0
	for {
		i := bytes.IndexByte(d.buf[d.scanned:], Terminator)
		if i < 0 {
			break
		}
		end := d.scanned + i
		frames = append(frames, bytes.Clone(d.buf[start:end]))
		start = end + 1
		d.scanned = start
	}

	if start > 0 {
		n := copy(d.buf, d.buf[start:])
		d.buf = d.buf[:n]
	}
	d.scanned = len(d.buf)

	if d.limits.MaxFrameBytes > 0 && len(d.buf) > d.limits.MaxFrameBytes {
		return frames, ErrFrameTooLarge
	}
	return frames, nil
}

// Buffered reports the length of the incomplete tail.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Encode returns payload followed by the terminator.
func Encode(payload []byte) ([]byte, error) {
	if bytes.IndexByte(payload, Terminator) >= 0 {
		return nil, ErrEmbeddedTerminator
	}
	out := make([]byte, 0, len(payload)+1)
	out = append(out, payload...)
	return append(out, Terminator), nil
}

func WriteFrame(w io.Writer, payload []byte) error {
	b, err := Encode(payload)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
