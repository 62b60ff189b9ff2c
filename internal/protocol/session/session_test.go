package session

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/danmuck/mapcctl/internal/protocol/frame"
	"github.com/danmuck/mapcctl/internal/testutil/testlog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func collect(t *testing.T, c *Conn) []string {
	t.Helper()
	var out []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case f, ok := <-c.Frames():
			if !ok {
				return out
			}
			out = append(out, string(f))
		case <-timeout:
			t.Fatalf("timed out waiting for frames")
		}
	}
}

func TestFramesDeliveredInOrderAcrossWrites(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	c := NewConn(client, DefaultConfig())
	defer c.Close()

	go func() {
		for _, chunk := range []string{"<a", "/>\x00<b/", ">\x00", "<c/>\x00"} {
			if _, err := server.Write([]byte(chunk)); err != nil {
				return
			}
		}
		_ = server.Close()
	}()

	got := collect(t, c)
	want := []string{"<a/>", "<b/>", "<c/>"}
	if len(got) != len(want) {
		t.Fatalf("unexpected frames: %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame[%d] got=%q want=%q", i, got[i], want[i])
		}
	}
	if !errors.Is(c.Err(), io.EOF) {
		t.Fatalf("expected io.EOF, got %v", c.Err())
	}
}

func TestCloseStopsReader(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	defer server.Close()
	c := NewConn(client, DefaultConfig())

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if got := collect(t, c); len(got) != 0 {
		t.Fatalf("unexpected frames after close: %q", got)
	}
	if !errors.Is(c.Err(), ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", c.Err())
	}
	if err := c.Send([]byte("<message/>")); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed on send, got %v", err)
	}
}

func TestOversizedFrameLosesConnection(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	defer server.Close()
	cfg := DefaultConfig()
	cfg.Limits = frame.Limits{MaxFrameBytes: 4}
	c := NewConn(client, cfg)

	go func() {
		_, _ = server.Write([]byte("0123456789"))
	}()

	if got := collect(t, c); len(got) != 0 {
		t.Fatalf("unexpected frames: %q", got)
	}
	if !errors.Is(c.Err(), frame.ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", c.Err())
	}
}

func TestDialAndSend(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		frames, _ := frame.NewDecoder(frame.DefaultLimits()).Feed(readUntilTerminator(conn))
		if len(frames) > 0 {
			received <- frames[0]
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, ln.Addr().String(), DefaultConfig())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if err := c.Send([]byte("<message/>")); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case got := <-received:
		if string(got) != "<message/>" {
			t.Fatalf("unexpected frame: %q", got)
		}
	case <-ctx.Done():
		t.Fatalf("server never received frame")
	}
	collect(t, c)
}

func TestSendRejectsEmbeddedTerminator(t *testing.T) {
	testlog.Start(t)
	client, server := net.Pipe()
	defer server.Close()
	c := NewConn(client, DefaultConfig())
	defer c.Close()
	if err := c.Send([]byte("a\x00b")); !errors.Is(err, frame.ErrEmbeddedTerminator) {
		t.Fatalf("expected ErrEmbeddedTerminator, got %v", err)
	}
}

func TestDialRequiresAddress(t *testing.T) {
	testlog.Start(t)
	if _, err := Dial(context.Background(), "", DefaultConfig()); !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func readUntilTerminator(r io.Reader) []byte {
	var out []byte
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		for _, b := range buf[:n] {
			if b == frame.Terminator {
				return out
			}
		}
		if err != nil {
			return out
		}
	}
}
