// Package simserver is a scripted stand-in for the simulation server used
// by tests. It accepts connections on a loopback port and lets the test
// read the agent's frames and write its own.
package simserver

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/danmuck/mapcctl/internal/protocol"
	"github.com/danmuck/mapcctl/internal/protocol/frame"
)

const ioTimeout = 5 * time.Second

type Server struct {
	ln    net.Listener
	conns chan net.Conn
}

// Start listens on 127.0.0.1 and accepts until the test ends.
func Start(t *testing.T) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("simserver: listen: %v", err)
	}
	s := &Server{ln: ln, conns: make(chan net.Conn, 4)}
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			select {
			case s.conns <- conn:
			case <-stop:
				_ = conn.Close()
				return
			}
		}
	}()
	t.Cleanup(func() {
		close(stop)
		_ = ln.Close()
		<-done
		close(s.conns)
		for conn := range s.conns {
			_ = conn.Close()
		}
	})
	return s
}

func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Accept waits for the next agent connection.
func (s *Server) Accept(t *testing.T) *Peer {
	t.Helper()
	select {
	case conn := <-s.conns:
		p := &Peer{conn: conn, dec: frame.NewDecoder(frame.DefaultLimits())}
		t.Cleanup(func() { _ = p.Close() })
		return p
	case <-time.After(ioTimeout):
		t.Fatalf("simserver: no connection within %v", ioTimeout)
		return nil
	}
}

// Peer is the server side of one agent connection.
type Peer struct {
	conn    net.Conn
	dec     *frame.Decoder
	pending [][]byte
}

// Send writes doc as one frame.
func (p *Peer) Send(t *testing.T, doc string) {
	t.Helper()
	p.SendRaw(t, []byte(doc+"\x00"))
}

// SendRaw writes b unframed, for split-frame tests.
func (p *Peer) SendRaw(t *testing.T, b []byte) {
	t.Helper()
	_ = p.conn.SetWriteDeadline(time.Now().Add(ioTimeout))
	if _, err := p.conn.Write(b); err != nil {
		t.Fatalf("simserver: write: %v", err)
	}
}

// Next returns the next frame the agent sent, parsed.
func (p *Peer) Next(t *testing.T) protocol.Element {
	t.Helper()
	f, err := p.NextFrame()
	if err != nil {
		t.Fatalf("simserver: read frame: %v", err)
	}
	root, err := protocol.Parse(f)
	if err != nil {
		t.Fatalf("simserver: parse frame %q: %v", f, err)
	}
	return root
}

// NextFrame returns the next raw frame, or the read error once the agent
// has closed its side.
func (p *Peer) NextFrame() ([]byte, error) {
	buf := make([]byte, 4096)
	for len(p.pending) == 0 {
		_ = p.conn.SetReadDeadline(time.Now().Add(ioTimeout))
		n, err := p.conn.Read(buf)
		if n > 0 {
			frames, ferr := p.dec.Feed(buf[:n])
			if ferr != nil {
				return nil, ferr
			}
			p.pending = append(p.pending, frames...)
		}
		if err != nil && len(p.pending) == 0 {
			return nil, err
		}
	}
	f := p.pending[0]
	p.pending = p.pending[1:]
	return f, nil
}

// WaitClosed drains the connection until the agent closes it.
func (p *Peer) WaitClosed(t *testing.T) {
	t.Helper()
	for {
		_, err := p.NextFrame()
		if err == nil {
			continue
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			t.Fatalf("simserver: agent did not close connection: %v", err)
		}
		return
	}
}

func (p *Peer) Close() error {
	return p.conn.Close()
}
