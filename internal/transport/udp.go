// Package transport implements the unreliable, unordered datagram
// transport the wire protocol assumes (spec.md §6). Unlike the
// teacher's gorilla/websocket connections — reliable and ordered by
// construction, the wrong shape for a protocol designed to tolerate
// loss and reordering — this is a raw net.UDPConn with one read loop, grounded
// in _examples/Ancillary-AGI-foundry's networking/server package.
package transport

import (
	"net"

	"github.com/pkg/errors"
)

// MaxDatagramSize bounds a single read; anything larger is almost
// certainly not one of ours and is dropped rather than partially parsed.
const MaxDatagramSize = 2048

// Received is one inbound datagram and the address it came from —
// a PlayerToken is not resolvable at this layer, that happens once the
// datagram is decoded by internal/wire.
type Received struct {
	Data []byte
	Addr *net.UDPAddr
}

// Server owns the UDP socket and fans inbound datagrams out to In,
// while Send lets any goroutine write an outbound datagram without
// synchronizing on the socket itself (net.UDPConn is safe for
// concurrent use by multiple goroutines).
type Server struct {
	conn *net.UDPConn
	In   chan Received
}

func Listen(addr string) (*Server, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: resolve %s", addr)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: listen %s", addr)
	}
	return &Server{conn: conn, In: make(chan Received, 1024)}, nil
}

// Run reads datagrams until the socket is closed, pushing each onto
// In. It does not retry or reassemble — a dropped or truncated
// datagram is simply a tick the client will recover from on the next one.
func (s *Server) Run() error {
	buf := make([]byte, MaxDatagramSize)
	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return errors.Wrap(err, "transport: read")
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		s.In <- Received{Data: data, Addr: addr}
	}
}

func (s *Server) Send(data []byte, addr *net.UDPAddr) error {
	_, err := s.conn.WriteToUDP(data, addr)
	return errors.Wrap(err, "transport: write")
}

func (s *Server) Close() error { return s.conn.Close() }
