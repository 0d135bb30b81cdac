//go:build !linux

package poll

import (
	"net"
	"time"

	"github.com/pkg/errors"
)

// portableSocket is the non-Linux fallback transport: a standard
// net.PacketConn. It cannot offer epoll-style readiness notification
// without consuming the datagram it peeks at, so WaitReadable performs the
// actual first read (with a T_poll deadline) and stashes it for the
// following RecvFrom call — functionally equivalent for this engine's
// purposes (spec §4.4 leaves the readiness mechanism "implementation
// free").
type portableSocket struct {
	conn    net.PacketConn
	pending []byte
}

func newSocket() (packetConn, error) {
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, errors.Wrap(err, "listen")
	}
	return &portableSocket{conn: conn}, nil
}

func (s *portableSocket) SendTo(addr net.IP, port int, b []byte) (bool, error) {
	_, err := s.conn.WriteTo(b, &net.UDPAddr{IP: addr, Port: port})
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return false, nil
		}
		return false, errors.Wrap(err, "write")
	}
	return true, nil
}

func (s *portableSocket) WaitReadable(timeout time.Duration) (bool, error) {
	if s.pending != nil {
		return true, nil
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return false, errors.Wrap(err, "set read deadline")
	}
	buf := make([]byte, maxDatagramSize)
	n, _, err := s.conn.ReadFrom(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return false, nil
		}
		return false, errors.Wrap(err, "read")
	}
	s.pending = buf[:n]
	return true, nil
}

func (s *portableSocket) RecvFrom(buf []byte) (int, bool, error) {
	if s.pending != nil {
		n := copy(buf, s.pending)
		s.pending = nil
		return n, true, nil
	}

	if err := s.conn.SetReadDeadline(time.Now()); err != nil {
		return 0, false, errors.Wrap(err, "set read deadline")
	}
	n, _, err := s.conn.ReadFrom(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "read")
	}
	return n, true, nil
}

func (s *portableSocket) Close() error {
	return s.conn.Close()
}
