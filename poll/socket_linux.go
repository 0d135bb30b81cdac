//go:build linux

package poll

import (
	"net"
	"time"

	"github.com/gescheit/fastsnmp/poll/internal/epoll"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// minRecvBuffer is the floor for SO_RCVBUF (spec §4.4: "sized generously
// (≥16 MiB) to absorb bursts from hundreds of responders").
const minRecvBuffer = 16 * 1024 * 1024

// rawSocket is a non-blocking, dual-stack (AF_INET6 with IPV6_V6ONLY
// disabled) UDP socket, so IPv4 targets expressed as v4-mapped-v6
// addresses and native IPv6 targets share one socket (spec §4.4).
type rawSocket struct {
	fd   int
	poll *epoll.Poller
}

func newSocket() (packetConn, error) {
	fd, err := unix.Socket(unix.AF_INET6, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return nil, errors.Wrap(err, "socket")
	}
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "disable ipv6-only")
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, minRecvBuffer); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "set recv buffer")
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "set non-blocking")
	}
	addr := &unix.SockaddrInet6{Port: 0}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "bind")
	}

	poller, err := epoll.New(fd)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &rawSocket{fd: fd, poll: poller}, nil
}

func (s *rawSocket) SendTo(addr net.IP, port int, b []byte) (bool, error) {
	var a16 [16]byte
	copy(a16[:], addr.To16())
	sa := &unix.SockaddrInet6{Port: port, Addr: a16}
	err := unix.Sendto(s.fd, b, 0, sa)
	if err == unix.EWOULDBLOCK || err == unix.EAGAIN {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "sendto")
	}
	return true, nil
}

func (s *rawSocket) WaitReadable(timeout time.Duration) (bool, error) {
	return s.poll.Wait(int(timeout / time.Millisecond))
}

func (s *rawSocket) RecvFrom(buf []byte) (int, bool, error) {
	n, _, err := unix.Recvfrom(s.fd, buf, 0)
	if err == unix.EWOULDBLOCK || err == unix.EAGAIN {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "recvfrom")
	}
	return n, true, nil
}

func (s *rawSocket) Close() error {
	s.poll.Close()
	return unix.Close(s.fd)
}
