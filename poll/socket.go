package poll

import (
	"net"
	"time"
)

// packetConn is the single-socket transport the engine drives (spec §4.4:
// "single non-blocking dual-stack UDP socket"). It is implemented by
// socket_linux.go (a raw AF_INET6 socket) and socket_other.go (a portable
// net.PacketConn fallback), and is the seam mocked in engine tests
// (poll/internal/mocks), mirroring the teacher's session.go Conn interface
// seam for gomock.
type packetConn interface {
	// SendTo transmits b to the given address, non-blocking; ok is false on
	// EWOULDBLOCK (spec §4.4 step 1: "Dispatch is non-blocking; on
	// EWOULDBLOCK the job is re-queued").
	SendTo(addr net.IP, port int, b []byte) (ok bool, err error)

	// WaitReadable blocks up to timeout for the socket to become readable
	// (spec §4.4 step 2: T_poll).
	WaitReadable(timeout time.Duration) (ready bool, err error)

	// RecvFrom reads one datagram, non-blocking; ok is false on
	// EWOULDBLOCK, signalling the receive drain loop to stop.
	RecvFrom(buf []byte) (n int, ok bool, err error)

	Close() error
}

// maxDatagramSize bounds a single read per spec §6: "Message size
// assumption: ≤64 KiB per datagram; larger responses are the agent's fault
// and cause decode failure."
const maxDatagramSize = 65535
