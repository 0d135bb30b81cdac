//go:build linux

// Package epoll wraps the raw Linux epoll syscalls behind a small interface
// so the poll engine's dispatch/receive loop (poll/engine.go) stays
// platform-independent and mockable (spec §4.4: "the readiness mechanism is
// the platform's scalable I/O notifier").
package epoll

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Poller watches a single file descriptor for read-readiness.
type Poller struct {
	epfd int
	fd   int
}

// New creates an epoll instance watching fd for EPOLLIN, level-triggered
// (spec §4.4 permits either edge- or level-triggered as long as the loop
// drains to EWOULDBLOCK on each wake; level-triggered keeps the wrapper
// simple since a single fd is ever registered).
func New(fd int) (*Poller, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, errors.Wrap(err, "epoll: create")
	}
	event := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		unix.Close(epfd)
		return nil, errors.Wrap(err, "epoll: ctl add")
	}
	return &Poller{epfd: epfd, fd: fd}, nil
}

// Wait blocks up to timeoutMillis for the socket to become readable,
// reporting whether it did (spec §4.4 step 2: "wait up to T_poll for
// socket readiness").
func (p *Poller) Wait(timeoutMillis int) (ready bool, err error) {
	var events [1]unix.EpollEvent
	n, err := unix.EpollWait(p.epfd, events[:], timeoutMillis)
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, errors.Wrap(err, "epoll: wait")
	}
	return n > 0, nil
}

// Close releases the epoll instance. It does not close the watched fd.
func (p *Poller) Close() error {
	return unix.Close(p.epfd)
}
