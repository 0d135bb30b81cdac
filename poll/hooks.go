package poll

import (
	"encoding/hex"
	"log"
	"time"
)

// Hooks defines the tracing/diagnostic callbacks the engine invokes during
// its run. Mirrors the teacher's SessionTrace pattern. buildConfig fills
// every nil field from NoOpHooks, and the engine calls each field
// unconditionally.
type Hooks struct {
	// RunStart is called once, before the event loop begins, with a unique
	// run identifier (see poll.go) useful for correlating log lines across
	// a fan-out of independent poller processes.
	RunStart func(runID string, hosts []string)

	// Dispatch is called after a request has been sent for a Job.
	Dispatch func(runID string, job *Job, requestID int32, attempt int, err error)

	// ReceiveDone is called after a datagram has been decoded and matched to
	// its in-flight entry.
	ReceiveDone func(runID string, job *Job, requestID int32, rtt time.Duration)

	// Timeout is called when a Job's retries are exhausted and it is
	// abandoned.
	Timeout func(runID string, job *Job, requestID int32, attempt int)

	// WalkAbandoned is called when an agent-reported error-status ends a
	// walk early.
	WalkAbandoned func(runID string, job *Job, requestID int32, errorStatus int)

	// DecodeError is called when a datagram fails to decode; hex carries
	// the offending bytes for diagnostics.
	DecodeError func(runID string, err error, hex string)

	// Fatal is called once, after the loop has stopped with an error: a
	// socket I/O error, an internal invariant violation, or the
	// cancellation of the context passed to Poll.
	Fatal func(runID string, err error)

	// ResolverSkipped is called when a host name could not be resolved and
	// is therefore skipped pre-loop (spec §4.5, §7 "Resolver failure").
	ResolverSkipped func(runID string, host string)
}

// DefaultHooks logs only fatal conditions, decode errors and skipped hosts,
// in the spirit of the teacher's DefaultLoggingHooks which logs only Error.
var DefaultHooks = &Hooks{
	DecodeError: func(runID string, err error, _ string) {
		log.Printf("poll run:%s decode-error err:%v\n", runID, err)
	},
	Fatal: func(runID string, err error) {
		log.Printf("poll run:%s fatal err:%v\n", runID, err)
	},
	ResolverSkipped: func(runID string, host string) {
		log.Printf("poll run:%s resolver-skip host:%s\n", runID, host)
	},
}

// DiagnosticHooks logs every event with full data, including hex-dumped
// datagrams — the Go-idiomatic equivalent of the Python original's DEBUG
// flag (see SPEC_FULL.md Supplemented Features), matching the teacher's
// DiagnosticLoggingHooks precedent of hex-dumping wire bytes.
var DiagnosticHooks = &Hooks{
	RunStart: func(runID string, hosts []string) {
		log.Printf("poll run:%s start hosts:%d\n", runID, len(hosts))
	},
	Dispatch: func(runID string, job *Job, requestID int32, attempt int, err error) {
		log.Printf("poll run:%s dispatch host:%s reqid:%d attempt:%d err:%v\n", runID, job.Host, requestID, attempt, err)
	},
	ReceiveDone: func(runID string, job *Job, requestID int32, rtt time.Duration) {
		log.Printf("poll run:%s receive host:%s reqid:%d rtt:%s live-columns:%d\n", runID, job.Host, requestID, rtt, job.liveCount())
	},
	Timeout: func(runID string, job *Job, requestID int32, attempt int) {
		log.Printf("poll run:%s timeout host:%s reqid:%d attempt:%d\n", runID, job.Host, requestID, attempt)
	},
	WalkAbandoned: func(runID string, job *Job, requestID int32, errorStatus int) {
		log.Printf("poll run:%s walk-abandoned host:%s reqid:%d error-status:%d\n", runID, job.Host, requestID, errorStatus)
	},
	DecodeError: func(runID string, err error, h string) {
		log.Printf("poll run:%s decode-error err:%v data:%s\n", runID, err, h)
	},
	Fatal: func(runID string, err error) {
		log.Printf("poll run:%s fatal err:%v\n", runID, err)
	},
	ResolverSkipped: func(runID string, host string) {
		log.Printf("poll run:%s resolver-skip host:%s\n", runID, host)
	},
}

// NoOpHooks does nothing; used as the merge base so unset fields never panic.
var NoOpHooks = &Hooks{
	RunStart:      func(string, []string) {},
	Dispatch:      func(string, *Job, int32, int, error) {},
	ReceiveDone:   func(string, *Job, int32, time.Duration) {},
	Timeout:       func(string, *Job, int32, int) {},
	WalkAbandoned: func(string, *Job, int32, int) {},
	DecodeError:     func(string, error, string) {},
	Fatal:           func(string, error) {},
	ResolverSkipped: func(string, string) {},
}

func hexDump(b []byte) string {
	return hex.EncodeToString(b)
}
