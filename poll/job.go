package poll

import (
	"net"
	"time"

	"github.com/gescheit/fastsnmp/snmp"
	"github.com/pkg/errors"
)

// Job is one outstanding (host, oid-group) walk (spec §3). MainOIDs is
// immutable for the life of the walk; OIDsToPoll advances each round to the
// last-seen OID per live column, or is left as MainOIDs itself for a walk's
// first request.
type Job struct {
	Host        string
	Target      net.IP
	MainOIDs    []string
	OIDsToPoll  []string
	LiveColumns []bool // len == len(MainOIDs); false once a column is finished
	SentAt      time.Time
}

// liveCount returns how many columns are still walking; used by
// DiagnosticHooks.ReceiveDone to report per-response walk progress.
func (j *Job) liveCount() int {
	n := 0
	for _, live := range j.LiveColumns {
		if live {
			n++
		}
	}
	return n
}

// inFlightEntry is (request-id -> Job, first-sent-wall-time, attempt-count)
// (spec §3 InFlight entry). firstSent is never reset on retry so the
// backoff deadline grows with attempt count (spec §9, preserved verbatim
// from the source's retry behaviour).
type inFlightEntry struct {
	job       *Job
	firstSent time.Time
	attempt   int
}

// ErrIDCollision signals the InternalIdCollision fault named in spec §4.2 /
// §7: a freshly allocated request-id already names a live in-flight entry.
// This is a programmer-visible fault, not a retryable condition — the
// engine stops rather than silently overwriting the table (spec §9 Open
// Question, resolved explicitly per "do not guess; make it explicit").
var ErrIDCollision = errors.New("poll: internal request-id collision")

// reqIDAllocator hands out request-ids starting at a random value in
// [1, 30000] (or a caller-pinned start) and advancing by step on each call,
// matching spec §4.2's generator description. It does not itself detect
// collisions against the in-flight table — that check happens where the
// table is mutated (engine.go), since only the engine knows what is live.
type reqIDAllocator struct {
	next int32
	step int32
}

func newReqIDAllocator(start, step int32) *reqIDAllocator {
	if step == 0 {
		step = 1
	}
	return &reqIDAllocator{next: start, step: step}
}

func (a *reqIDAllocator) allocate() int32 {
	id := a.next
	a.next += a.step
	return id
}

// snmpMessageType maps the configured MessageType to the wire tag, choosing
// GetBulk or GetRequest (spec §4.2/§6).
func snmpMessageType(t MessageType) byte {
	if t == Get {
		return snmp.TagGetRequest
	}
	return snmp.TagGetBulkRequest
}
