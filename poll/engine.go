package poll

import (
	"context"
	"net"
	"time"

	"github.com/gescheit/fastsnmp/snmp"
	"github.com/pkg/errors"
)

// snmpPort is the well-known SNMP agent port (spec §6: "SNMPv2c over
// UDP/161").
const snmpPort = 161

// dispatchItem is one entry on the send queue: a Job paired with the
// request-id and attempt count it should be sent under. Carrying requestID
// and attempt alongside the Job (rather than on the Job itself) lets a
// continuation reuse the same Job's column state under a fresh id without
// the queue entry for an in-flight retry racing it.
type dispatchItem struct {
	job       *Job
	requestID int32
	attempt   int
}

// engine is the single-threaded cooperative loop of spec §4.4: one
// non-blocking socket, a bounded-batch send queue, and a request-id-keyed
// in-flight table. Nothing here is touched from more than one goroutine:
// the engine runs on the goroutine Poll starts and hands each Result to the
// consumer through the ResultStream's channel (see poll.go).
type engine struct {
	cfg   config
	conn  packetConn
	alloc *reqIDAllocator

	inFlight  map[int32]*inFlightEntry
	sendQueue []dispatchItem

	results chan<- Result
	runID   string
}

func newEngine(cfg config, conn packetConn, runID string, results chan<- Result) *engine {
	return &engine{
		cfg:      cfg,
		conn:     conn,
		alloc:    newReqIDAllocator(cfg.startReqID, cfg.reqIDStep),
		inFlight: make(map[int32]*inFlightEntry),
		results:  results,
		runID:    runID,
	}
}

// seed enqueues the initial Job for every (host, oid-group) pair (spec §3
// Lifecycle: "Jobs are created at start ... with a freshly chosen
// request-id").
func (e *engine) seed(targets map[string]net.IP, oidGroups [][]string) {
	for host, ip := range targets {
		for _, group := range oidGroups {
			job := &Job{
				Host:        host,
				Target:      ip,
				MainOIDs:    append([]string(nil), group...),
				OIDsToPoll:  append([]string(nil), group...),
				LiveColumns: make([]bool, len(group)),
			}
			for i := range job.LiveColumns {
				job.LiveColumns[i] = true
			}
			e.sendQueue = append(e.sendQueue, dispatchItem{job: job, requestID: e.alloc.allocate(), attempt: 1})
		}
	}
}

// run drives the loop until the send queue and in-flight table are both
// empty (spec §4.4 step 4 Termination), ctx is cancelled, or a fatal error
// occurs. It returns that fatal error, if any; it is the sole owner of
// e.conn for its entire duration, so the caller must not touch the socket
// until run returns.
func (e *engine) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := e.dispatch(); err != nil {
			return err
		}

		ready, err := e.conn.WaitReadable(e.cfg.pollInterval)
		if err != nil {
			return errors.Wrap(err, "socket readiness wait")
		}
		if ready {
			if err := e.receiveAll(); err != nil {
				return err
			}
		}

		if err := e.checkTimeouts(); err != nil {
			return err
		}

		if len(e.sendQueue) == 0 && len(e.inFlight) == 0 {
			return nil
		}
	}
}

// dispatch drains up to batchSize items from the send queue (spec §4.4
// step 1).
func (e *engine) dispatch() error {
	n := e.cfg.batchSize
	if n > len(e.sendQueue) {
		n = len(e.sendQueue)
	}
	batch := e.sendQueue[:n]
	e.sendQueue = e.sendQueue[n:]

	for _, item := range batch {
		if err := e.dispatchOne(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) dispatchOne(item dispatchItem) error {
	wire, err := e.encode(item)
	if err != nil {
		// A malformed caller-supplied OID can never be sent; drop just this
		// Job rather than failing the whole run.
		e.cfg.hooks.DecodeError(e.runID, err, "")
		return nil
	}

	ok, err := e.conn.SendTo(item.job.Target, snmpPort, wire)
	if err != nil {
		return errors.Wrap(err, "sendto")
	}
	if !ok {
		e.sendQueue = append(e.sendQueue, item)
		return nil
	}

	now := time.Now()
	entry, exists := e.inFlight[item.requestID]
	switch {
	case !exists:
		e.inFlight[item.requestID] = &inFlightEntry{job: item.job, firstSent: now, attempt: item.attempt}
	case entry.job != item.job:
		return ErrIDCollision
	default:
		entry.attempt = item.attempt
	}
	item.job.SentAt = now
	e.cfg.hooks.Dispatch(e.runID, item.job, item.requestID, item.attempt, nil)
	return nil
}

func (e *engine) encode(item dispatchItem) ([]byte, error) {
	msgType := snmpMessageType(e.cfg.msgType)
	maxReps := 0
	if e.cfg.msgType == GetBulk {
		maxReps = e.cfg.maxRepetitions
	}
	return snmp.EncodeRequest(msgType, e.cfg.community, item.requestID, 0, maxReps, item.job.OIDsToPoll)
}

// receiveAll drains the socket until EWOULDBLOCK (spec §4.4 step 2).
func (e *engine) receiveAll() error {
	buf := make([]byte, maxDatagramSize)
	for {
		n, ok, err := e.conn.RecvFrom(buf)
		if err != nil {
			return errors.Wrap(err, "recvfrom")
		}
		if !ok {
			return nil
		}
		e.handleDatagram(append([]byte(nil), buf[:n]...), time.Now())
	}
}

func (e *engine) handleDatagram(data []byte, recvAt time.Time) {
	pdu, partial, err := snmp.DecodeMessage(data)
	if err != nil {
		e.cfg.hooks.DecodeError(e.runID, err, hexDump(data))
		// A partial decode carrying a request-id is diagnostic only (spec
		// §7): it never completes the walk, so the in-flight entry is left
		// exactly as it was and will either get a valid reply or time out.
		_ = partial
		return
	}

	entry, ok := e.inFlight[pdu.RequestID]
	if !ok {
		return // late reply after timeout; discard
	}

	rtt := recvAt.Sub(entry.job.SentAt)
	e.cfg.hooks.ReceiveDone(e.runID, entry.job, pdu.RequestID, rtt)

	if pdu.ErrorStatus != 0 {
		e.fireWalkAbandoned(entry.job, pdu.RequestID, pdu.ErrorStatus)
		delete(e.inFlight, pdu.RequestID)
		return
	}

	job := entry.job
	if e.cfg.msgType == Get {
		e.emitGetResults(job, pdu.Varbinds, recvAt, rtt)
		delete(e.inFlight, pdu.RequestID)
		return
	}

	// Start each live column from the OID this request asked for, so a
	// response with no complete row re-requests the same position.
	lastSeen := make([]string, len(job.MainOIDs))
	next := 0
	for p, live := range job.LiveColumns {
		if live && next < len(job.OIDsToPoll) {
			lastSeen[p] = job.OIDsToPoll[next]
			next++
		}
	}
	cells := assembleRows(job.MainOIDs, job.LiveColumns, lastSeen, pdu.Varbinds)
	for _, c := range cells {
		e.results <- Result{
			Host:      job.Host,
			MainOID:   c.MainOID,
			IndexPart: c.IndexPart,
			Value:     c.Value,
			RecvAt:    recvAt,
			RTT:       rtt,
		}
	}

	delete(e.inFlight, pdu.RequestID)

	if allColumnsFinished(job.LiveColumns) {
		return
	}

	job.OIDsToPoll = continuationVarbindOIDs(job.LiveColumns, lastSeen)
	e.sendQueue = append(e.sendQueue, dispatchItem{job: job, requestID: e.alloc.allocate(), attempt: 1})
}

func (e *engine) emitGetResults(job *Job, varbinds []snmp.Varbind, recvAt time.Time, rtt time.Duration) {
	for _, vb := range varbinds {
		e.results <- Result{
			Host:      job.Host,
			MainOID:   vb.OID,
			IndexPart: "",
			Value:     vb.Value,
			RecvAt:    recvAt,
			RTT:       rtt,
		}
	}
}

// checkTimeouts implements spec §4.4 step 3: the exponential-backoff retry
// schedule. deadlineOffset accumulates every attempt's own interval since
// firstSent is never reset (spec §9), so the Nth attempt's absolute
// deadline is the running total of intervals 1..N, not a single formula
// applied fresh each time.
func (e *engine) checkTimeouts() error {
	now := time.Now()
	for reqID, entry := range e.inFlight {
		deadline := entry.firstSent.Add(deadlineOffset(entry.attempt, e.cfg.backoff, e.cfg.timeout))
		if now.Before(deadline) {
			continue
		}

		if entry.attempt <= e.cfg.maxRetries {
			e.sendQueue = append(e.sendQueue, dispatchItem{job: entry.job, requestID: reqID, attempt: entry.attempt + 1})
			continue
		}

		e.cfg.hooks.Timeout(e.runID, entry.job, reqID, entry.attempt)
		e.results <- timeoutResult(entry.job, now)
		delete(e.inFlight, reqID)
	}
	return nil
}

func deadlineOffset(attempt, backoff int, base time.Duration) time.Duration {
	var total time.Duration
	for a := 1; a <= attempt; a++ {
		if a == 1 {
			total += base
		} else {
			total += time.Duration(a*backoff) * base
		}
	}
	return total
}

func (e *engine) fireWalkAbandoned(job *Job, requestID int32, errorStatus int) {
	e.cfg.hooks.WalkAbandoned(e.runID, job, requestID, errorStatus)
}
