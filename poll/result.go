package poll

import (
	"time"

	"github.com/gescheit/fastsnmp/snmp"
)

// Result is one emitted cell, or a synthetic Timeout marker for an
// abandoned walk (spec §3 Result, §6 Outputs).
type Result struct {
	Host      string
	MainOID   string
	IndexPart string
	Value     snmp.Value
	RecvAt    time.Time
	RTT       time.Duration

	// Timeout is true for a synthetic result produced when a walk's
	// retries are exhausted (spec §4.4 step 3, §6 Outputs). MainOID then
	// names the whole column tuple (joined main OIDs) for downstream
	// attribution; IndexPart, Value and RTT are zero.
	Timeout bool
}

func timeoutResult(job *Job, recvAt time.Time) Result {
	return Result{
		Host:    job.Host,
		MainOID: joinMainOIDs(job.MainOIDs),
		RecvAt:  recvAt,
		Timeout: true,
	}
}

func joinMainOIDs(oids []string) string {
	out := oids[0]
	for _, o := range oids[1:] {
		out += "," + o
	}
	return out
}
