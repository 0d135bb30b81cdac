// Package poll implements the single-socket, event-driven SNMPv2c poll
// engine: request-id allocation and an in-flight table (spec §3), the
// GetBulk varbind row assembler (spec §4.3), the main dispatch/receive/
// timeout loop (spec §4.4), a concurrent host resolver (spec §4.5), and the
// lazy pull-based Result stream exposed to callers (spec §4.6).
package poll

import (
	"context"
	"math/rand"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Poll resolves hosts, builds one walk per (host, oid-group), and drives
// the engine in a background goroutine, returning a ResultStream the
// caller pulls from (spec §6 Core API).
//
// hosts is a set of names; oidGroups is an ordered sequence of ordered OID
// sequences, each walked as one multi-column GetBulk (or, with
// WithMessageType(Get), fetched as one plain Get per group). ctx bounds the
// whole run: the engine checks it at the top of every loop iteration, and
// cancelling it stops the engine and closes the stream at the next check,
// even if walks are still outstanding. Cancellation does not release an
// engine that is blocked handing a Result to a consumer that has stopped
// pulling.
func Poll(ctx context.Context, hosts []string, oidGroups [][]string, opts ...Option) (*ResultStream, error) {
	cfg := buildConfig(opts...)
	if cfg.startReqID == 0 {
		cfg.startReqID = int32(1 + randomReqIDSeed())
	}

	runID := uuid.NewString()
	cfg.hooks.RunStart(runID, hosts)

	resolved := cfg.resolver.Resolve(ctx, hosts)
	targets := make(map[string]net.IP, len(resolved))
	for _, host := range hosts {
		ips, ok := resolved[host]
		if !ok || len(ips) == 0 {
			cfg.hooks.ResolverSkipped(runID, host)
			continue
		}
		targets[host] = ips[0] // spec §4.5: "picks addresses[0] deterministically"
	}

	conn, err := newSocket()
	if err != nil {
		return nil, errors.Wrap(err, "poll: open socket")
	}

	results := make(chan Result)
	done := make(chan struct{})
	var fatalErr error

	eng := newEngine(cfg, conn, runID, results)
	eng.seed(targets, oidGroups)

	// eng.run owns conn exclusively for its whole run; closing it only
	// after run returns (in this same goroutine, via defer) avoids racing
	// a caller-triggered ctx cancellation against an in-flight socket call.
	go func() {
		defer close(done)
		defer close(results)
		defer conn.Close()

		fatalErr = eng.run(ctx)
		if fatalErr != nil {
			cfg.hooks.Fatal(runID, fatalErr)
		}
	}()

	return &ResultStream{results: results, done: done, err: &fatalErr}, nil
}

// randomReqIDSeed returns a random offset in [0, 30000); Poll adds 1 to it
// to get the generator's random start in [1, 30000] (spec §4.2) when the
// caller didn't pin one with WithStartReqID.
func randomReqIDSeed() int {
	return rand.New(rand.NewSource(time.Now().UnixNano())).Intn(30000)
}
