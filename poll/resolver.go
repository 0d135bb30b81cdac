package poll

import (
	"context"
	"net"
	"sync"
)

// Resolver maps a set of host names to an ordered list of target addresses
// (spec §4.5). Addresses are always returned in dual-stack v6 form —
// IPv4-only results are the v4-mapped-v6 form (spec §4.4) so the engine's
// single AF_INET6 socket can address them uniformly. A name that fails to
// resolve is simply omitted from the returned map; the caller is expected
// to warn about the gap.
type Resolver interface {
	Resolve(ctx context.Context, hosts []string) map[string][]net.IP
}

// concurrentResolver resolves host names on a fixed pool of worker
// goroutines (workers of them, whatever the number of hosts), standing in
// for the original's asyncio.wait fan-out over one coroutine per host
// (mass_resolver.py's async_resolve_mass) — the
// Go-idiomatic equivalent of "bulk resolution may be concurrent" (spec
// §4.5).
type concurrentResolver struct {
	workers int
}

func newConcurrentResolver(workers int) *concurrentResolver {
	if workers <= 0 {
		workers = 64
	}
	return &concurrentResolver{workers: workers}
}

func (r *concurrentResolver) Resolve(ctx context.Context, hosts []string) map[string][]net.IP {
	type result struct {
		host string
		ips  []net.IP
	}

	in := make(chan string)
	out := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range in {
				ips := resolveOne(ctx, host)
				if len(ips) == 0 {
					continue
				}
				select {
				case out <- result{host: host, ips: ips}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(in)
		for _, h := range hosts {
			select {
			case in <- h:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	resolved := make(map[string][]net.IP, len(hosts))
	for r := range out {
		resolved[r.host] = r.ips
	}
	return resolved
}

func resolveOne(ctx context.Context, host string) []net.IP {
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, toDualStack(a.IP))
	}
	return ips
}

// toDualStack returns addr in its 16-byte form, mapping a bare IPv4 address
// into the ::ffff:a.b.c.d form the engine's AF_INET6 socket requires (spec
// §4.4).
func toDualStack(addr net.IP) net.IP {
	if v4 := addr.To4(); v4 != nil {
		return v4.To16()
	}
	return addr
}
