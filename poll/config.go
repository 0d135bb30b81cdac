package poll

import (
	"time"

	"github.com/gescheit/fastsnmp/snmp"
	"github.com/imdario/mergo"
)

// MessageType selects whether a Job is walked with GetBulk or polled with
// plain Get (spec §6 Core API: msg_type="GetBulk"|"Get").
type MessageType int

const (
	GetBulk MessageType = iota
	Get
)

// config holds the tunables of a single poll run, built from Default and
// mutated by Options (spec §6 Core API parameter list).
type config struct {
	community      string
	timeout        time.Duration
	backoff        int
	maxRetries     int
	msgType        MessageType
	maxRepetitions int
	startReqID     int32
	reqIDStep      int32
	batchSize      int
	pollInterval   time.Duration
	hooks          *Hooks
	debug          bool
	resolver       Resolver
	resolverWorkers int
}

// Default mirrors spec §6's documented defaults (timeout=3s, backoff=2,
// retry=2, max_repetitions=60, reqid_step=1) plus the dispatch batch size
// and readiness-wait interval named in spec §4.4.
var Default = config{
	community:       "public",
	timeout:         3 * time.Second,
	backoff:         2,
	maxRetries:      2,
	msgType:         GetBulk,
	maxRepetitions:  DefaultMaxRepetitions,
	reqIDStep:       1,
	batchSize:       1000,
	pollInterval:    10 * time.Millisecond,
	hooks:           DefaultHooks,
	resolverWorkers: 64,
}

// DefaultMaxRepetitions is re-exported from snmp for callers configuring
// WithMaxRepetitions against the same default the wire codec uses.
const DefaultMaxRepetitions = snmp.DefaultMaxRepetitions

// Option configures a poll run, following the teacher's ManagerOption
// functional-options pattern (managerfactory.go).
type Option func(*config)

// WithCommunity sets the SNMP community string. Default "public".
func WithCommunity(community string) Option {
	return func(c *config) { c.community = community }
}

// WithTimeout sets the base retry timeout. Default 3s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithBackoff sets the exponential backoff multiplier. Default 2.
func WithBackoff(backoff int) Option {
	return func(c *config) { c.backoff = backoff }
}

// WithMaxRetries sets the number of retries before a walk is abandoned.
// Default 2.
func WithMaxRetries(retries int) Option {
	return func(c *config) { c.maxRetries = retries }
}

// WithMessageType selects GetBulk or Get. Default GetBulk.
func WithMessageType(t MessageType) Option {
	return func(c *config) { c.msgType = t }
}

// WithMaxRepetitions sets GetBulk's max-repetitions field. Default 60 (spec
// §9 Open Question: the source varies between 5, 20, 60 across revisions).
func WithMaxRepetitions(n int) Option {
	return func(c *config) { c.maxRepetitions = n }
}

// WithStartReqID pins the first request-id allocated, instead of a random
// start in [1, 30000] (spec §4.2).
func WithStartReqID(id int32) Option {
	return func(c *config) { c.startReqID = id }
}

// WithReqIDStep sets the increment applied on each continuation Job.
// Default 1.
func WithReqIDStep(step int32) Option {
	return func(c *config) { c.reqIDStep = step }
}

// WithBatchSize sets the dispatch loop's per-iteration send batch B.
// Default 1000 (spec §4.4).
func WithBatchSize(n int) Option {
	return func(c *config) { c.batchSize = n }
}

// WithHooks installs tracing hooks, merged over NoOpHooks so unset fields
// are safe to call (mirrors managerfactory.go's mergo.Merge(config.trace,
// NoOpLoggingHooks)).
func WithHooks(h *Hooks) Option {
	return func(c *config) { c.hooks = h }
}

// WithDebug toggles verbose diagnostic tracing, selecting DiagnosticHooks in
// place of DefaultHooks (spec §6 Core API: construction-time "debug flag").
// Call WithHooks after WithDebug to install a custom Hooks value instead.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.debug = debug
		if debug {
			c.hooks = DiagnosticHooks
		}
	}
}

// WithResolver overrides the default concurrent Resolver (spec §4.5).
func WithResolver(r Resolver) Option {
	return func(c *config) { c.resolver = r }
}

// WithResolverConcurrency bounds the goroutine fan-out used by the default
// Resolver. Default 64.
func WithResolverConcurrency(n int) Option {
	return func(c *config) { c.resolverWorkers = n }
}

func buildConfig(opts ...Option) config {
	c := Default
	for _, opt := range opts {
		opt(&c)
	}
	if c.hooks == nil {
		c.hooks = NoOpHooks
	}
	merged := *c.hooks
	if err := mergo.Merge(&merged, *NoOpHooks); err != nil {
		merged = *NoOpHooks
	}
	c.hooks = &merged
	if c.resolver == nil {
		c.resolver = newConcurrentResolver(c.resolverWorkers)
	}
	return c
}
