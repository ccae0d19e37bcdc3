package malcolm

import (
	"context"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// Config configures Run.
type Config struct {
	// PollInterval is passed to the Listener.  If zero,
	// DefaultPollInterval is used.
	PollInterval time.Duration

	// Filter enables the kernel socket filter while listening.
	Filter bool

	// Log receives progress messages from both listening and injection.
	Log logrus.FieldLogger
}

// Run listens on t.Interface for an ARP request for t.VictimIP and, once
// one arrives, sends a single forged reply to the peer.
//
// If ctx is cancelled before a request arrives, Run returns
// OutcomeCancelled and sends nothing.
func Run(ctx context.Context, t *Target, cfg Config) (Outcome, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	l := &Listener{
		Iface:        t.Interface,
		PollInterval: cfg.PollInterval,
		Filter:       cfg.Filter,
		Log:          cfg.Log,
	}
	i := &Injector{Log: cfg.Log}

	return run(ctx, t, l.Listen, i.Inject)
}

// run wires listening to injection.  Injection only happens after
// listening has returned OutcomeMatched.
func run(
	ctx context.Context,
	t *Target,
	listen func(context.Context, net.IP) (Outcome, *Request, error),
	inject func(*Target) error,
) (Outcome, error) {
	o, _, err := listen(ctx, t.VictimIP)
	if err != nil {
		return 0, err
	}
	if o != OutcomeMatched {
		return o, nil
	}

	if err := inject(t); err != nil {
		return 0, err
	}

	return OutcomeMatched, nil
}
