// Package malcolm implements a single-shot ARP spoofer.  It listens on a
// network interface for an ARP request asking for a victim's IPv4 address,
// then answers with one forged ARP reply telling a peer that the victim's
// address lives at a chosen MAC address.
//
// Frames are built and parsed with the types in this package and
// github.com/mdlayher/ethernet, and are sent and received on raw
// link-layer sockets from github.com/mdlayher/raw.
package malcolm

import (
	"io"

	"github.com/sirupsen/logrus"
)

// An Outcome is the result of a completed listen.
type Outcome int

// Outcome constants which indicate whether a matching ARP request was
// captured, or listening was cancelled first.
const (
	OutcomeMatched Outcome = iota + 1
	OutcomeCancelled
)

// String returns a lower-case description of o.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// discard is used when no logger is configured.
var discard = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
