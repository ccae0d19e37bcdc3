package malcolm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/mdlayher/raw"
	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is the longest a Listener blocks waiting for a frame
// before checking whether it has been cancelled.
const DefaultPollInterval = 500 * time.Millisecond

// A Listener waits on a network interface for the first ARP request
// asking for a given IPv4 address.
type Listener struct {
	// Iface is the name of the network interface on which this listener
	// should capture ARP traffic.
	Iface string

	// PollInterval bounds each wait for an incoming frame.  Cancellation
	// is observed at most PollInterval after it happens.  If zero,
	// DefaultPollInterval is used.
	PollInterval time.Duration

	// Filter attaches a kernel socket filter so only ARP requests for the
	// victim address wake the listener.
	Filter bool

	// Log receives progress messages.  If nil, messages are discarded.
	Log logrus.FieldLogger
}

// Listen waits on the named interface for an ARP request for ip, using a
// kernel socket filter and the default poll interval.
func Listen(ctx context.Context, iface string, ip net.IP) (Outcome, *Request, error) {
	return (&Listener{
		Iface:  iface,
		Filter: true,
	}).Listen(ctx, ip)
}

// Listen opens a raw ARP socket on l.Iface and calls Serve with it.
//
// An error is returned if the interface does not exist or the socket cannot
// be opened.  Cancelling ctx is not an error: Listen returns
// OutcomeCancelled and a nil Request.
func (l *Listener) Listen(ctx context.Context, ip net.IP) (Outcome, *Request, error) {
	if ip.To4() == nil {
		return 0, nil, fmt.Errorf("listen: %w", ErrInvalidIP)
	}

	ifi, err := net.InterfaceByName(l.Iface)
	if err != nil {
		return 0, nil, fmt.Errorf("listen: interface %q: %w", l.Iface, err)
	}

	p, err := raw.ListenPacket(ifi, protocolARP, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("listen: open raw socket on %q: %w", ifi.Name, err)
	}

	if l.Filter {
		l.attachFilter(p, ip)
	}

	return l.Serve(ctx, p, ip)
}

// attachFilter installs requestFilter on p.  The listener checks every
// frame itself, so failing to attach only costs extra wakeups.
func (l *Listener) attachFilter(p *raw.Conn, ip net.IP) {
	filter, err := requestFilter(ip)
	if err == nil {
		err = p.SetBPF(filter)
	}
	if err != nil {
		l.logger().WithError(err).Warn("listening without kernel socket filter")
	}
}

// Serve reads frames from p until one carries an ARP request whose target
// address is ip, or ctx is cancelled.  Serve always closes p before
// returning.
//
// Frames which are not ARP, are truncated, are replies, or ask for any
// other address are ignored.  The sender of a request is not checked.
func (l *Listener) Serve(ctx context.Context, p net.PacketConn, ip net.IP) (Outcome, *Request, error) {
	defer p.Close()

	ip = ip.To4()
	if ip == nil {
		return 0, nil, fmt.Errorf("listen: %w", ErrInvalidIP)
	}

	interval := l.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	log := l.logger()
	log.Infof("waiting for ARP request for %s on interface %s...", ip, l.Iface)

	buf := make([]byte, 128)
	for {
		if ctx.Err() != nil {
			return OutcomeCancelled, nil, nil
		}

		res, n, err := wait(p, buf, interval)
		switch res {
		case waitTimedOut:
			continue
		case waitDropped:
			log.WithError(err).Debug("failed to receive frame")
			continue
		case waitError:
			// p may have been closed by whoever cancelled ctx
			if ctx.Err() != nil {
				return OutcomeCancelled, nil, nil
			}

			return 0, nil, fmt.Errorf("listen: %w", err)
		}

		r, ok := parseRequest(buf[:n])
		if !ok {
			continue
		}
		if !r.asks(ip) {
			log.Debugf("ignoring ARP %s: who-has %s? tell %s (%s)",
				r.Operation, r.TargetIP, r.SenderIP, r.SenderMAC)
			continue
		}

		log.WithFields(logrus.Fields{
			"sender_ip":  r.SenderIP.String(),
			"sender_mac": r.SenderMAC.String(),
		}).Infof("received ARP request for %s", ip)

		return OutcomeMatched, r, nil
	}
}

// asks reports whether r is an ARP request for ip.
func (r *Request) asks(ip net.IP) bool {
	return r.Operation == OperationRequest && r.TargetIP.Equal(ip)
}

func (l *Listener) logger() logrus.FieldLogger {
	if l.Log != nil {
		return l.Log
	}

	return discard
}

// A waitResult is the result of a single bounded wait for a frame.
type waitResult int

const (
	// waitTimedOut means no frame arrived before the deadline.
	waitTimedOut waitResult = iota

	// waitReady means a frame was read into the buffer.
	waitReady

	// waitDropped means a single receive failed; the next wait may
	// succeed.
	waitDropped

	// waitError means p can no longer be read.
	waitError
)

// wait reads one frame from p into buf, blocking for at most timeout.
func wait(p net.PacketConn, buf []byte, timeout time.Duration) (waitResult, int, error) {
	if err := p.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return waitError, 0, err
	}

	n, _, err := p.ReadFrom(buf)
	switch {
	case err == nil:
		return waitReady, n, nil
	case isTimeout(err):
		return waitTimedOut, 0, nil
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), errors.Is(err, os.ErrClosed):
		return waitError, 0, err
	default:
		return waitDropped, 0, err
	}
}

// isTimeout reports whether err was caused by an expired read deadline.
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
