package malcolm

import (
	"net"
	"testing"

	"github.com/mdlayher/ethernet"
)

// mustEncode wraps p in an ARP frame from src to the broadcast address.
func mustEncode(t *testing.T, src net.HardwareAddr, p *Packet) []byte {
	t.Helper()

	b, err := Encode(&ethernet.Frame{
		Destination: ethernet.Broadcast,
		Source:      src,
		EtherType:   ethernet.EtherTypeARP,
	}, p)
	if err != nil {
		t.Fatal(err)
	}

	return b
}

// mustRequest builds an encoded ARP request from the peer asking for ip.
func mustRequest(t *testing.T, ip net.IP) []byte {
	t.Helper()

	p, err := NewPacket(OperationRequest, peerMAC, peerIP, net.HardwareAddr{0, 0, 0, 0, 0, 0}, ip)
	if err != nil {
		t.Fatal(err)
	}

	return mustEncode(t, peerMAC, p)
}
