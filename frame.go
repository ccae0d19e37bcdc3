package malcolm

import (
	"net"

	"github.com/mdlayher/ethernet"
)

const (
	// headerLen is the length of an untagged Ethernet header.
	headerLen = 6 + 6 + 2

	// FrameLen is the length of an encoded Ethernet/IPv4 ARP frame: a
	// 14 byte Ethernet header followed by a 28 byte ARP packet.
	FrameLen = headerLen + packetLen
)

// A Request is an ARP message captured while listening.  Its fields
// contain information regarding the message's operation, sender information,
// and target information.
type Request struct {
	// Source is the Ethernet source address of the frame which carried
	// this Request.
	Source net.HardwareAddr

	// Operation specifies the ARP operation being performed, such as request
	// or reply.
	Operation Operation

	// SenderMAC specifies the MAC address of the sender of this Request.
	SenderMAC net.HardwareAddr

	// SenderIP specifies the IPv4 address of the sender of this Request.
	SenderIP net.IP

	// TargetMAC specifies the MAC address of the target of this Request.
	TargetMAC net.HardwareAddr

	// TargetIP specifies the IPv4 address of the target of this Request.
	TargetIP net.IP
}

// Decode unmarshals a raw ethernet frame and the ARP packet it carries.
//
// Decode reports false for buffers shorter than FrameLen, frames with a
// non-ARP EtherType, and ARP packets truncated relative to their own
// address length fields.  Captured traffic is untrusted, so Decode never
// panics on malformed input.
func Decode(b []byte) (*ethernet.Frame, *Packet, bool) {
	if len(b) < FrameLen {
		return nil, nil, false
	}

	f := new(ethernet.Frame)
	if err := f.UnmarshalBinary(b); err != nil {
		return nil, nil, false
	}
	if f.EtherType != ethernet.EtherTypeARP {
		return nil, nil, false
	}

	p := new(Packet)
	if err := p.UnmarshalBinary(f.Payload); err != nil {
		return nil, nil, false
	}

	return f, p, true
}

// Encode marshals an ethernet frame header and an ARP packet into a single
// FrameLen byte slice, ready to be written to a raw socket.  Only the
// addresses and EtherType of f are used; its payload is replaced by p and
// the frame is always encoded untagged.
//
// The returned slice is freshly allocated, so any bytes not covered by f
// and p are zero.
func Encode(f *ethernet.Frame, p *Packet) ([]byte, error) {
	pb, err := p.MarshalBinary()
	if err != nil {
		return nil, err
	}

	ef := &ethernet.Frame{
		Destination: f.Destination,
		Source:      f.Source,
		EtherType:   f.EtherType,
		Payload:     pb,
	}

	fb, err := ef.MarshalBinary()
	if err != nil {
		return nil, err
	}

	// ethernet.Frame pads its payload to the 46 byte Ethernet minimum;
	// the kernel adds that padding on transmit, so only the ARP frame
	// itself is returned.
	b := make([]byte, FrameLen)
	copy(b, fb)

	return b, nil
}

// parseRequest decodes a captured frame into a Request.
func parseRequest(buf []byte) (*Request, bool) {
	f, p, ok := Decode(buf)
	if !ok {
		return nil, false
	}

	return &Request{
		Source:    f.Source,
		Operation: p.Operation,
		SenderMAC: p.SenderMAC,
		SenderIP:  p.SenderIP,
		TargetMAC: p.TargetMAC,
		TargetIP:  p.TargetIP,
	}, true
}
