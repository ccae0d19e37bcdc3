package malcolm

import (
	"encoding/binary"
	"net"

	"golang.org/x/net/bpf"
)

// Offsets into an untagged Ethernet/IPv4 ARP frame.
const (
	offEtherType = 12
	offOperation = headerLen + 6
	offTargetIP  = headerLen + 8 + macLen + ipLen + macLen
)

// requestProgram returns a classic BPF program which accepts ARP requests
// for ip and drops everything else.  The listener still decodes and checks
// every frame it reads, so the program only reduces wakeups.
func requestProgram(ip net.IP) ([]bpf.Instruction, error) {
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, ErrInvalidIP
	}

	return []bpf.Instruction{
		// EtherType must be ARP
		bpf.LoadAbsolute{Off: offEtherType, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: protocolARP, SkipTrue: 5},
		// Operation must be request
		bpf.LoadAbsolute{Off: offOperation, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: uint32(OperationRequest), SkipTrue: 3},
		// Target protocol address must be ip
		bpf.LoadAbsolute{Off: offTargetIP, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: binary.BigEndian.Uint32(ip4), SkipTrue: 1},
		bpf.RetConstant{Val: 65535},
		bpf.RetConstant{Val: 0},
	}, nil
}

// requestFilter assembles requestProgram for attachment to a socket.
func requestFilter(ip net.IP) ([]bpf.RawInstruction, error) {
	prog, err := requestProgram(ip)
	if err != nil {
		return nil, err
	}

	return bpf.Assemble(prog)
}
