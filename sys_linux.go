//go:build linux

package malcolm

import "golang.org/x/sys/unix"

const (
	// protocolARP is the EtherType passed to the raw socket so the kernel
	// only delivers ARP frames.
	protocolARP = unix.ETH_P_ARP

	// hardwareTypeEthernet is the ARP hardware type for Ethernet.
	hardwareTypeEthernet = unix.ARPHRD_ETHER

	// maxIfaceNameLen is the size of the kernel's interface name buffer,
	// including the terminating NUL.
	maxIfaceNameLen = unix.IFNAMSIZ
)
