//go:build !linux

package malcolm

const (
	protocolARP          = 0x0806
	hardwareTypeEthernet = 1
	maxIfaceNameLen      = 16
)
