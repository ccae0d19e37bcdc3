package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/ftmalcolm/malcolm"
)

// A resolver looks up the addresses of a host.  *net.Resolver implements
// resolver.
type resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// parseTarget builds a Target from the four positional arguments:
// source IP/hostname, source MAC, target IP/hostname, target MAC.  The
// source is the address being impersonated; the target receives the reply.
func parseTarget(ctx context.Context, r resolver, args []string, iface string) (*malcolm.Target, error) {
	if len(args) != 4 {
		return nil, fmt.Errorf("expected 4 arguments, got %d", len(args))
	}

	srcIP, err := parseIPv4(ctx, r, args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid source IP or hostname: %s: %w", args[0], err)
	}
	srcMAC, err := parseMAC(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid source MAC address: %s: %w", args[1], err)
	}
	dstIP, err := parseIPv4(ctx, r, args[2])
	if err != nil {
		return nil, fmt.Errorf("invalid target IP or hostname: %s: %w", args[2], err)
	}
	dstMAC, err := parseMAC(args[3])
	if err != nil {
		return nil, fmt.Errorf("invalid target MAC address: %s: %w", args[3], err)
	}

	t := &malcolm.Target{
		VictimIP:  srcIP,
		VictimMAC: srcMAC,
		PeerIP:    dstIP,
		PeerMAC:   dstMAC,
		Interface: iface,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// parseIPv4 accepts a 32-bit decimal integer, a dotted-decimal IPv4
// address, or a hostname with at least one IPv4 address.
func parseIPv4(ctx context.Context, r resolver, s string) (net.IP, error) {
	if s == "" {
		return nil, malcolm.ErrInvalidIP
	}

	if isDigits(s) {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, malcolm.ErrInvalidIP
		}

		ip := make(net.IP, 4)
		binary.BigEndian.PutUint32(ip, uint32(n))
		return ip, nil
	}

	if ip := net.ParseIP(s); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
		return nil, malcolm.ErrInvalidIP
	}

	ips, err := r.LookupIP(ctx, "ip4", s)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
	}

	return nil, fmt.Errorf("no IPv4 address for %q", s)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseMAC parses a colon-separated 6 byte MAC address.  Single digit
// groups such as "0:1b:2:3c:4:5d" are accepted; hyphen and dot separated
// forms are not.
func parseMAC(s string) (net.HardwareAddr, error) {
	groups := strings.Split(s, ":")
	if len(groups) != 6 {
		return nil, malcolm.ErrInvalidMAC
	}
	for i, g := range groups {
		if len(g) == 1 {
			groups[i] = "0" + g
		}
	}

	mac, err := net.ParseMAC(strings.Join(groups, ":"))
	if err != nil {
		return nil, err
	}
	if len(mac) != 6 {
		return nil, malcolm.ErrInvalidMAC
	}

	return mac, nil
}
