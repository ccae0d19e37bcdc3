package main

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/ftmalcolm/malcolm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticResolver answers lookups from a fixed table.
type staticResolver map[string][]net.IP

func (r staticResolver) LookupIP(_ context.Context, network, host string) ([]net.IP, error) {
	if network != "ip4" {
		return nil, errors.New("unexpected network " + network)
	}

	ips, ok := r[host]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	return ips, nil
}

var testResolver = staticResolver{
	"gateway.lan": {net.IPv4(192, 168, 1, 1)},
	"empty.lan":   {},
}

func TestParseIPv4(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ip   net.IP
		err  bool
	}{
		{name: "dotted", in: "192.168.1.50", ip: net.IP{192, 168, 1, 50}},
		{name: "decimal", in: "3232235826", ip: net.IP{192, 168, 1, 50}},
		{name: "decimal zero", in: "0", ip: net.IP{0, 0, 0, 0}},
		{name: "decimal max", in: "4294967295", ip: net.IP{255, 255, 255, 255}},
		{name: "decimal overflow", in: "4294967296", err: true},
		{name: "hostname", in: "gateway.lan", ip: net.IP{192, 168, 1, 1}},
		{name: "unknown hostname", in: "nowhere.lan", err: true},
		{name: "hostname without addresses", in: "empty.lan", err: true},
		{name: "IPv6", in: "::1", err: true},
		{name: "empty", in: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, err := parseIPv4(context.Background(), testResolver, tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.ip, ip)
		})
	}
}

func TestParseMAC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		mac  net.HardwareAddr
		err  bool
	}{
		{name: "lower case", in: "aa:bb:cc:dd:ee:ff", mac: net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}},
		{name: "upper case", in: "11:22:33:44:55:6A", mac: net.HardwareAddr{0x11, 0x22, 0x33, 0x44, 0x55, 0x6a}},
		{name: "single digit groups", in: "0:1b:2:3c:4:5d", mac: net.HardwareAddr{0x00, 0x1b, 0x02, 0x3c, 0x04, 0x5d}},
		{name: "hyphens", in: "aa-bb-cc-dd-ee-ff", err: true},
		{name: "dotted", in: "aabb.ccdd.eeff", err: true},
		{name: "empty group", in: "aa::cc:dd:ee:ff", err: true},
		{name: "EUI-64", in: "00:00:5e:00:53:01:00:01", err: true},
		{name: "too short", in: "aa:bb:cc:dd:ee", err: true},
		{name: "not hex", in: "zz:bb:cc:dd:ee:ff", err: true},
		{name: "empty", in: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mac, err := parseMAC(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.mac, mac)
		})
	}
}

func TestParseTarget(t *testing.T) {
	target, err := parseTarget(context.Background(), testResolver, []string{
		"3232235826", "aa:bb:cc:dd:ee:ff", "gateway.lan", "11:22:33:44:55:66",
	}, "eth1")
	require.NoError(t, err)

	assert.Equal(t, &malcolm.Target{
		VictimIP:  net.IP{192, 168, 1, 50},
		VictimMAC: net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff},
		PeerIP:    net.IP{192, 168, 1, 1},
		PeerMAC:   net.HardwareAddr{0x11, 0x22, 0x33, 0x44, 0x55, 0x66},
		Interface: "eth1",
	}, target)
}

func TestParseTargetErrors(t *testing.T) {
	valid := []string{"192.168.1.50", "aa:bb:cc:dd:ee:ff", "192.168.1.1", "11:22:33:44:55:66"}

	tests := []struct {
		name  string
		index int
		value string
		iface string
		msg   string
	}{
		{name: "source IP", index: 0, value: "nowhere.lan", msg: "invalid source IP or hostname: nowhere.lan"},
		{name: "source MAC", index: 1, value: "aa:bb", msg: "invalid source MAC address: aa:bb"},
		{name: "target IP", index: 2, value: "::1", msg: "invalid target IP or hostname: ::1"},
		{name: "target MAC", index: 3, value: "nope", msg: "invalid target MAC address: nope"},
		{name: "interface", index: -1, iface: "an-interface-name-too-long", msg: "invalid interface name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string(nil), valid...)
			if tt.index >= 0 {
				args[tt.index] = tt.value
			}
			iface := tt.iface
			if iface == "" {
				iface = "eth0"
			}

			_, err := parseTarget(context.Background(), testResolver, args, iface)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
