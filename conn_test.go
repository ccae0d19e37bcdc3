package malcolm

import (
	"net"
	"time"
)

// noopPacketConn is a net.PacketConn which simply no-ops any input.  It is
// embedded in other implementations so they do not have to implement every
// single method.
type noopPacketConn struct{}

func (noopPacketConn) ReadFrom(b []byte) (int, net.Addr, error)     { return 0, nil, nil }
func (noopPacketConn) WriteTo(b []byte, addr net.Addr) (int, error) { return len(b), nil }

func (noopPacketConn) Close() error                       { return nil }
func (noopPacketConn) LocalAddr() net.Addr                { return nil }
func (noopPacketConn) SetDeadline(t time.Time) error      { return nil }
func (noopPacketConn) SetReadDeadline(t time.Time) error  { return nil }
func (noopPacketConn) SetWriteDeadline(t time.Time) error { return nil }

// timeoutError is returned by scriptedPacketConn when a read deadline
// expires.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// A read is one scripted result of scriptedPacketConn.ReadFrom.
type read struct {
	b   []byte
	err error
}

// scriptedPacketConn is a net.PacketConn which returns its scripted reads
// in order.  Once the script is exhausted, ReadFrom blocks until the read
// deadline and reports a timeout, like an idle raw socket.
type scriptedPacketConn struct {
	reads []read

	deadline    time.Time
	deadlineErr error
	nDeadlines  int
	nReads      int
	closed      bool

	noopPacketConn
}

func (p *scriptedPacketConn) ReadFrom(b []byte) (int, net.Addr, error) {
	p.nReads++

	if len(p.reads) == 0 {
		time.Sleep(time.Until(p.deadline))
		return 0, nil, timeoutError{}
	}

	r := p.reads[0]
	p.reads = p.reads[1:]
	if r.err != nil {
		return 0, nil, r.err
	}

	n := copy(b, r.b)
	return n, nil, nil
}

func (p *scriptedPacketConn) SetReadDeadline(t time.Time) error {
	p.nDeadlines++
	p.deadline = t
	return p.deadlineErr
}

func (p *scriptedPacketConn) Close() error {
	p.closed = true
	return nil
}

// captureWritePacketConn is a net.PacketConn which records every WriteTo
// call.  If err is set it is returned instead; if short is set, one byte
// less than requested is reported as written.
type captureWritePacketConn struct {
	err   error
	short bool

	writes [][]byte
	addrs  []net.Addr

	noopPacketConn
}

func (p *captureWritePacketConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	if p.err != nil {
		return 0, p.err
	}

	p.writes = append(p.writes, append([]byte(nil), b...))
	p.addrs = append(p.addrs, addr)

	if p.short {
		return len(b) - 1, nil
	}
	return len(b), nil
}
