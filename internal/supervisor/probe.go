package supervisor

import (
	"context"
	"net"
	"time"
)

// TCPProber treats a successful connect-and-close as liveness.
type TCPProber struct {
	Addr    string
	Timeout time.Duration
}

func (p TCPProber) Probe(ctx context.Context) error {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
