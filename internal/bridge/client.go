package bridge

import (
	"context"
	"net"
	"time"

	"github.com/yanun0323/logs"
)

const defaultRedialWait = time.Second

// Client dials out to the bridge and redials on a fixed backoff after
// any unexpected close.
type Client struct {
	addr    string
	session *Session
	handler TickHandler
	wait    time.Duration
}

// NewClient creates a client-mode bridge. wait <= 0 selects the default
// 1 second redial backoff.
func NewClient(addr string, session *Session, handler TickHandler, wait time.Duration) *Client {
	if wait <= 0 {
		wait = defaultRedialWait
	}
	return &Client{addr: addr, session: session, handler: handler, wait: wait}
}

// Run dials and serves until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	dialer := &net.Dialer{}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.session.markConnecting()
		conn, err := dialer.DialContext(ctx, "tcp", c.addr)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logs.Warnf("dial bridge %s, err: %+v", c.addr, err)
			if err := c.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		logs.Infof("bridge connected to %s", c.addr)
		c.session.Attach(conn)
		err = readConn(ctx, conn, c.handler)
		c.session.Detach(conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logs.Warnf("bridge closed, redialing, err: %+v", err)
		if err := c.sleep(ctx); err != nil {
			return err
		}
	}
}

func (c *Client) sleep(ctx context.Context) error {
	timer := time.NewTimer(c.wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
