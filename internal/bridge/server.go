package bridge

import (
	"context"
	"errors"
	"net"

	pkgerrors "github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// Server accepts inbound bridge connections. Only one logical connection
// exists at a time; a new accept replaces the previous link.
type Server struct {
	addr    string
	session *Session
	handler TickHandler
}

// NewServer creates a server-mode bridge on the given listen address.
func NewServer(addr string, session *Session, handler TickHandler) *Server {
	return &Server{addr: addr, session: session, handler: handler}
}

// Run listens and serves until ctx is done. Between connections the
// session stays detached and sends fail fast.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return pkgerrors.Wrap(err, "listen bridge")
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	logs.Infof("bridge listening on %s", s.addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			logs.Errorf("accept bridge connection, err: %+v", err)
			continue
		}

		logs.Infof("bridge connected from %s", conn.RemoteAddr())
		s.session.Attach(conn)
		go func(conn net.Conn) {
			err := readConn(ctx, conn, s.handler)
			s.session.Detach(conn)
			logs.Warnf("bridge disconnected, err: %+v", err)
		}(conn)
	}
}
