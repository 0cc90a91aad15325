// Package bridge maintains the single logical connection to the external
// price bridge and translates between wire frames and domain messages.
package bridge

import (
	"encoding/json"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/obs"
)

// ErrNotConnected is returned by Send while no connection is live.
// Outbound messages are never queued.
var ErrNotConnected = errors.New("bridge: not connected")

// State is the connection lifecycle of the session handle.
type State int32

const (
	StateNone State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "none"
	}
}

const defaultHeartbeatInterval = 10 * time.Second

// Session owns the current bridge connection. Server and client modes
// attach connections as they come and go; callers send through the
// session and never touch the socket directly.
type Session struct {
	mu    sync.Mutex
	conn  net.Conn
	stop  chan struct{}
	state atomic.Int32

	heartbeatInterval time.Duration
}

// NewSession creates a detached session. interval <= 0 selects the
// default 10 second heartbeat.
func NewSession(interval time.Duration) *Session {
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	return &Session{heartbeatInterval: interval}
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Attach replaces the current connection, enables transport keep-alive,
// and starts the heartbeat timer. A previously attached connection is
// treated as gone and closed.
func (s *Session) Attach(conn net.Conn) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetKeepAlive(true)
	}

	s.mu.Lock()
	old, oldStop := s.conn, s.stop
	s.conn = conn
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	if oldStop != nil {
		close(oldStop)
	}
	if old != nil {
		_ = old.Close()
	}

	s.state.Store(int32(StateConnected))
	obs.ReconnectsTotal.Inc()
	go s.heartbeatLoop(stop)
}

// Detach drops conn if it is still the attached one and cancels its
// heartbeat. Passing nil detaches unconditionally.
func (s *Session) Detach(conn net.Conn) {
	s.mu.Lock()
	if conn != nil && s.conn != conn {
		s.mu.Unlock()
		return
	}
	old, stop := s.conn, s.stop
	s.conn = nil
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if old != nil {
		_ = old.Close()
	}
	s.state.Store(int32(StateNone))
}

// Send marshals v and writes it as one newline-terminated frame. It
// fails fast with ErrNotConnected when no connection is live.
func (s *Session) Send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal outbound frame")
	}
	payload = append(payload, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrNotConnected
	}
	if _, err := s.conn.Write(payload); err != nil {
		return errors.Wrap(err, "write outbound frame")
	}
	return nil
}

func (s *Session) markConnecting() {
	s.state.CompareAndSwap(int32(StateNone), int32(StateConnecting))
}

// heartbeatLoop emits liveness frames until the connection detaches.
// Heartbeats are never acknowledged; a write failure here surfaces as a
// read error on the connection's own loop.
func (s *Session) heartbeatLoop(stop chan struct{}) {
	ticker := time.NewTicker(s.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			beat := model.Heartbeat{Action: model.ActionHeartbeat, Timestamp: time.Now().UnixMilli()}
			if err := s.Send(beat); err != nil {
				logs.Warnf("send heartbeat, err: %+v", err)
			}
		}
	}
}
