package hub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/example/ride-hub/internal/protocol"
)

type Role string

const (
	RoleNone     Role = ""
	RoleDriver   Role = "driver"
	RoleUser     Role = "user"
	RoleObserver Role = "observer"
)

// frameWriter is the transport surface a session needs. *websocket.Conn
// satisfies it; tests substitute an in-memory recorder.
type frameWriter interface {
	WriteJSON(v interface{}) error
}

// Session is one live connection. Role and client id are unset until the
// first registration message binds them.
type Session struct {
	ID       string
	role     Role
	clientID string

	writeMu sync.Mutex
	conn    frameWriter

	closedMu sync.Mutex
	closed   bool
}

func newSession(conn frameWriter) *Session {
	return &Session{ID: uuid.NewString(), conn: conn}
}

// Send writes one JSON frame. Writes are serialized per session because
// the reminder timer can fire while a handler is replying on the same
// connection.
func (s *Session) Send(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *Session) markClosed() {
	s.closedMu.Lock()
	s.closed = true
	s.closedMu.Unlock()
}

func (s *Session) Closed() bool {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	return s.closed
}

// Registry tracks live sessions by role. At most one observer is bound at
// a time; registering a new one silently replaces the old binding. No
// business logic lives here, only binding bookkeeping.
type Registry struct {
	mu       sync.RWMutex
	drivers  map[string]*Session
	users    map[string]*Session
	observer *Session
}

func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[string]*Session),
		users:   make(map[string]*Session),
	}
}

func (r *Registry) RegisterDriver(clientID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.role = RoleDriver
	s.clientID = clientID
	r.drivers[clientID] = s
}

func (r *Registry) RegisterUser(clientID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.role = RoleUser
	s.clientID = clientID
	r.users[clientID] = s
}

func (r *Registry) RegisterObserver(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.role = RoleObserver
	r.observer = s
}

func (r *Registry) Observer() *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.observer != nil && !r.observer.Closed() {
		return r.observer
	}
	return nil
}

func (r *Registry) DriverConnected(clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.drivers[clientID]
	return ok && !s.Closed()
}

func (r *Registry) UserConnected(clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.users[clientID]
	return ok && !s.Closed()
}

// SendToClient delivers a frame to a driver or user by client id, scanning
// drivers first. Delivery failure is reported, never fatal: the caller
// logs and carries on.
func (r *Registry) SendToClient(clientID string, v interface{}) bool {
	r.mu.RLock()
	target, ok := r.drivers[clientID]
	if !ok {
		target, ok = r.users[clientID]
	}
	r.mu.RUnlock()
	if !ok || target.Closed() {
		return false
	}
	return target.Send(v) == nil
}

// Broadcast delivers a frame to every open session except the one with
// the excluded connection id. Targeted sends plus observer snapshots are
// the dominant pattern; this exists for coarse fan-out only.
func (r *Registry) Broadcast(v interface{}, excludeConnID string) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.drivers)+len(r.users)+1)
	for _, s := range r.drivers {
		sessions = append(sessions, s)
	}
	for _, s := range r.users {
		sessions = append(sessions, s)
	}
	if r.observer != nil {
		sessions = append(sessions, r.observer)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		if s.ID == excludeConnID || s.Closed() {
			continue
		}
		_ = s.Send(v)
	}
}

// currentBinding reports whether s is still the active binding for its
// client id. False means a newer connection re-registered the same id and
// this session's close must not disturb it.
func (r *Registry) currentBinding(s *Session) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch s.role {
	case RoleDriver:
		return r.drivers[s.clientID] == s
	case RoleUser:
		return r.users[s.clientID] == s
	case RoleObserver:
		return r.observer == s
	}
	return false
}

// Unregister removes the session from whichever role registry holds it.
// A rebound client id (same id, newer session) is left alone.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch s.role {
	case RoleDriver:
		if cur, ok := r.drivers[s.clientID]; ok && cur == s {
			delete(r.drivers, s.clientID)
		}
	case RoleUser:
		if cur, ok := r.users[s.clientID]; ok && cur == s {
			delete(r.users, s.clientID)
		}
	case RoleObserver:
		if r.observer == s {
			r.observer = nil
		}
	}
}

func (r *Registry) Counts() protocol.PoolCounts {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return protocol.PoolCounts{DriversCount: len(r.drivers), UsersCount: len(r.users)}
}
