package ws

import "sync"

// Binding associates a live connection with the (room, user) it joined.
// It is a non-owning reference used only to resolve disconnects.
type Binding struct {
	RoomCode string
	UserID   string
}

// SessionIndex maps connection ids to bindings so a disconnect resolves in
// O(1) instead of scanning every room for the closing connection.
type SessionIndex struct {
	mu     sync.RWMutex
	byConn map[string]Binding
}

// NewSessionIndex creates an empty session index.
func NewSessionIndex() *SessionIndex {
	return &SessionIndex{
		byConn: make(map[string]Binding),
	}
}

// Bind records the (room, user) for a connection, replacing any previous
// binding for the same connection.
func (s *SessionIndex) Bind(connectionID, roomCode, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byConn[connectionID] = Binding{RoomCode: roomCode, UserID: userID}
}

// Resolve returns the binding for a connection, if it ever completed a join.
func (s *SessionIndex) Resolve(connectionID string) (Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byConn[connectionID]
	return b, ok
}

// Unbind removes the binding for a connection.
func (s *SessionIndex) Unbind(connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byConn, connectionID)
}

// Count returns the number of bound connections.
func (s *SessionIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byConn)
}
