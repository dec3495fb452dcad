package ws

import (
	"strings"
	"sync"
	"time"

	"slateboard-backend/internal/metrics"
)

// Registry is the concurrency-safe map of room code to Room. It exclusively
// owns every Room instance; creation and deletion go through it and nothing
// else holds owning references.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// NormalizeCode upper-cases and trims a room code so that "abc" and "ABC"
// address the same room.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetOrCreate returns the room for code, creating it if absent. The
// check-and-insert happens under one write lock, so two simultaneous first
// joins to the same code always resolve to a single room.
func (r *Registry) GetOrCreate(code string) *Room {
	code = NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[code]
	if !exists {
		room = NewRoom(code)
		r.rooms[code] = room
		metrics.ActiveRooms.Set(float64(len(r.rooms)))
	}
	return room
}

// Get returns the room for code, or nil if it does not exist.
func (r *Registry) Get(code string) *Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[NormalizeCode(code)]
}

// Delete removes a room from the registry.
func (r *Registry) Delete(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code = NormalizeCode(code)
	if _, exists := r.rooms[code]; exists {
		delete(r.rooms, code)
		metrics.ActiveRooms.Set(float64(len(r.rooms)))
	}
}

// ListAll returns a snapshot of all rooms, for sweeping and diagnostics.
func (r *Registry) ListAll() []*Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Count returns the number of active rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// RoomInfo is the operational summary consumed by the HTTP layer.
type RoomInfo struct {
	RoomCode     string    `json:"roomCode"`
	UserCount    int       `json:"userCount"`
	StrokeCount  int       `json:"strokeCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// Info returns the summary for a room, or nil if the room does not exist.
func (r *Registry) Info(code string) *RoomInfo {
	room := r.Get(code)
	if room == nil {
		return nil
	}
	return room.Info()
}
