package domain

// User represents a whiteboard participant inside a room.
//
// ID is generated by the client and stays stable across reconnects; the
// ConnectionID is the transport session currently carrying the user and is
// replaced in place when the same ID rejoins.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"` // hex color used for strokes and cursor
	ConnectionID string `json:"connectionId,omitempty"`
	JoinedAt     int64  `json:"joinedAt,omitempty"` // unix milliseconds
}

// Valid reports whether the user carries the minimum identity needed to join.
func (u User) Valid() bool {
	return u.ID != "" && u.Name != ""
}
