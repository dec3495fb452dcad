package domain

import (
	"encoding/json"
	"time"
)

// EventType defines the kind of message exchanged over a connection.
type EventType string

const (
	// Inbound events (client -> server)
	EventJoinRoom EventType = "join-room"
	EventStroke   EventType = "stroke"
	EventCursor   EventType = "cursor"
	EventClear    EventType = "clear"
	EventUndo     EventType = "undo"

	// Outbound events (server -> client)
	EventExistingStrokes EventType = "existing-strokes"
	EventJoinedRoom      EventType = "joined-room"
	EventUsersUpdated    EventType = "users-updated"
	EventError           EventType = "error"
)

// Event is the wire envelope for every message in both directions.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinRoomPayload is the inbound payload for join-room.
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	User     User   `json:"user"`
}

// StrokePayload is the inbound payload for stroke.
type StrokePayload struct {
	RoomCode string `json:"roomCode"`
	Stroke   Stroke `json:"stroke"`
}

// CursorPayload is the inbound payload for cursor.
type CursorPayload struct {
	RoomCode   string `json:"roomCode"`
	CursorData Cursor `json:"cursorData"`
}

// ClearPayload is the inbound payload for clear.
type ClearPayload struct {
	RoomCode string `json:"roomCode"`
	UserID   string `json:"userId"`
}

// UndoPayload is the inbound payload for undo.
type UndoPayload struct {
	RoomCode string `json:"roomCode"`
	UserID   string `json:"userId"`
}

// ExistingStrokesPayload is sent to a joining client before joined-room.
type ExistingStrokesPayload struct {
	Strokes []Stroke `json:"strokes"`
}

// JoinedRoomPayload confirms a join to the sender.
type JoinedRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Users    []User `json:"users"`
}

// UsersUpdatedPayload carries the full membership after any change.
type UsersUpdatedPayload struct {
	Users []User `json:"users"`
}

// StrokeBroadcast fans a stroke out to the rest of the room.
type StrokeBroadcast struct {
	Stroke Stroke `json:"stroke"`
}

// CursorBroadcast fans a cursor position out to the rest of the room.
type CursorBroadcast struct {
	CursorData Cursor `json:"cursorData"`
}

// ClearBroadcast tells the whole room the canvas was cleared.
type ClearBroadcast struct {
	ClearedBy string `json:"clearedBy"`
}

// UndoBroadcast tells the whole room which stroke was removed.
type UndoBroadcast struct {
	RemovedStroke Stroke `json:"removedStroke"`
	UndoneBy      string `json:"undoneBy"`
}

// ErrorPayload is the sender-only reply on any validation failure.
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewEvent marshals payload into an Event envelope. The payload structs
// above cannot fail to marshal, so the error is discarded.
func NewEvent(t EventType, payload any) Event {
	data, _ := json.Marshal(payload)
	return Event{Type: t, Payload: data}
}

// Encode serializes the full envelope to JSON bytes.
func (e Event) Encode() []byte {
	data, _ := json.Marshal(e)
	return data
}

// NowMillis returns the current time in unix milliseconds, the timestamp
// unit used across the wire protocol.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
