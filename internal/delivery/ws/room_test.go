package ws

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"slateboard-backend/internal/domain"
)

func testUser(id, connID string) domain.User {
	return domain.User{
		ID:           id,
		Name:         "user-" + id,
		Color:        "#00E5FF",
		ConnectionID: connID,
		JoinedAt:     domain.NowMillis(),
	}
}

func penStroke(id, userID string) domain.Stroke {
	return domain.Stroke{
		ID:     id,
		Tool:   domain.ToolPen,
		Color:  "#000000",
		Size:   2,
		Points: []domain.Point{{X: 1, Y: 1}},
		UserID: userID,
	}
}

func addStroke(t *testing.T, room *Room, s domain.Stroke) {
	t.Helper()
	_, err := room.AddStroke(s)
	require.NoError(t, err)
}

func TestRoomJoinIdempotent(t *testing.T) {
	room := NewRoom("TEST")

	room.Join(testUser("u1", "conn-1"))
	room.Join(testUser("u2", "conn-2"))
	_, users := room.Join(testUser("u1", "conn-9"))

	require.Len(t, users, 2, "rejoin with the same id must not duplicate membership")
	require.Equal(t, "u1", users[0].ID, "rejoin keeps the entry's ordinal position")
	require.Equal(t, "conn-9", users[0].ConnectionID, "rejoin replaces the connection id")
	require.Equal(t, "u2", users[1].ID)
}

func TestRoomJoinReturnsConsistentSnapshot(t *testing.T) {
	room := NewRoom("TEST")
	addStroke(t, room, penStroke("s1", "u1"))

	strokes, users := room.Join(testUser("u2", "conn-2"))
	require.Len(t, strokes, 1)
	require.Len(t, users, 1)

	// Snapshots are copies; mutating them must not touch room state.
	strokes[0].ID = "mutated"
	users[0].ID = "mutated"
	require.Equal(t, "s1", room.Strokes()[0].ID)
	require.Equal(t, "u2", room.Users()[0].ID)
}

func TestRoomStrokeOrder(t *testing.T) {
	room := NewRoom("TEST")

	for i := 0; i < 10; i++ {
		addStroke(t, room, penStroke(fmt.Sprintf("s%d", i), "u1"))
	}

	strokes := room.Strokes()
	require.Len(t, strokes, 10)
	for i, s := range strokes {
		require.Equal(t, fmt.Sprintf("s%d", i), s.ID, "log order equals append order")
	}
}

func TestRoomStrokeReplaceInPlace(t *testing.T) {
	room := NewRoom("TEST")

	addStroke(t, room, penStroke("s1", "u1"))
	addStroke(t, room, penStroke("s2", "u2"))

	grown := penStroke("s1", "u1")
	grown.Points = []domain.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	addStroke(t, room, grown)

	strokes := room.Strokes()
	require.Len(t, strokes, 2, "replace must not grow the log")
	require.Equal(t, "s1", strokes[0].ID, "replace keeps log position")
	require.Len(t, strokes[0].Points, 3)
}

func TestRoomStrokeReplaceWrongAuthor(t *testing.T) {
	room := NewRoom("TEST")
	addStroke(t, room, penStroke("s1", "u1"))

	hijack := penStroke("s1", "u2")
	_, err := room.AddStroke(hijack)
	require.ErrorIs(t, err, ErrStrokeConflict)
	require.Equal(t, "u1", room.Strokes()[0].UserID)
}

func TestRoomStrokeReplaceShapeRejected(t *testing.T) {
	room := NewRoom("TEST")

	shape := domain.Stroke{
		ID:         "s1",
		Tool:       domain.ToolRectangle,
		Color:      "#FF0000",
		Size:       1,
		StartPoint: &domain.Point{X: 0, Y: 0},
		EndPoint:   &domain.Point{X: 5, Y: 5},
		UserID:     "u1",
	}
	addStroke(t, room, shape)

	// Shapes are write-once even for their own author.
	_, err := room.AddStroke(shape)
	require.ErrorIs(t, err, ErrStrokeConflict)
}

func TestRoomStrokeTimestampAssigned(t *testing.T) {
	room := NewRoom("TEST")

	s := penStroke("s1", "u1")
	s.Timestamp = 42 // client-supplied value is overwritten
	addStroke(t, room, s)

	require.Greater(t, room.Strokes()[0].Timestamp, int64(42))
}

func TestRoomUndoIsGlobalLIFO(t *testing.T) {
	room := NewRoom("TEST")

	addStroke(t, room, penStroke("a", "user1"))
	addStroke(t, room, penStroke("b", "user2"))
	addStroke(t, room, penStroke("c", "user1"))

	removed, ok := room.RemoveLastStroke()
	require.True(t, ok)
	require.Equal(t, "c", removed.ID, "undo removes the room's most recent stroke, not per-author")

	remaining := room.Strokes()
	require.Len(t, remaining, 2)
	require.Equal(t, "a", remaining[0].ID)
	require.Equal(t, "b", remaining[1].ID)
}

func TestRoomUndoEmptyLog(t *testing.T) {
	room := NewRoom("TEST")
	before := room.LastActivity()

	_, ok := room.RemoveLastStroke()
	require.False(t, ok)
	require.Equal(t, before, room.LastActivity(), "a no-op undo does not refresh activity")
}

func TestRoomClear(t *testing.T) {
	room := NewRoom("TEST")
	addStroke(t, room, penStroke("s1", "u1"))

	room.Clear()
	require.Empty(t, room.Strokes())

	_, ok := room.RemoveLastStroke()
	require.False(t, ok, "undo after clear is a no-op")
}

func TestRoomRemoveConnection(t *testing.T) {
	room := NewRoom("TEST")
	room.Join(testUser("u1", "conn-1"))
	room.Join(testUser("u2", "conn-2"))

	removed, users, empty := room.RemoveConnection("conn-1")
	require.True(t, removed)
	require.False(t, empty)
	require.Len(t, users, 1)
	require.Equal(t, "u2", users[0].ID)

	removed, _, empty = room.RemoveConnection("conn-2")
	require.True(t, removed)
	require.True(t, empty)
}

func TestRoomRemoveConnectionStaleClose(t *testing.T) {
	room := NewRoom("TEST")
	room.Join(testUser("u1", "conn-1"))

	// u1 rejoins on a new connection, then the old connection's close arrives.
	room.Join(testUser("u1", "conn-2"))

	removed, users, empty := room.RemoveConnection("conn-1")
	require.False(t, removed, "a stale close must not evict the rejoined user")
	require.False(t, empty)
	require.Len(t, users, 1)
}

func TestRoomActivityMonotonic(t *testing.T) {
	room := NewRoom("TEST")
	created := room.LastActivity()

	addStroke(t, room, penStroke("s1", "u1"))
	afterStroke := room.LastActivity()
	require.False(t, afterStroke.Before(created))

	room.Clear()
	require.False(t, room.LastActivity().Before(afterStroke))
}
