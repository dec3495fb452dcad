package ws

import (
	"errors"
	"sync"
	"time"

	"slateboard-backend/internal/domain"
)

// ErrStrokeConflict is returned when a stroke id already exists in the log
// but the update comes from a different author, or targets a finalized
// shape stroke. Only freehand strokes may be updated in place, and only by
// the user who started them.
var ErrStrokeConflict = errors.New("stroke id already in use")

// Room aggregates the stroke log and current membership for one room code.
//
// All mutation happens under the room mutex, one event at a time, so no
// caller ever observes a torn state. The user slice keeps insertion order;
// rejoining with a known user id replaces the entry in place without
// disturbing its position.
type Room struct {
	Code string

	mu           sync.Mutex
	strokes      []domain.Stroke
	users        []domain.User
	createdAt    time.Time
	lastActivity time.Time
}

// NewRoom creates an empty room for code.
func NewRoom(code string) *Room {
	now := time.Now()
	return &Room{
		Code:         code,
		createdAt:    now,
		lastActivity: now,
	}
}

// touch refreshes lastActivity. Caller must hold the room mutex.
func (r *Room) touch() {
	r.lastActivity = time.Now()
}

// Join upserts the user by id and returns snapshots of the stroke log and
// membership taken under the same lock, so a joining client never sees a
// state in which its own membership and the strokes disagree.
func (r *Room) Join(user domain.User) (strokes []domain.Stroke, users []domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := false
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		r.users = append(r.users, user)
	}
	r.touch()

	return r.strokesLocked(), r.usersLocked()
}

// AddStroke appends the stroke or, when its id is already present, replaces
// the in-progress freehand stroke of the same author. The server timestamp
// is assigned here; the stored stroke is returned so callers broadcast
// exactly what the log holds.
func (r *Room) AddStroke(stroke domain.Stroke) (domain.Stroke, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stroke.Timestamp = domain.NowMillis()

	for i := range r.strokes {
		if r.strokes[i].ID != stroke.ID {
			continue
		}
		if !r.strokes[i].Freehand() || r.strokes[i].UserID != stroke.UserID {
			return domain.Stroke{}, ErrStrokeConflict
		}
		r.strokes[i] = stroke
		r.touch()
		return stroke, nil
	}

	r.strokes = append(r.strokes, stroke)
	r.touch()
	return stroke, nil
}

// Clear truncates the stroke log.
func (r *Room) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.strokes = nil
	r.touch()
}

// RemoveLastStroke pops the most recently appended stroke, regardless of
// which user drew it. Returns false on an empty log, leaving lastActivity
// untouched.
func (r *Room) RemoveLastStroke() (domain.Stroke, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.strokes) == 0 {
		return domain.Stroke{}, false
	}

	last := r.strokes[len(r.strokes)-1]
	r.strokes = r.strokes[:len(r.strokes)-1]
	r.touch()
	return last, true
}

// RemoveConnection drops the member whose current connection id matches.
// A stale close arriving after the user has rejoined on a new connection
// matches nothing and removes nobody. Returns whether a member was removed,
// the remaining membership, and whether the room is now empty.
func (r *Room) RemoveConnection(connectionID string) (removed bool, users []domain.User, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ConnectionID == connectionID {
			r.users = append(r.users[:i], r.users[i+1:]...)
			removed = true
			break
		}
	}

	return removed, r.usersLocked(), len(r.users) == 0
}

// Strokes returns a copy of the stroke log in append order.
func (r *Room) Strokes() []domain.Stroke {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.strokesLocked()
}

// Users returns a copy of the membership in join order.
func (r *Room) Users() []domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usersLocked()
}

// UserCount returns the current number of members.
func (r *Room) UserCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// LastActivity returns the time of the last mutating event.
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// Info returns the operational summary for this room.
func (r *Room) Info() *RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	return &RoomInfo{
		RoomCode:     r.Code,
		UserCount:    len(r.users),
		StrokeCount:  len(r.strokes),
		CreatedAt:    r.createdAt,
		LastActivity: r.lastActivity,
	}
}

func (r *Room) strokesLocked() []domain.Stroke {
	strokes := make([]domain.Stroke, len(r.strokes))
	copy(strokes, r.strokes)
	return strokes
}

func (r *Room) usersLocked() []domain.User {
	users := make([]domain.User, len(r.users))
	copy(users, r.users)
	return users
}
