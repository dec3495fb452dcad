package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"slateboard-backend/internal/domain"
	"slateboard-backend/internal/metrics"
)

// Sender is the transport half of a connection as seen by the dispatcher:
// an identity plus a best-effort outbound queue.
type Sender interface {
	ID() string
	Send(ev domain.Event)
}

// Dispatcher validates inbound events, mutates the addressed room through
// the registry, and fans results out to the right set of connections.
// Handlers run to completion; room state is only ever touched under the
// room's own lock, so concurrent connections cannot interleave mid-mutation.
type Dispatcher struct {
	registry *Registry
	sessions *SessionIndex
	log      *zap.Logger

	mu    sync.RWMutex
	conns map[string]Sender
}

// NewDispatcher wires a dispatcher to its registry.
func NewDispatcher(registry *Registry, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		sessions: NewSessionIndex(),
		log:      log,
		conns:    make(map[string]Sender),
	}
}

// Registry exposes the room registry for the HTTP read surface.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Connect registers a live connection for fan-out delivery.
func (d *Dispatcher) Connect(s Sender) {
	d.mu.Lock()
	d.conns[s.ID()] = s
	d.mu.Unlock()

	metrics.ConnectedClients.Inc()
	d.log.Debug("client connected", zap.String("conn", s.ID()))
}

// Disconnect resolves the connection's room, removes the user from it, and
// drops the connection from the fan-out table. Safe to call for connections
// that never completed a join.
func (d *Dispatcher) Disconnect(s Sender) {
	d.handleDisconnect(s)

	d.mu.Lock()
	delete(d.conns, s.ID())
	d.mu.Unlock()

	metrics.ConnectedClients.Dec()
	d.log.Debug("client disconnected", zap.String("conn", s.ID()))
}

// Dispatch routes one raw frame from a connection to its handler. Any
// handler panic is converted into an error reply to the sender only; no
// event may take down the connection or the process.
func (d *Dispatcher) Dispatch(sender Sender, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error("event handler panicked",
				zap.Any("panic", rec),
				zap.String("conn", sender.ID()))
			d.sendError(sender, "An error occurred processing your request")
		}
	}()

	var ev domain.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		d.reject(sender, "unknown", "Invalid message format")
		return
	}

	switch ev.Type {
	case domain.EventJoinRoom:
		var p domain.JoinRoomPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			d.reject(sender, string(ev.Type), "Invalid room code or user data")
			return
		}
		d.handleJoinRoom(sender, p)

	case domain.EventStroke:
		var p domain.StrokePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			d.reject(sender, string(ev.Type), "Invalid stroke data")
			return
		}
		d.handleStroke(sender, p)

	case domain.EventCursor:
		var p domain.CursorPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return // cursor is best-effort, drop silently
		}
		d.handleCursor(sender, p)

	case domain.EventClear:
		var p domain.ClearPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			d.reject(sender, string(ev.Type), "Invalid clear request")
			return
		}
		d.handleClear(sender, p)

	case domain.EventUndo:
		var p domain.UndoPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			d.reject(sender, string(ev.Type), "Invalid undo request")
			return
		}
		d.handleUndo(sender, p)

	default:
		d.reject(sender, string(ev.Type), "Unknown event type")
	}
}

func (d *Dispatcher) handleJoinRoom(sender Sender, p domain.JoinRoomPayload) {
	if p.RoomCode == "" || !p.User.Valid() {
		d.reject(sender, string(domain.EventJoinRoom), "Invalid room code or user data")
		return
	}

	code := NormalizeCode(p.RoomCode)
	user := p.User
	user.ConnectionID = sender.ID()
	user.JoinedAt = domain.NowMillis()

	room := d.registry.GetOrCreate(code)
	strokes, users := room.Join(user)
	d.sessions.Bind(sender.ID(), code, user.ID)

	// Sender gets the current canvas before anything else.
	sender.Send(domain.NewEvent(domain.EventExistingStrokes, domain.ExistingStrokesPayload{Strokes: strokes}))
	sender.Send(domain.NewEvent(domain.EventJoinedRoom, domain.JoinedRoomPayload{RoomCode: code, Users: users}))

	d.broadcast(users, "", domain.NewEvent(domain.EventUsersUpdated, domain.UsersUpdatedPayload{Users: users}))

	metrics.EventsTotal.WithLabelValues(string(domain.EventJoinRoom), "ok").Inc()
	d.log.Info("user joined room",
		zap.String("room", code),
		zap.String("user", user.ID),
		zap.Int("users", len(users)))
}

func (d *Dispatcher) handleStroke(sender Sender, p domain.StrokePayload) {
	room := d.registry.Get(p.RoomCode)
	if room == nil {
		d.reject(sender, string(domain.EventStroke), "Room not found")
		return
	}

	if err := p.Stroke.Validate(); err != nil {
		d.reject(sender, string(domain.EventStroke), "Invalid stroke data")
		return
	}

	stored, err := room.AddStroke(p.Stroke)
	if err != nil {
		d.reject(sender, string(domain.EventStroke), "Invalid stroke data")
		return
	}

	d.broadcast(room.Users(), sender.ID(),
		domain.NewEvent(domain.EventStroke, domain.StrokeBroadcast{Stroke: stored}))
	metrics.EventsTotal.WithLabelValues(string(domain.EventStroke), "ok").Inc()
}

func (d *Dispatcher) handleCursor(sender Sender, p domain.CursorPayload) {
	room := d.registry.Get(p.RoomCode)
	if room == nil {
		metrics.EventsTotal.WithLabelValues(string(domain.EventCursor), "ignored").Inc()
		return
	}

	cursor := p.CursorData
	cursor.Timestamp = domain.NowMillis()

	d.broadcast(room.Users(), sender.ID(),
		domain.NewEvent(domain.EventCursor, domain.CursorBroadcast{CursorData: cursor}))
	metrics.EventsTotal.WithLabelValues(string(domain.EventCursor), "ok").Inc()
}

func (d *Dispatcher) handleClear(sender Sender, p domain.ClearPayload) {
	room := d.registry.Get(p.RoomCode)
	if room == nil {
		metrics.EventsTotal.WithLabelValues(string(domain.EventClear), "ignored").Inc()
		return
	}

	room.Clear()

	d.broadcast(room.Users(), "",
		domain.NewEvent(domain.EventClear, domain.ClearBroadcast{ClearedBy: p.UserID}))
	metrics.EventsTotal.WithLabelValues(string(domain.EventClear), "ok").Inc()
	d.log.Info("room cleared", zap.String("room", room.Code), zap.String("user", p.UserID))
}

func (d *Dispatcher) handleUndo(sender Sender, p domain.UndoPayload) {
	room := d.registry.Get(p.RoomCode)
	if room == nil {
		metrics.EventsTotal.WithLabelValues(string(domain.EventUndo), "ignored").Inc()
		return
	}

	// Global LIFO over the whole room, not the sender's own last stroke.
	removed, ok := room.RemoveLastStroke()
	if !ok {
		metrics.EventsTotal.WithLabelValues(string(domain.EventUndo), "ignored").Inc()
		return
	}

	d.broadcast(room.Users(), "",
		domain.NewEvent(domain.EventUndo, domain.UndoBroadcast{RemovedStroke: removed, UndoneBy: p.UserID}))
	metrics.EventsTotal.WithLabelValues(string(domain.EventUndo), "ok").Inc()
}

func (d *Dispatcher) handleDisconnect(sender Sender) {
	binding, ok := d.sessions.Resolve(sender.ID())
	if !ok {
		return // never completed a join
	}
	d.sessions.Unbind(sender.ID())

	room := d.registry.Get(binding.RoomCode)
	if room == nil {
		return // room already swept
	}

	removed, users, empty := room.RemoveConnection(sender.ID())
	if !removed {
		return // user already rejoined on a newer connection
	}

	if empty {
		d.registry.Delete(room.Code)
		d.log.Info("room deleted", zap.String("room", room.Code), zap.String("reason", "empty"))
		return
	}

	d.broadcast(users, "", domain.NewEvent(domain.EventUsersUpdated, domain.UsersUpdatedPayload{Users: users}))
	d.log.Info("user left room",
		zap.String("room", room.Code),
		zap.String("user", binding.UserID),
		zap.Int("users", len(users)))
}

// broadcast delivers an event to every member's connection, skipping
// exceptConn when set. Members whose connection has already gone away are
// skipped; their disconnect will clean them up.
func (d *Dispatcher) broadcast(users []domain.User, exceptConn string, ev domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range users {
		if u.ConnectionID == exceptConn {
			continue
		}
		if conn, ok := d.conns[u.ConnectionID]; ok {
			conn.Send(ev)
		}
	}
}

func (d *Dispatcher) sendError(sender Sender, message string) {
	sender.Send(domain.NewEvent(domain.EventError, domain.ErrorPayload{Message: message}))
}

// reject sends an error reply to the sender only and records the outcome.
func (d *Dispatcher) reject(sender Sender, eventType, message string) {
	d.sendError(sender, message)
	metrics.EventsTotal.WithLabelValues(eventType, "rejected").Inc()
	d.log.Debug("event rejected",
		zap.String("type", eventType),
		zap.String("conn", sender.ID()),
		zap.String("reason", message))
}
