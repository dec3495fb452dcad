package ws

import (
	"testing"

	"github.com/stretchr/testify/require"

	"slateboard-backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	d := newTestDispatcher()

	client := NewClient(d, nil, domain.MaxMessageSize)

	require.NotEmpty(t, client.ID())
	require.NotNil(t, client.send)

	d.mu.RLock()
	_, registered := d.conns[client.ID()]
	d.mu.RUnlock()
	require.True(t, registered, "new client is registered for fan-out")
}

func TestClientSend(t *testing.T) {
	d := newTestDispatcher()
	client := NewClient(d, nil, domain.MaxMessageSize)

	client.Send(domain.NewEvent(domain.EventError, domain.ErrorPayload{Message: "boom"}))

	select {
	case raw := <-client.send:
		require.Contains(t, string(raw), "boom")
	default:
		t.Fatal("expected event in send channel")
	}
}

func TestClientSendBufferFull(t *testing.T) {
	d := newTestDispatcher()
	client := &Client{
		id:         "conn-full",
		dispatcher: d,
		send:       make(chan []byte, 1),
	}

	client.Send(domain.NewEvent(domain.EventClear, domain.ClearBroadcast{ClearedBy: "u1"}))
	// Must drop rather than block when the buffer is full.
	client.Send(domain.NewEvent(domain.EventClear, domain.ClearBroadcast{ClearedBy: "u2"}))

	require.Len(t, client.send, 1)
}
