package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubReconnectReplacesClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(logger)
	go hub.Run()

	userID := uuid.New()
	first := NewClient(hub, nil, userID, logger)
	second := NewClient(hub, nil, userID, logger)

	hub.register <- first
	hub.register <- second

	// the replaced client is closed so its pumps stop
	select {
	case _, ok := <-first.done:
		assert.False(t, ok, "done channel of the replaced client must be closed")
	case <-time.After(time.Second):
		t.Fatal("first client was not closed on reconnect")
	}

	// a stale unregister from the old connection must not evict the new one
	hub.unregister <- first

	evt, err := NewEvent(EventTypePong, nil)
	require.NoError(t, err)
	hub.SendToUser(userID, evt)

	select {
	case data := <-second.send:
		var got Event
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, EventTypePong, got.Type)
	case <-time.After(time.Second):
		t.Fatal("replacement client did not receive the event")
	}
}

func TestHubSendToOfflineUserIsDropped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(logger)
	go hub.Run()

	userID := uuid.New()
	client := NewClient(hub, nil, userID, logger)
	hub.register <- client
	hub.unregister <- client

	evt, err := NewEvent(EventTypePong, nil)
	require.NoError(t, err)
	// delivery to a disconnected user is a no-op, not a panic
	hub.SendToUser(uuid.New(), evt)
	hub.SendToUser(userID, evt)
}
