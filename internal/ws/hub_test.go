package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-go/internal/models"
	"social-go/internal/services"
)

// recordingProfileService captures presence updates; everything else is
// unused by the hub.
type recordingProfileService struct {
	services.ProfileService
	updates chan statusUpdate
}

func (r *recordingProfileService) UpdateStatus(ctx context.Context, username string, status models.ProfileStatus) error {
	r.updates <- statusUpdate{username: username, status: status}
	return nil
}

func waitForUpdate(t *testing.T, ch chan statusUpdate) statusUpdate {
	t.Helper()
	select {
	case update := <-ch:
		return update
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for presence update")
		return statusUpdate{}
	}
}

func TestHubPresenceLifecycle(t *testing.T) {
	recorder := &recordingProfileService{updates: make(chan statusUpdate, 8)}
	hub := NewHub(recorder, zap.NewNop())
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 1), username: "alice"}
	hub.register <- client

	update := waitForUpdate(t, recorder.updates)
	assert.Equal(t, "alice", update.username)
	assert.Equal(t, models.ProfileStatusOnline, update.status)

	hub.statusUpdates <- statusUpdate{username: "alice", status: models.ProfileStatusInGame}
	update = waitForUpdate(t, recorder.updates)
	assert.Equal(t, models.ProfileStatusInGame, update.status)

	hub.unregister <- client
	update = waitForUpdate(t, recorder.updates)
	assert.Equal(t, models.ProfileStatusOffline, update.status)

	// The send channel is closed on unregister.
	_, open := <-client.send
	assert.False(t, open)
}

func TestHubReplacesExistingConnection(t *testing.T) {
	recorder := &recordingProfileService{updates: make(chan statusUpdate, 8)}
	hub := NewHub(recorder, zap.NewNop())
	go hub.Run()

	first := &Client{hub: hub, send: make(chan []byte, 1), username: "alice"}
	hub.register <- first
	waitForUpdate(t, recorder.updates)

	second := &Client{hub: hub, send: make(chan []byte, 1), username: "alice"}
	hub.register <- second
	waitForUpdate(t, recorder.updates)

	// The replaced connection's send channel is closed.
	_, open := <-first.send
	assert.False(t, open)

	// Unregistering the stale client must not evict the live one.
	hub.unregister <- first
	hub.statusUpdates <- statusUpdate{username: "alice", status: models.ProfileStatusInGame}
	update := waitForUpdate(t, recorder.updates)
	require.Equal(t, models.ProfileStatusInGame, update.status)
}
