package apiserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_ReadsArePublic(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	reads := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/users", http.StatusOK},
		{http.MethodGet, "/users/alice", http.StatusOK},
		{http.MethodGet, "/profiles/alice", http.StatusOK},
		{http.MethodGet, "/friendships/list/alice", http.StatusOK},
		{http.MethodGet, "/friendships/requests/alice", http.StatusOK},
		{http.MethodGet, "/friendships/blockedUsersList/alice", http.StatusOK},
	}
	for _, tc := range reads {
		rec := env.doGuestJSON(t, tc.method, tc.path, nil)
		assert.Equal(t, tc.want, rec.Code, "%s %s should not require a token", tc.method, tc.path)
	}
}

func TestRouter_MutationsRequireToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")

	mutations := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/users/alice"},
		{http.MethodPatch, "/users/alice"},
		{http.MethodDelete, "/users/alice"},
		{http.MethodPost, "/profiles/alice"},
		{http.MethodPut, "/profiles/alice"},
		{http.MethodDelete, "/profiles/alice"},
		{http.MethodPost, "/profiles/alice/avatar"},
		{http.MethodPost, "/friendships"},
		{http.MethodDelete, "/friendships"},
		{http.MethodPatch, "/friendships/respond/1"},
		{http.MethodPatch, "/friendships/block/alice"},
		{http.MethodPatch, "/friendships/unblock/alice"},
		{http.MethodPost, "/auth/alice/2fa/generate"},
		{http.MethodPost, "/auth/alice/2fa/enable"},
		{http.MethodPost, "/auth/alice/2fa/disable"},
		{http.MethodPost, "/auth/logout"},
	}
	for _, tc := range mutations {
		rec := env.doGuestJSON(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s should require a token", tc.method, tc.path)
	}
}

func TestRouter_RegisterAndLoginArePublic(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")

	rec := env.doGuestJSON(t, http.MethodPost, "/auth/register", RegisterRequest{
		Username: "bob",
		Password: "correct-horse-battery-staple",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doGuestJSON(t, http.MethodPost, "/auth/login", LoginRequest{
		Username: "alice",
		Password: "Tr0ub4dor&3-horse",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
