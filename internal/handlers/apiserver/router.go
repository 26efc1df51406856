package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts the full HTTP surface. Health probes, registration, login
// and read endpoints are public; mutating endpoints, logout, the 2FA
// enrollment flow and the presence websocket sit behind authMW.
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	profileHandler *ProfileHandler,
	friendshipHandler *FriendshipHandler,
	presenceHandler *PresenceHandler,
	healthHandler *HealthHandler,
	authMW mux.MiddlewareFunc,
) *mux.Router {
	r := mux.NewRouter()

	secured := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	r.HandleFunc("/live", healthHandler.Live).Methods(http.MethodGet)
	r.HandleFunc("/ready", healthHandler.Ready).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.Handle("/auth/logout", secured(authHandler.Logout)).Methods(http.MethodPost)
	r.Handle("/auth/{username}/2fa/generate", secured(authHandler.Generate2FA)).Methods(http.MethodPost)
	r.Handle("/auth/{username}/2fa/enable", secured(authHandler.Enable2FA)).Methods(http.MethodPost)
	r.Handle("/auth/{username}/2fa/disable", secured(authHandler.Disable2FA)).Methods(http.MethodPost)

	// Users
	r.HandleFunc("/users", userHandler.GetAllUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{username}", userHandler.GetUserByUsername).Methods(http.MethodGet)
	r.Handle("/users/{username}", secured(userHandler.UpdateUser)).Methods(http.MethodPut)
	r.Handle("/users/{username}", secured(userHandler.DisableUser)).Methods(http.MethodPatch)
	r.Handle("/users/{username}", secured(userHandler.DeleteUser)).Methods(http.MethodDelete)

	// Profiles
	r.Handle("/profiles/{username}", secured(profileHandler.CreateProfile)).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{username}", profileHandler.GetProfile).Methods(http.MethodGet)
	r.Handle("/profiles/{username}", secured(profileHandler.UpdateProfile)).Methods(http.MethodPut)
	r.Handle("/profiles/{username}", secured(profileHandler.DeleteProfile)).Methods(http.MethodDelete)
	r.HandleFunc("/profiles/{username}/avatar", profileHandler.GetAvatar).Methods(http.MethodGet)
	r.Handle("/profiles/{username}/avatar", secured(profileHandler.UploadAvatar)).Methods(http.MethodPost)

	// Friendships
	friendshipRouter := r.PathPrefix("/friendships").Subrouter()
	friendshipRouter.Handle("", secured(friendshipHandler.SendFriendRequest)).Methods(http.MethodPost)
	friendshipRouter.Handle("", secured(friendshipHandler.RemoveFriend)).Methods(http.MethodDelete)
	friendshipRouter.HandleFunc("/requests/{username}", friendshipHandler.GetFriendRequests).Methods(http.MethodGet)
	friendshipRouter.HandleFunc("/list/{username}", friendshipHandler.ListFriends).Methods(http.MethodGet)
	friendshipRouter.Handle("/respond/{friendshipId:[0-9]+}", secured(friendshipHandler.RespondToFriendRequest)).Methods(http.MethodPatch)
	friendshipRouter.Handle("/block/{friendId}", secured(friendshipHandler.BlockUser)).Methods(http.MethodPatch)
	friendshipRouter.Handle("/unblock/{friendId}", secured(friendshipHandler.UnblockUser)).Methods(http.MethodPatch)
	friendshipRouter.HandleFunc("/status/{requester}/{addressee}", friendshipHandler.GetFriendshipStatus).Methods(http.MethodGet)
	friendshipRouter.HandleFunc("/blockedUsersList/{username}", friendshipHandler.GetBlockedUsers).Methods(http.MethodGet)

	// Presence websocket
	r.Handle("/ws/presence", secured(presenceHandler.Connect)).Methods(http.MethodGet)

	return r
}
