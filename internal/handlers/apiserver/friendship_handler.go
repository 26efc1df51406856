package apiserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"social-go/internal/models"
	"social-go/internal/services"
)

// FriendshipHandler exposes the friendship endpoints.
type FriendshipHandler struct {
	friendshipService services.FriendshipService
	logger            *zap.Logger
}

// NewFriendshipHandler creates a new FriendshipHandler instance.
func NewFriendshipHandler(friendshipService services.FriendshipService, logger *zap.Logger) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService, logger: logger}
}

// SendFriendRequestPayload is the body of POST /friendships.
type SendFriendRequestPayload struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
}

// SendFriendRequest handles POST /friendships.
func (h *FriendshipHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var payload SendFriendRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.FromUserID == "" || payload.ToUserID == "" {
		writeJSONError(w, "fromUserId and toUserId are required", http.StatusBadRequest)
		return
	}

	if err := h.friendshipService.SendFriendRequest(r.Context(), payload.FromUserID, payload.ToUserID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, MessageResponse{Message: "Friend request sent"})
}

// GetFriendRequests handles GET /friendships/requests/{username}.
func (h *FriendshipHandler) GetFriendRequests(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	requests, err := h.friendshipService.GetFriendRequests(r.Context(), username)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, requests)
}

// RespondPayload is the body of PATCH /friendships/respond/{friendshipId}.
type RespondPayload struct {
	Status models.FriendshipStatus `json:"status"`
}

// RespondToFriendRequest handles PATCH /friendships/respond/{friendshipId}.
// The status string must be a member of the friendship state enum; the
// service itself applies whatever it is handed.
func (h *FriendshipHandler) RespondToFriendRequest(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["friendshipId"]
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		writeJSONError(w, "invalid friendship id", http.StatusBadRequest)
		return
	}

	var payload RespondPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !payload.Status.Valid() {
		writeJSONError(w, "invalid friendship status", http.StatusBadRequest)
		return
	}

	if err := h.friendshipService.RespondToFriendRequest(r.Context(), uint(id), payload.Status); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "Friend request " + string(payload.Status)})
}

// ListFriends handles GET /friendships/list/{username}.
func (h *FriendshipHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	friends, err := h.friendshipService.ListFriends(r.Context(), username)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, friends)
}

// RemoveFriendPayload is the body of DELETE /friendships.
type RemoveFriendPayload struct {
	UserID   string `json:"userId"`
	FriendID string `json:"friendId"`
}

// RemoveFriend handles DELETE /friendships. Removing a pair with no ACCEPTED
// record is a no-op.
func (h *FriendshipHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	var payload RemoveFriendPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.UserID == "" || payload.FriendID == "" {
		writeJSONError(w, "userId and friendId are required", http.StatusBadRequest)
		return
	}

	if err := h.friendshipService.RemoveFriend(r.Context(), payload.UserID, payload.FriendID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "Friend removed"})
}

// BlockPayload is the body of PATCH /friendships/block/{friendId}.
type BlockPayload struct {
	BlockedBy string `json:"blockedBy"`
}

// BlockUser handles PATCH /friendships/block/{friendId}.
func (h *FriendshipHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	friendID := mux.Vars(r)["friendId"]

	var payload BlockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.BlockedBy == "" {
		writeJSONError(w, "blockedBy is required", http.StatusBadRequest)
		return
	}

	if err := h.friendshipService.BlockUser(r.Context(), payload.BlockedBy, friendID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "User blocked"})
}

// UnblockPayload is the body of PATCH /friendships/unblock/{friendId}.
type UnblockPayload struct {
	UnblockedBy string `json:"unblockedBy"`
}

// UnblockUser handles PATCH /friendships/unblock/{friendId}.
func (h *FriendshipHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	friendID := mux.Vars(r)["friendId"]

	var payload UnblockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if payload.UnblockedBy == "" {
		writeJSONError(w, "unblockedBy is required", http.StatusBadRequest)
		return
	}

	if err := h.friendshipService.UnblockUser(r.Context(), payload.UnblockedBy, friendID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "User unblocked"})
}

// GetFriendshipStatus handles GET /friendships/status/{requester}/{addressee}.
func (h *FriendshipHandler) GetFriendshipStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	info, err := h.friendshipService.GetFriendshipStatus(r.Context(), vars["requester"], vars["addressee"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, info)
}

// GetBlockedUsers handles GET /friendships/blockedUsersList/{username}.
func (h *FriendshipHandler) GetBlockedUsers(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	blocked, err := h.friendshipService.GetBlockedUsers(r.Context(), username)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, blocked)
}
