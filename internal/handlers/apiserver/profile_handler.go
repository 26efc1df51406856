package apiserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"social-go/internal/config"
	"social-go/internal/models"
	"social-go/internal/services"
)

// ProfileHandler exposes the profile and avatar endpoints.
type ProfileHandler struct {
	profileService services.ProfileService
	avatarCfg      config.AvatarConfig
	logger         *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(profileService services.ProfileService, avatarCfg config.AvatarConfig, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		avatarCfg:      avatarCfg,
		logger:         logger,
	}
}

// ProfileRequest is the body of POST and PUT /profiles/{username}. All
// fields are optional; absent fields keep their defaults (create) or current
// values (update). ID and avatar are deliberately absent: neither is mutable
// through these endpoints.
type ProfileRequest struct {
	Nickname  *string               `json:"nickName,omitempty"`
	Bio       *string               `json:"bio,omitempty"`
	Gender    *models.Gender        `json:"gender,omitempty"`
	FirstName *string               `json:"firstName,omitempty"`
	LastName  *string               `json:"lastName,omitempty"`
	Language  *models.Language      `json:"language,omitempty"`
	Status    *models.ProfileStatus `json:"status,omitempty"`
}

// CreateProfile handles POST /profiles/{username}.
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	profile, err := h.profileService.CreateProfile(r.Context(), username, services.ProfileInput{
		Nickname:  req.Nickname,
		Bio:       req.Bio,
		Gender:    req.Gender,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Language:  req.Language,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{
		"message": "Profile created!",
		"profile": profile,
	})
}

// GetProfile handles GET /profiles/{username}. The avatar blob is excluded;
// it is served only by GetAvatar.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	profile, err := h.profileService.GetProfileByUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /profiles/{username}.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	profile, err := h.profileService.UpdateProfile(r.Context(), username, services.ProfileUpdate{
		Nickname:  req.Nickname,
		Bio:       req.Bio,
		Gender:    req.Gender,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Language:  req.Language,
		Status:    req.Status,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"message": "Profile updated",
		"profile": profile,
	})
}

// DeleteProfile handles DELETE /profiles/{username}.
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	if err := h.profileService.DeleteProfile(r.Context(), username); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "Profile deleted"})
}

// GetAvatar handles GET /profiles/{username}/avatar, serving the raw bytes
// with the sniffed content type.
func (h *ProfileHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	data, mime, err := h.profileService.GetAvatar(r.Context(), username)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// UploadAvatar handles POST /profiles/{username}/avatar. The boundary owns
// the upload constraints: the request body is capped at the configured
// maximum and the sniffed content type must be on the allow-list.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	maxSize := h.avatarCfg.MaxSizeBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSONError(w, "avatar exceeds the maximum allowed size", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSONError(w, "missing 'avatar' file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		writeJSONError(w, "avatar exceeds the maximum allowed size", http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read avatar upload", zap.Error(err))
		writeJSONError(w, "failed to read uploaded file", http.StatusBadRequest)
		return
	}

	// Sniff the actual content; the client-declared Content-Type is not
	// trusted.
	detected := mimetype.Detect(data).String()
	if !slices.Contains(h.avatarCfg.AllowedTypes, detected) {
		writeJSONError(w, "unsupported avatar content type", http.StatusUnsupportedMediaType)
		return
	}

	if err := h.profileService.UploadAvatar(r.Context(), username, data); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, MessageResponse{Message: "Avatar uploaded"})
}
