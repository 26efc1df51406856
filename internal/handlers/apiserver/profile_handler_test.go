package apiserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-go/internal/models"
)

var pngFixture = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func (e *testEnv) uploadAvatar(t *testing.T, username, fieldName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartAvatar(t, fieldName, content)
	req := httptest.NewRequest(http.MethodPost, "/profiles/"+username+"/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")

	rec := env.doJSON(t, http.MethodPost, "/profiles/alice", map[string]string{
		"nickName": "ally",
		"bio":      "hello",
		"gender":   "FEMALE",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nickName":"ally"`)

	// One profile per user.
	rec = env.doJSON(t, http.MethodPost, "/profiles/alice", map[string]string{})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateProfileEndpoint_UserMissing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/profiles/ghost", map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	rec := env.doJSON(t, http.MethodPut, "/profiles/alice", map[string]string{
		"nickName": "ally",
		"language": "PORTUGUESE",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.Profile
	require.NoError(t, env.db.Where("username = ?", "alice").First(&profile).Error)
	assert.Equal(t, "ally", profile.Nickname)
	assert.Equal(t, models.LanguagePortuguese, profile.Language)
}

func TestGetProfileEndpoint_ExcludesAvatar(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	rec := env.uploadAvatar(t, "alice", "avatar", pngFixture)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/profiles/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "avatar")
}

func TestAvatarUploadAndDownload(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	rec := env.uploadAvatar(t, "alice", "avatar", pngFixture)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/profiles/alice/avatar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.Equal(pngFixture, rec.Body.Bytes()))
}

func TestAvatarUpload_TooLarge(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	oversize := append(append([]byte{}, pngFixture...), bytes.Repeat([]byte{0}, int(testAvatarCfg.MaxSizeBytes)+1)...)
	rec := env.uploadAvatar(t, "alice", "avatar", oversize)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAvatarUpload_UnsupportedType(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	// Plain text is sniffed regardless of the declared content type.
	rec := env.uploadAvatar(t, "alice", "avatar", []byte("definitely not an image"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAvatarUpload_MissingField(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	rec := env.uploadAvatar(t, "alice", "file", pngFixture)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAvatar_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	rec := env.doJSON(t, http.MethodGet, "/profiles/alice/avatar", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")
	env.seedProfile(t, "alice")

	rec := env.doJSON(t, http.MethodDelete, "/profiles/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/profiles/alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
