package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"social-go/internal/models"
	"social-go/internal/storage"
)

// pngHeader is a minimal valid PNG signature, enough for MIME sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func newProfileService(t *testing.T, db *gorm.DB) ProfileService {
	t.Helper()
	return NewProfileService(storage.NewGormProfileRepository(db), storage.NewGormUserRepository(db), zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestCreateProfile(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	svc := newProfileService(t, db)

	gender := models.GenderFemale
	profile, err := svc.CreateProfile(context.Background(), "alice", ProfileInput{
		Nickname: strPtr("ally"),
		Bio:      strPtr("hello"),
		Gender:   &gender,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "ally", profile.Nickname)
	assert.Equal(t, models.GenderFemale, profile.Gender)
	assert.Equal(t, models.ProfileStatusOffline, profile.Status)
}

func TestCreateProfile_UserDoesNotExist(t *testing.T) {
	db := newTestDB(t)
	svc := newProfileService(t, db)

	_, err := svc.CreateProfile(context.Background(), "ghost", ProfileInput{})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCreateProfile_Duplicate(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	svc := newProfileService(t, db)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, "alice", ProfileInput{})
	require.NoError(t, err)

	_, err = svc.CreateProfile(ctx, "alice", ProfileInput{})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedProfile(t, db, "alice")
	svc := newProfileService(t, db)

	lang := models.LanguagePortuguese
	profile, err := svc.UpdateProfile(context.Background(), "alice", ProfileUpdate{
		Nickname: strPtr("ally"),
		Language: &lang,
	})
	require.NoError(t, err)
	assert.Equal(t, "ally", profile.Nickname)
	assert.Equal(t, models.LanguagePortuguese, profile.Language)
}

func TestUpdateProfile_InvalidStatus(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedProfile(t, db, "alice")
	svc := newProfileService(t, db)

	bad := models.ProfileStatus("away")
	_, err := svc.UpdateProfile(context.Background(), "alice", ProfileUpdate{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestUpdateProfile_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newProfileService(t, db)

	_, err := svc.UpdateProfile(context.Background(), "ghost", ProfileUpdate{Nickname: strPtr("x")})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAvatarRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedProfile(t, db, "alice")
	svc := newProfileService(t, db)
	ctx := context.Background()

	require.NoError(t, svc.UploadAvatar(ctx, "alice", pngHeader))

	data, mime, err := svc.GetAvatar(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", mime)

	// The profile read path never carries the blob.
	profile, err := svc.GetProfileByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, profile.Avatar)
}

func TestGetAvatar_NoneUploaded(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedProfile(t, db, "alice")
	svc := newProfileService(t, db)

	_, _, err := svc.GetAvatar(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUploadAvatar_NoProfile(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	svc := newProfileService(t, db)

	err := svc.UploadAvatar(context.Background(), "alice", pngHeader)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedProfile(t, db, "alice")
	svc := newProfileService(t, db)
	ctx := context.Background()

	require.NoError(t, svc.UpdateStatus(ctx, "alice", models.ProfileStatusInGame))

	profile, err := svc.GetProfileByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.ProfileStatusInGame, profile.Status)

	err = svc.UpdateStatus(ctx, "alice", models.ProfileStatus("away"))
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	err = svc.UpdateStatus(ctx, "ghost", models.ProfileStatusOnline)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteProfile(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")
	seedProfile(t, db, "alice")
	svc := newProfileService(t, db)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProfile(ctx, "alice"))

	_, err := svc.GetProfileByUsername(ctx, "alice")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	err = svc.DeleteProfile(ctx, "alice")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
