package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"social-go/internal/auth"
	"social-go/internal/config"
	"social-go/internal/middleware"
	"social-go/internal/models"
	"social-go/internal/services"
	"social-go/internal/storage"
	"social-go/internal/ws"
)

var testAuthCfg = config.AuthConfig{
	JWTSecretKey: "handler-test-secret",
	JWTExpiry:    time.Hour,
}

var testAvatarCfg = config.AvatarConfig{
	MaxSizeBytes: 1 << 10, // 1 KB keeps oversize fixtures small
	AllowedTypes: []string{"image/jpeg", "image/png", "image/gif"},
}

// memoryBlacklist is an in-process TokenBlacklist for handler tests.
type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: map[string]bool{}}
}

func (m *memoryBlacklist) Add(ctx context.Context, jti string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
	return nil
}

func (m *memoryBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}

type testEnv struct {
	db        *gorm.DB
	router    *mux.Router
	blacklist *memoryBlacklist
	token     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, storage.AutoMigrateTables(db))

	log := zap.NewNop()
	userRepo := storage.NewGormUserRepository(db)
	profileRepo := storage.NewGormProfileRepository(db)
	friendshipRepo := storage.NewGormFriendshipRepository(db)

	policy := auth.NewPasswordPolicy(config.PasswordConfig{MinLength: 8, MaxLength: 64, MinEntropy: 50.0})
	totp := auth.NewTOTPProvider(config.TwoFactorConfig{Issuer: "social-go-test"})

	userService := services.NewUserService(db, userRepo, policy, totp, log)
	authService := services.NewAuthService(userRepo, totp, testAuthCfg, log)
	profileService := services.NewProfileService(profileRepo, userRepo, log)
	friendshipService := services.NewFriendshipService(friendshipRepo, userRepo, profileRepo, nil, "", log)

	blacklist := newMemoryBlacklist()
	authHandler := NewAuthHandler(authService, userService, blacklist, log)
	userHandler := NewUserHandler(userService, log)
	profileHandler := NewProfileHandler(profileService, testAvatarCfg, log)
	friendshipHandler := NewFriendshipHandler(friendshipService, log)
	presenceHandler := NewPresenceHandler(ws.NewHub(profileService, log))
	healthHandler := NewHealthHandler(db, nil, "test")

	authMW := middleware.AuthMiddleware(testAuthCfg.JWTSecretKey, blacklist)
	r := NewRouter(authHandler, userHandler, profileHandler, friendshipHandler, presenceHandler, healthHandler, authMW)

	token, err := auth.GenerateToken(1, "test-runner", testAuthCfg)
	require.NoError(t, err)

	return &testEnv{db: db, router: r, blacklist: blacklist, token: token}
}

// doJSON sends an authenticated JSON request through the full router.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, e.token)
}

// doGuestJSON sends a request without credentials.
func (e *testEnv) doGuestJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, "")
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedUser(t *testing.T, username string) {
	t.Helper()
	hash, err := auth.HashPassword("Tr0ub4dor&3-horse")
	require.NoError(t, err)
	require.NoError(t, e.db.Create(&models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@example.com",
		Active:       true,
	}).Error)
}

func (e *testEnv) seedProfile(t *testing.T, username string) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Profile{
		Username: username,
		Status:   models.ProfileStatusOffline,
	}).Error)
}

func multipartAvatar(t *testing.T, fieldName string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, "avatar.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
