package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"social-go/internal/auth"
	"social-go/internal/config"
	"social-go/internal/models"
	"social-go/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, storage.AutoMigrateTables(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("Tr0ub4dor&3-horse")
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@example.com",
		Active:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProfile(t *testing.T, db *gorm.DB, username string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		Username: username,
		Status:   models.ProfileStatusOffline,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func testPasswordPolicy() *auth.PasswordPolicy {
	return auth.NewPasswordPolicy(config.PasswordConfig{
		MinLength:  8,
		MaxLength:  64,
		MinEntropy: 50.0,
	})
}

func testTOTPProvider() *auth.TOTPProvider {
	return auth.NewTOTPProvider(config.TwoFactorConfig{Issuer: "social-go-test"})
}

// capturingProducer records published messages for assertions.
type capturingProducer struct {
	mu       sync.Mutex
	messages []capturedMessage
}

type capturedMessage struct {
	topic   string
	key     string
	payload []byte
}

func (p *capturingProducer) SendMessage(ctx context.Context, topic string, key []byte, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, capturedMessage{topic: topic, key: string(key), payload: payload})
	return nil
}

func (p *capturingProducer) Close() {}

func (p *capturingProducer) captured() []capturedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]capturedMessage, len(p.messages))
	copy(out, p.messages)
	return out
}
