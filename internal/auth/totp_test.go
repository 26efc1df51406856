package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-go/internal/config"
)

func TestTOTPProvider(t *testing.T) {
	provider := NewTOTPProvider(config.TwoFactorConfig{Issuer: "social-go-test"})

	secret, url, err := provider.GenerateSecret("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Contains(t, url, "otpauth://totp/")
	assert.Contains(t, url, "social-go-test")
	assert.Contains(t, url, "alice")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	assert.True(t, provider.VerifyCode(secret, code))
	assert.False(t, provider.VerifyCode(secret, "000000"))

	// A second enrollment yields an unrelated secret.
	secondSecret, _, err := provider.GenerateSecret("alice")
	require.NoError(t, err)
	assert.NotEqual(t, secret, secondSecret)
}
