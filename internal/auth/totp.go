package auth

import (
	"fmt"

	"github.com/pquerna/otp/totp"

	"social-go/internal/config"
)

// TOTPProvider generates shared secrets and verifies time-based one-time
// codes for two-factor authentication.
type TOTPProvider struct {
	issuer string
}

// NewTOTPProvider builds a provider using the configured issuer, which ends
// up as the label prefix in authenticator apps.
func NewTOTPProvider(cfg config.TwoFactorConfig) *TOTPProvider {
	return &TOTPProvider{issuer: cfg.Issuer}
}

// GenerateSecret creates a fresh base32 shared secret for the account and
// returns it together with the otpauth:// provisioning URL.
func (p *TOTPProvider) GenerateSecret(accountName string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// VerifyCode checks a submitted one-time code against the stored secret with
// the standard one-time-step clock tolerance.
func (p *TOTPProvider) VerifyCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
