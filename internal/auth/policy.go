package auth

import (
	"fmt"

	passwordvalidator "github.com/wagslane/go-password-validator"

	"social-go/internal/config"
)

// PasswordPolicy validates candidate passwords against the configured
// complexity rules. Validation returns all reasons at once so the client can
// present them together.
type PasswordPolicy struct {
	minLength  int
	maxLength  int
	minEntropy float64
}

// NewPasswordPolicy builds a policy from configuration.
func NewPasswordPolicy(cfg config.PasswordConfig) *PasswordPolicy {
	return &PasswordPolicy{
		minLength:  cfg.MinLength,
		maxLength:  cfg.MaxLength,
		minEntropy: cfg.MinEntropy,
	}
}

// Validate checks the password and returns the list of rule violations.
// An empty slice means the password is acceptable.
func (p *PasswordPolicy) Validate(password string) []string {
	var reasons []string

	if len(password) < p.minLength {
		reasons = append(reasons, fmt.Sprintf("password must be at least %d characters long", p.minLength))
	}
	if p.maxLength > 0 && len(password) > p.maxLength {
		reasons = append(reasons, fmt.Sprintf("password must be at most %d characters long", p.maxLength))
	}
	if err := passwordvalidator.Validate(password, p.minEntropy); err != nil {
		reasons = append(reasons, err.Error())
	}

	return reasons
}
