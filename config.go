package dirauth

import (
	"errors"
	"strings"
	"time"
)

// Config carries the tunables for the session and registration managers.
// Instances are set up once before [Builder.Build] and treated as immutable
// afterwards.
type Config struct {
	Session        SessionConfig
	Registration   RegistrationConfig
	Authentication AuthenticationConfig
	SMS            SMSConfig
	Audit          AuditConfig
}

// SessionConfig controls session persistence.
type SessionConfig struct {
	// RedisPrefix namespaces session keys. Defaults to "session".
	RedisPrefix string
}

// RegistrationConfig controls the OTP registration flow.
type RegistrationConfig struct {
	// CodeLength is the length of the uppercase alphanumeric confirmation
	// code sent over SMS.
	CodeLength int
	// TTL bounds how long a started registration stays redeemable.
	TTL time.Duration
	// MaxCodeAttempts bounds the collision-retry loop during code
	// generation. Exhaustion is fatal, not a validation failure.
	MaxCodeAttempts int
}

// AuthenticationConfig controls the login challenge flow for existing users.
type AuthenticationConfig struct {
	TokenLength int
	TTL         time.Duration
}

// SMSConfig carries the sender number and the message templates. Each
// template must contain exactly one %s, replaced with the code or token.
type SMSConfig struct {
	From                   string
	RegistrationTemplate   string
	AuthenticationTemplate string
}

// AuditConfig controls the asynchronous audit event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking the request path when the
	// buffer is saturated. Dropped counts are observable on the dispatcher.
	DropIfFull bool
}

// DefaultConfig returns the production defaults: ten-minute registrations,
// five-minute authentication challenges, ten-character codes.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RedisPrefix: "session",
		},
		Registration: RegistrationConfig{
			CodeLength:      10,
			TTL:             10 * time.Minute,
			MaxCodeAttempts: 10,
		},
		Authentication: AuthenticationConfig{
			TokenLength: 10,
			TTL:         5 * time.Minute,
		},
		SMS: SMSConfig{
			RegistrationTemplate:   "Your registration code is %s",
			AuthenticationTemplate: "Your sign-in code is %s",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// Validate rejects configurations the managers cannot operate with.
func (c Config) Validate() error {
	if c.Registration.CodeLength < 4 {
		return errors.New("Registration CodeLength must be at least 4")
	}
	if c.Registration.TTL <= 0 {
		return errors.New("Registration TTL must be positive")
	}
	if c.Registration.MaxCodeAttempts <= 0 {
		return errors.New("Registration MaxCodeAttempts must be positive")
	}
	if c.Authentication.TokenLength < 4 {
		return errors.New("Authentication TokenLength must be at least 4")
	}
	if c.Authentication.TTL <= 0 {
		return errors.New("Authentication TTL must be positive")
	}
	if strings.Count(c.SMS.RegistrationTemplate, "%s") != 1 {
		return errors.New("SMS RegistrationTemplate must contain exactly one %s")
	}
	if strings.Count(c.SMS.AuthenticationTemplate, "%s") != 1 {
		return errors.New("SMS AuthenticationTemplate must contain exactly one %s")
	}
	return nil
}
