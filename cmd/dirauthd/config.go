package main

import (
	"errors"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// serverConfig is read from DIRAUTH_* environment variables (a .env file is
// loaded first if present). Twilio credentials are required; everything else
// has a default.
type serverConfig struct {
	ListenAddr      string `koanf:"listen_addr"`
	RedisAddr       string `koanf:"redis_addr"`
	TwilioAccountID string `koanf:"twilio_account_id"`
	TwilioAuthToken string `koanf:"twilio_auth_token"`
	TwilioBaseURL   string `koanf:"twilio_base_url"`
	SMSFrom         string `koanf:"sms_from"`
}

const envPrefix = "DIRAUTH_"

func loadServerConfig() (serverConfig, error) {
	cfg := serverConfig{
		ListenAddr: ":8080",
		RedisAddr:  "localhost:6379",
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return cfg, err
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}

	if cfg.TwilioAccountID == "" || cfg.TwilioAuthToken == "" {
		return cfg, errors.New("DIRAUTH_TWILIO_ACCOUNT_ID and DIRAUTH_TWILIO_AUTH_TOKEN are required")
	}
	if cfg.SMSFrom == "" {
		return cfg, errors.New("DIRAUTH_SMS_FROM is required")
	}
	return cfg, nil
}
