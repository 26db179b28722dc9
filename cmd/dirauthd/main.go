// Command dirauthd serves the directory platform's session and phone
// authentication API over Redis and Twilio.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	dirauth "github.com/facilitydir/dirauth"
	"github.com/facilitydir/dirauth/metrics/export/prometheus"
	"github.com/facilitydir/dirauth/middleware"
	"github.com/facilitydir/dirauth/sms"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "dirauthd").Logger()

	cfg, err := loadServerConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{cfg.RedisAddr},
	})
	defer client.Close()

	gateway := sms.NewTwilioClient(sms.TwilioConfig{
		AccountID: cfg.TwilioAccountID,
		AuthToken: cfg.TwilioAuthToken,
		BaseURL:   cfg.TwilioBaseURL,
	})

	authConf := dirauth.DefaultConfig()
	authConf.SMS.From = cfg.SMSFrom

	svc, err := dirauth.New().
		WithConfig(authConf).
		WithRedis(client).
		WithSMS(gateway).
		WithAuditSink(dirauth.NewZerologSink(logger.With().Str("component", "audit").Logger())).
		Build()
	if err != nil {
		logger.Fatal().Err(err).Msg("build service")
	}
	defer svc.Close()

	if _, err := svc.Sessions().Ping(context.Background()); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
	}

	gate := middleware.NewGate(svc.Sessions())
	exporter := prometheus.NewPrometheusExporter(svc)

	mux := http.NewServeMux()
	mux.Handle("/metrics", exporter.Handler())
	mux.Handle("/", gate.Handler(newAPI(svc, logger).routes()))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
