package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	dirauth "github.com/facilitydir/dirauth"
	"github.com/facilitydir/dirauth/actor"
)

const version = "1.0.0"

type api struct {
	svc    *dirauth.Service
	logger zerolog.Logger
}

func newAPI(svc *dirauth.Service, logger zerolog.Logger) *api {
	return &api{svc: svc, logger: logger}
}

func (a *api) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /peoples/start", a.handleStart)
	mux.HandleFunc("POST /peoples/confirm", a.handleConfirm)
	mux.HandleFunc("POST /peoples/auth", a.handleAuth)
	mux.HandleFunc("PUT /peoples/auth", a.handleVerifyAuth)
	mux.HandleFunc("GET /sessions", a.handleCurrentSession)
	mux.HandleFunc("DELETE /sessions", a.handleLogout)
	mux.HandleFunc("GET /admins/registrations", a.handleListRegistrations)
	mux.HandleFunc("DELETE /admins/registrations", a.handleRemoveRegistration)
	mux.HandleFunc("GET /info/health", a.handleHealth)
	mux.HandleFunc("GET /info/ping", a.handlePing)
	mux.HandleFunc("GET /info/version", a.handleVersion)
	return mux
}

// handleStart begins phone registration. The confirmation code travels only
// over SMS; the response carries just an acknowledgement.
func (a *api) handleStart(w http.ResponseWriter, r *http.Request) {
	var req actor.Registration
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.svc.Registrations().Start(r.Context(), &req); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusAccepted, map[string]string{"phone": req.Phone})
}

// handleConfirm redeems a confirmation code and opens a registration session
// for the sign-up that follows.
func (a *api) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	reg, err := a.svc.Registrations().Confirm(r.Context(), req.Phone, req.Code)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	sess, err := a.svc.Sessions().AddRegistration(r.Context(), reg)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, sess)
}

// handleAuth starts a login challenge for an existing user.
func (a *api) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.svc.Registrations().Auth(r.Context(), req.Phone); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusAccepted, map[string]string{"phone": req.Phone})
}

// handleVerifyAuth redeems a login challenge token and opens a person
// session. The directory service fills in the full profile later; the
// session starts with the proven phone number.
func (a *api) handleVerifyAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone      string `json:"phone"`
		Token      string `json:"token"`
		RememberMe bool   `json:"rememberMe"`
	}
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.svc.Registrations().VerifyAuth(r.Context(), req.Phone, req.Token); err != nil {
		a.fail(w, r, err)
		return
	}

	sess, err := a.svc.Sessions().AddPerson(r.Context(), &actor.Person{ID: req.Phone, Phone: req.Phone}, req.RememberMe)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, sess)
}

func (a *api) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	sess, err := dirauth.RequireCurrent(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, sess)
}

func (a *api) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Sessions().RemoveCurrent(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	pending, err := a.svc.Registrations().List(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, pending)
}

func (a *api) handleRemoveRegistration(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		a.respond(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return
	}

	if err := a.svc.Registrations().RemoveKey(r.Context(), key); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	latency, err := a.svc.Sessions().Ping(r.Context())
	if err != nil {
		a.respond(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
		return
	}
	a.respond(w, http.StatusOK, map[string]string{"status": "up", "latency": latency.String()})
}

func (a *api) handlePing(w http.ResponseWriter, _ *http.Request) {
	a.respond(w, http.StatusOK, map[string]string{"ping": "pong"})
}

func (a *api) handleVersion(w http.ResponseWriter, _ *http.Request) {
	a.respond(w, http.StatusOK, map[string]string{"version": version})
}

func (a *api) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (a *api) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error().Err(err).Msg("encode response")
	}
}

func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dirauth.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, dirauth.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	a.respond(w, status, map[string]string{"error": err.Error()})
}
