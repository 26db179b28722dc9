package internaldefs

import (
	dirauth "github.com/facilitydir/dirauth"
)

// CounterDef binds one engine counter to its exported name and help text.
//
// CounterDef instances are intended to be configured during initialization and
// then treated as immutable.
type CounterDef struct {
	ID   dirauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter the engine records, in a stable order.
var CounterDefs = []CounterDef{
	{ID: dirauth.MetricSessionCreated, Name: "dirauth_session_created_total", Help: "Created sessions."},
	{ID: dirauth.MetricSessionRenewed, Name: "dirauth_session_renewed_total", Help: "Session reads that slid the expiration forward."},
	{ID: dirauth.MetricSessionMiss, Name: "dirauth_session_miss_total", Help: "Session reads for absent or expired IDs."},
	{ID: dirauth.MetricSessionPromoted, Name: "dirauth_session_promoted_total", Help: "Registration sessions promoted to person sessions."},
	{ID: dirauth.MetricSessionRemoved, Name: "dirauth_session_removed_total", Help: "Explicitly removed sessions."},
	{ID: dirauth.MetricRegistrationStarted, Name: "dirauth_registration_started_total", Help: "Registration codes dispatched."},
	{ID: dirauth.MetricRegistrationConfirmed, Name: "dirauth_registration_confirmed_total", Help: "Registration codes redeemed."},
	{ID: dirauth.MetricRegistrationInvalid, Name: "dirauth_registration_invalid_total", Help: "Registration confirmations with an invalid or expired code."},
	{ID: dirauth.MetricAuthenticationStarted, Name: "dirauth_authentication_started_total", Help: "Login challenges dispatched."},
	{ID: dirauth.MetricAuthenticationVerified, Name: "dirauth_authentication_verified_total", Help: "Login challenge tokens redeemed."},
	{ID: dirauth.MetricAuthenticationInvalid, Name: "dirauth_authentication_invalid_total", Help: "Login challenge verifications with an invalid or expired token."},
	{ID: dirauth.MetricSMSFailure, Name: "dirauth_sms_failure_total", Help: "SMS gateway dispatch failures."},
}
