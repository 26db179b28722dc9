// Package sms delivers one-time codes and authentication tokens over SMS.
//
// [Gateway] is the minimal surface the rest of the module depends on; the
// production implementation is a thin HTTP client for the Twilio Messages
// API. Delivery failures are fatal to the calling flow — there is no retry
// or queueing here.
//
// Message bodies contain secrets. Implementations must never log them.
package sms
