package sms

import "context"

// Request is one outbound SMS message.
type Request struct {
	From string
	Body string
	To   string
}

// Response is the gateway's dispatch confirmation.
type Response struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// Gateway sends SMS messages. Errors propagate unchanged to the caller;
// the registration flows treat them as fatal.
type Gateway interface {
	Send(ctx context.Context, req Request) (*Response, error)
}
