package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 20 * time.Second

// DefaultBaseURL is the Twilio REST API root.
const DefaultBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioConfig carries the account credentials for [TwilioClient].
type TwilioConfig struct {
	AccountID string
	AuthToken string
	BaseURL   string // defaults to DefaultBaseURL
}

// TwilioClient sends SMS messages through the Twilio Messages API.
type TwilioClient struct {
	conf       TwilioConfig
	endpoint   string
	httpClient *http.Client
}

// NewTwilioClient returns a client for the configured Twilio account.
func NewTwilioClient(conf TwilioConfig) *TwilioClient {
	base := conf.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	return &TwilioClient{
		conf:       conf,
		endpoint:   base + "/Accounts/" + conf.AccountID + "/Messages.json",
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type twilioResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	To           string `json:"to"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Send posts one message. Any non-2xx status or error body surfaces as an
// error; the response body never includes the message text.
func (c *TwilioClient) Send(ctx context.Context, msg Request) (*Response, error) {
	form := url.Values{}
	form.Set("From", msg.From)
	form.Set("Body", msg.Body)
	form.Set("To", msg.To)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.conf.AccountID, c.conf.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sms: twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("sms: twilio status=%d body=%s", resp.StatusCode, string(body))
	}

	var out twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("sms: twilio response: %w", err)
	}
	if out.ErrorMessage != "" {
		return nil, fmt.Errorf("sms: twilio error=%v message=%s", out.ErrorCode, out.ErrorMessage)
	}

	return &Response{SID: out.SID, Status: out.Status, To: out.To}, nil
}
