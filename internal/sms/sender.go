// Package sms delivers text messages to contest participants.
package sms

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"contestlet/internal/config"
)

// Sender defines the interface for sending SMS messages
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// NewSender returns the sender appropriate for the configuration. In test
// mode messages are logged instead of delivered.
func NewSender(cfg config.SMSConfig) Sender {
	if cfg.TestMode {
		return &ConsoleSender{}
	}
	return NewTwilioSender(cfg)
}

// ConsoleSender logs messages instead of delivering them
type ConsoleSender struct{}

// Send logs the message to stdout.
func (s *ConsoleSender) Send(_ context.Context, to, body string) error {
	log.Printf("SMS to %s: %s", to, body)
	return nil
}

// TwilioSender delivers messages through the Twilio Messages API
type TwilioSender struct {
	config config.SMSConfig
	client *http.Client

	// baseURL is overridable for tests
	baseURL string
}

// NewTwilioSender creates a Twilio-backed sender.
func NewTwilioSender(cfg config.SMSConfig) *TwilioSender {
	return &TwilioSender{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.twilio.com",
	}
}

// Send posts a message to the Twilio Messages endpoint.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if s.config.AccountSID == "" || s.config.AuthToken == "" || s.config.FromNumber == "" {
		return fmt.Errorf("incomplete SMS configuration")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.config.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.config.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.SetBasicAuth(s.config.AccountSID, s.config.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("SMS provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// RecordingSender captures messages for tests
type RecordingSender struct {
	// Messages holds every sent message in order
	Messages []RecordedMessage
	// Err, when set, is returned by Send
	Err error
}

// RecordedMessage is a single captured message
type RecordedMessage struct {
	To   string
	Body string
}

// Send records the message.
func (s *RecordingSender) Send(_ context.Context, to, body string) error {
	if s.Err != nil {
		return s.Err
	}
	s.Messages = append(s.Messages, RecordedMessage{To: to, Body: body})
	return nil
}
