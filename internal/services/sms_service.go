package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/smartq/backend/internal/config"
)

type SMSService struct {
	cfg    *config.Config
	client *http.Client
}

type twilioMessageResponse struct {
	Sid          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func NewSMSService(cfg *config.Config) *SMSService {
	return &SMSService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendSMS delivers a text message via the Twilio Messages API and returns the
// provider message SID. Callers are expected to pass an E.164 destination.
func (s *SMSService) SendSMS(to, body string) (string, error) {
	if !s.cfg.SMSEnabled {
		return "", nil
	}
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		return "", fmt.Errorf("twilio credentials not configured")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.cfg.TwilioAccountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.TwilioFromNumber)
	form.Set("Body", body)

	req, err := http.NewRequest("POST", endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.TwilioAccountSID, s.cfg.TwilioAuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio send failed: %d", resp.StatusCode)
	}

	var msg twilioMessageResponse
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", fmt.Errorf("twilio response parse failed: %w", err)
	}
	if msg.ErrorCode != nil {
		return "", fmt.Errorf("twilio send failed: %d %s", *msg.ErrorCode, msg.ErrorMessage)
	}

	return msg.Sid, nil
}
