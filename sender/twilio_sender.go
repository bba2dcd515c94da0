package sender

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

const defaultTwilioBaseURL = "https://api.twilio.com"

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	FromNumber   string
	WhatsAppFrom string
	// BaseURL overrides the Twilio API host.
	BaseURL string
}

// Configured reports whether real credentials are present. An empty SID or
// the sample value from .env.example both count as unconfigured.
func (c TwilioConfig) Configured() bool {
	sid := strings.TrimSpace(c.AccountSID)
	return sid != "" && sid != "your_sid_here" && c.AuthToken != ""
}

type TwilioSender struct {
	cfg        TwilioConfig
	httpClient *http.Client
}

func NewTwilioSender(cfg TwilioConfig) (*TwilioSender, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID not set")
	}
	if cfg.FromNumber == "" && cfg.WhatsAppFrom == "" {
		return nil, fmt.Errorf("TWILIO_FROM_NUMBER not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTwilioBaseURL
	}

	return &TwilioSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (t *TwilioSender) SendSMS(ctx context.Context, to, msg string) (SendResult, error) {
	if t.cfg.FromNumber == "" {
		return SendResult{}, fmt.Errorf("twilio sms sender number not configured")
	}
	return t.send(ctx, FormatPhone(to), t.cfg.FromNumber, msg)
}

// SendChat sends a WhatsApp message through the Twilio WhatsApp channel.
func (t *TwilioSender) SendChat(ctx context.Context, to, msg string) (SendResult, error) {
	from := t.cfg.WhatsAppFrom
	if from == "" {
		from = t.cfg.FromNumber
	}
	return t.send(ctx, "whatsapp:"+FormatPhone(to), "whatsapp:"+strings.TrimPrefix(from, "whatsapp:"), msg)
}

func (t *TwilioSender) send(ctx context.Context, to, from, body string) (SendResult, error) {
	apiURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.cfg.BaseURL, t.cfg.AccountSID)

	formData := url.Values{}
	formData.Set("To", to)
	formData.Set("From", from)
	formData.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL,
		strings.NewReader(formData.Encode()))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return SendResult{}, fmt.Errorf("twilio error %s: %s", resp.Status, string(respBody))
	}

	var parsed struct {
		SID string `json:"sid"`
	}
	messageID := fmt.Sprintf("twilio-%d", time.Now().UnixNano())
	if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.SID != "" {
		messageID = parsed.SID
	}

	return SendResult{
		MessageID: messageID,
		Provider:  "twilio",
		SentAt:    time.Now(),
	}, nil
}
