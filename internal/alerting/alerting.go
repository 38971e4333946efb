package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// AlertConfig holds alerting configuration.
type AlertConfig struct {
	// WebhookURL is a generic webhook endpoint (Slack, Discord, or custom)
	WebhookURL string
	// WebhookType determines the payload format: "slack", "discord", or "generic"
	WebhookType string
	// Enabled controls whether alerts are sent
	Enabled bool
	// Timeout for HTTP requests
	Timeout time.Duration
}

// DefaultAlertConfig returns config from environment variables.
func DefaultAlertConfig() AlertConfig {
	cfg := AlertConfig{
		WebhookURL:  os.Getenv("SHIPMATE_ALERT_WEBHOOK_URL"),
		WebhookType: os.Getenv("SHIPMATE_ALERT_WEBHOOK_TYPE"),
		Timeout:     10 * time.Second,
	}

	cfg.Enabled = cfg.WebhookURL != ""

	if cfg.WebhookType == "" {
		// Auto-detect from URL
		if strings.Contains(cfg.WebhookURL, "slack.com") {
			cfg.WebhookType = "slack"
		} else if strings.Contains(cfg.WebhookURL, "discord.com") {
			cfg.WebhookType = "discord"
		} else {
			cfg.WebhookType = "generic"
		}
	}

	return cfg
}

// Alerter sends alerts to configured webhooks.
type Alerter struct {
	cfg    AlertConfig
	client *http.Client
}

// NewAlerter creates a new alerter instance.
func NewAlerter(cfg AlertConfig) *Alerter {
	return &Alerter{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// RegistrationAlert describes a failed shipping-endpoint registration.
type RegistrationAlert struct {
	StoreHash string
	Error     string
	Timestamp time.Time
}

// SendRegistrationAlert reports a metadata registration failure to the
// configured webhook. Best effort; callers log and move on.
func (a *Alerter) SendRegistrationAlert(ctx context.Context, alert RegistrationAlert) error {
	if !a.cfg.Enabled {
		return nil
	}

	var payload []byte
	var err error

	switch a.cfg.WebhookType {
	case "slack":
		payload, err = a.buildSlackPayload(alert)
	case "discord":
		payload, err = a.buildDiscordPayload(alert)
	default:
		payload, err = a.buildGenericPayload(alert)
	}

	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	log.Printf("alerting: sent registration alert for store %s", alert.StoreHash)
	return nil
}

func (a *Alerter) buildSlackPayload(alert RegistrationAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"blocks": []map[string]interface{}{
			{
				"type": "header",
				"text": map[string]string{
					"type": "plain_text",
					"text": ":warning: Shipping endpoint registration failed",
				},
			},
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Store:* %s\n*Error:* %s\n*At:* %s",
						alert.StoreHash, alert.Error, alert.Timestamp.Format(time.RFC3339)),
				},
			},
		},
	}
	return json.Marshal(payload)
}

func (a *Alerter) buildDiscordPayload(alert RegistrationAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"embeds": []map[string]interface{}{
			{
				"title": "Shipping endpoint registration failed",
				"color": 16753920, // orange
				"description": fmt.Sprintf("**Store:** %s\n**Error:** %s\n**At:** %s",
					alert.StoreHash, alert.Error, alert.Timestamp.Format(time.RFC3339)),
			},
		},
	}
	return json.Marshal(payload)
}

func (a *Alerter) buildGenericPayload(alert RegistrationAlert) ([]byte, error) {
	payload := map[string]interface{}{
		"event":      "registration_failed",
		"store_hash": alert.StoreHash,
		"error":      alert.Error,
		"timestamp":  alert.Timestamp.Format(time.RFC3339),
	}
	return json.Marshal(payload)
}
