package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Config holds operator email settings. Unset provider disables notifications.
type Config struct {
	Provider    string // "sendgrid" or "resend"
	APIKey      string
	FromAddress string
	FromName    string
	To          string
}

// FromEnv reads notification settings from the environment.
func FromEnv() Config {
	cfg := Config{
		Provider:    os.Getenv("SHIPMATE_NOTIFY_PROVIDER"),
		APIKey:      os.Getenv("SHIPMATE_NOTIFY_API_KEY"),
		FromAddress: os.Getenv("SHIPMATE_NOTIFY_FROM"),
		FromName:    os.Getenv("SHIPMATE_NOTIFY_FROM_NAME"),
		To:          os.Getenv("SHIPMATE_NOTIFY_TO"),
	}
	if cfg.FromName == "" {
		cfg.FromName = "shipmate"
	}
	return cfg
}

// Service sends best-effort operator emails about install activity. Callers
// log and swallow any error; delivery failure never affects a merchant.
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s.cfg.Provider != "" && s.cfg.To != ""
}

// StoreInstalled notifies the operator that a store completed installation.
func (s *Service) StoreInstalled(ctx context.Context, storeHash string) error {
	subject := fmt.Sprintf("shipmate installed on store %s", storeHash)
	body := fmt.Sprintf("<p>The shipmate carrier app was installed on store <b>%s</b>.</p>", storeHash)
	return s.send(ctx, subject, body)
}

// StoreUninstalled notifies the operator that a store removed the app.
func (s *Service) StoreUninstalled(ctx context.Context, storeHash string) error {
	subject := fmt.Sprintf("shipmate uninstalled from store %s", storeHash)
	body := fmt.Sprintf("<p>The shipmate carrier app was uninstalled from store <b>%s</b>.</p>", storeHash)
	return s.send(ctx, subject, body)
}

func (s *Service) send(ctx context.Context, subject, body string) error {
	if !s.Enabled() {
		return errors.New("notifications not configured")
	}

	switch s.cfg.Provider {
	case "sendgrid":
		return s.sendSendgrid(subject, body)
	case "resend":
		return s.sendResend(ctx, subject, body)
	default:
		return fmt.Errorf("unknown provider: %s", s.cfg.Provider)
	}
}

func (s *Service) sendSendgrid(subject, body string) error {
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	toEmail := mail.NewEmail("", s.cfg.To)
	message := mail.NewSingleEmail(from, subject, toEmail, body, body)
	client := sendgrid.NewSendClient(s.cfg.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *Service) sendResend(ctx context.Context, subject, body string) error {
	url := "https://api.resend.com/emails"

	payload := map[string]string{
		"from":    fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromAddress),
		"to":      s.cfg.To,
		"subject": subject,
		"html":    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}
