package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/cruxlabs/cruxd/internal/config"
	"github.com/cruxlabs/cruxd/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service fans crisis alerts out to the configured channels. Channels are
// independent: a failure on one does not stop the others, and a service
// with no channels configured is a no-op.
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// webhookPayload is the JSON body posted to the alert webhook
type webhookPayload struct {
	Title     string               `json:"title"`
	Text      string               `json:"text"`
	Alerts    []models.CrisisAlert `json:"alerts"`
	Actions   []string             `json:"recommended_actions"`
	Timestamp string               `json:"timestamp"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendCrisisAlerts delivers the crisis response to every configured channel
func (s *Service) SendCrisisAlerts(resp models.CrisisResponse) error {
	if !resp.CrisisDetected {
		return nil
	}

	var errors []string

	if s.config.AlertWebhookURL != "" {
		if err := s.sendWebhook(resp); err != nil {
			logrus.Errorf("Failed to send webhook alert: %v", err)
			errors = append(errors, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Info("Successfully sent crisis alert to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(resp); err != nil {
			logrus.Errorf("Failed to send email alert: %v", err)
			errors = append(errors, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Info("Successfully sent crisis alert via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

func (s *Service) sendWebhook(crisis models.CrisisResponse) error {
	payload := webhookPayload{
		Title:     "Crisis Alerts",
		Text:      fmt.Sprintf("%d potential crisis claims detected", len(crisis.Alerts)),
		Alerts:    crisis.Alerts,
		Actions:   crisis.RecommendedActions,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(s.config.AlertWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func (s *Service) sendEmail(crisis models.CrisisResponse) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", fmt.Sprintf("Crisis Alerts: %d claims flagged", len(crisis.Alerts)))
	m.SetBody("text/html", s.buildEmailBody(crisis))

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *Service) buildEmailBody(crisis models.CrisisResponse) string {
	var b strings.Builder
	b.WriteString("<h2>Potential Crisis Detected</h2>")
	b.WriteString("<ul>")
	for _, alert := range crisis.Alerts {
		fmt.Fprintf(&b, "<li><b>%s</b> (keywords: %s)</li>", alert.Description, strings.Join(alert.Keywords, ", "))
	}
	b.WriteString("</ul>")
	if len(crisis.RecommendedActions) > 0 {
		fmt.Fprintf(&b, "<p>Recommended actions: %s</p>", strings.Join(crisis.RecommendedActions, "; "))
	}
	return b.String()
}
