package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

type EmailService struct {
	apiKey    string
	from      string
	endpoint  string
	client    *http.Client
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

type WelcomeEmailData struct {
	Name string
}

type PasswordResetData struct {
	ResetLink string
}

type PasswordChangedData struct {
	Email string
}

type Option func(*EmailService)

// WithEndpoint points the service at another Resend-compatible URL.
func WithEndpoint(url string) Option {
	return func(s *EmailService) { s.endpoint = url }
}

func NewEmailService(apiKey, from string, opts ...Option) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %w", err)
	}

	s := &EmailService{
		apiKey:    apiKey,
		from:      from,
		endpoint:  resendEndpoint,
		client:    &http.Client{Timeout: 15 * time.Second},
		templates: templates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *EmailService) sendTemplateEmail(ctx context.Context, to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	jsonData, err := json.Marshal(EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("error marshaling email data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error (%d): %s", resp.StatusCode, string(respBody))
	}

	log.Info().Str("template", templateName).Int("status", resp.StatusCode).Msg("email sent")
	return nil
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	return s.sendTemplateEmail(ctx, email, "مرحبًا بك في عقارات", "welcome.html", WelcomeEmailData{Name: name})
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, email, resetLink string) error {
	return s.sendTemplateEmail(ctx, email, "إعادة تعيين كلمة المرور", "password_reset.html", PasswordResetData{ResetLink: resetLink})
}

func (s *EmailService) SendPasswordChangedEmail(ctx context.Context, email string) error {
	return s.sendTemplateEmail(ctx, email, "تم تغيير كلمة المرور", "password_changed.html", PasswordChangedData{Email: email})
}
