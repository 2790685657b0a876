package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"path/filepath"

	"github.com/smartq/backend/internal/config"
)

type EmailService struct {
	cfg       *config.Config
	templates map[string]*template.Template
}

func NewEmailService(cfg *config.Config) *EmailService {
	service := &EmailService{
		cfg:       cfg,
		templates: make(map[string]*template.Template),
	}

	// Load email templates
	service.loadTemplates()

	return service
}

// loadTemplates loads all email templates
func (s *EmailService) loadTemplates() {
	templateFiles := []string{
		"welcome.html",
		"verification_code.html",
		"password_reset.html",
	}

	for _, file := range templateFiles {
		path := filepath.Join("templates", file)
		tmpl, err := template.ParseFiles(path)
		if err != nil {
			fmt.Printf("Failed to load template %s: %v\n", file, err)
			continue
		}
		s.templates[file] = tmpl
	}
}

// SendWelcomeEmail sends a registration confirmation email
func (s *EmailService) SendWelcomeEmail(to, name string) error {
	data := map[string]interface{}{
		"Name":     name,
		"LoginURL": s.cfg.FrontendURL + "/auth/login",
	}

	subject := "Welcome to SmartQ!"
	return s.sendEmail(to, subject, "welcome.html", data)
}

// SendVerificationCode sends a one-time passcode for email verification
func (s *EmailService) SendVerificationCode(to, name, code string, expiryMinutes int) error {
	data := map[string]interface{}{
		"Name":          name,
		"Code":          code,
		"ExpiryMinutes": expiryMinutes,
	}

	subject := "Your SmartQ verification code"
	return s.sendEmail(to, subject, "verification_code.html", data)
}

// SendPasswordResetLinkEmail sends a styled HTML reset link email
func (s *EmailService) SendPasswordResetLinkEmail(to, name, resetURL string) error {
	data := map[string]interface{}{
		"Name":     name,
		"ResetURL": resetURL,
	}
	return s.sendEmail(to, "Reset your SmartQ password", "password_reset.html", data)
}

// sendEmail sends an email using the specified template
func (s *EmailService) sendEmail(to, subject, templateName string, data interface{}) error {
	// Get template
	tmpl, exists := s.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	// Execute template
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	// Prepare email
	from := fmt.Sprintf("%s <%s>", s.cfg.SMTPFromName, s.cfg.SMTPFrom)

	// Build email message
	message := fmt.Sprintf("From: %s\r\n", from)
	message += fmt.Sprintf("To: %s\r\n", to)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	message += "\r\n"
	message += body.String()

	// Send email
	return s.sendSMTP(to, []byte(message))
}

// sendSMTP sends an email via SMTP
func (s *EmailService) sendSMTP(to string, message []byte) error {
	// Setup authentication
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	// Connect to SMTP server
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	// For TLS connection (port 465)
	if s.cfg.SMTPPort == 465 {
		tlsConfig := &tls.Config{
			ServerName: s.cfg.SMTPHost,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Close()

		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err := client.Mail(s.cfg.SMTPFrom); err != nil {
			return err
		}
		if err := client.Rcpt(to); err != nil {
			return err
		}

		writer, err := client.Data()
		if err != nil {
			return err
		}
		defer writer.Close()

		if _, err := writer.Write(message); err != nil {
			return err
		}

		return client.Quit()
	}

	// Plain or STARTTLS connection (port 587/25)
	return smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{to}, message)
}
