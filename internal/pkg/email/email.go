package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService sends transactional notifications
type EmailService interface {
	SendCompanyReviewEmail(msg CompanyReviewMessage) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	// BaseURL is the web app URL used in links
	BaseURL string
}

// CompanyReviewMessage describes a verification decision sent to a company
type CompanyReviewMessage struct {
	ToEmail     string
	ToName      string
	CompanyName string
	CompanyID   int64
	Status      string
	Notes       string
}

// EmailServiceImpl implements EmailService over SMTP
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(to, message string) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

var companyReviewTemplate = template.Must(template.New("company_review").Parse(`<html>
<body>
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">{{.Headline}}</h2>
<p>Hello {{.ToName}},</p>
<p>The verification status of <strong>{{.CompanyName}}</strong> is now <strong>{{.Status}}</strong>.</p>
{{if .Notes}}<p>Reviewer notes:</p><blockquote>{{.Notes}}</blockquote>{{end}}
<p><a href="{{.Link}}">Open your company dashboard</a></p>
<p>Best regards,<br>The EventHub Team</p>
</div>
</body>
</html>`))

func reviewHeadline(status string) string {
	switch status {
	case "VERIFIED":
		return "Your company has been verified"
	case "REJECTED":
		return "Your company verification was rejected"
	case "SUSPENDED":
		return "Your company has been suspended"
	default:
		return "Your company verification status changed"
	}
}

// SendCompanyReviewEmail notifies a company about a verification decision
func (s *EmailServiceImpl) SendCompanyReviewEmail(msg CompanyReviewMessage) error {
	if s.config.Host == "" || s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", msg.ToEmail).
			Str("company", msg.CompanyName).
			Str("status", msg.Status).
			Msg("SMTP not configured - company review email not sent")
		return nil
	}

	var body bytes.Buffer
	err := companyReviewTemplate.Execute(&body, struct {
		CompanyReviewMessage
		Headline string
		Link     string
	}{
		CompanyReviewMessage: msg,
		Headline:             reviewHeadline(msg.Status),
		Link:                 fmt.Sprintf("%s/company/dashboard", strings.TrimRight(s.config.BaseURL, "/")),
	})
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	subject := fmt.Sprintf("EventHub: %s verification %s", msg.CompanyName, strings.ToLower(msg.Status))
	return s.send(msg.ToEmail, s.buildMessage(msg.ToEmail, subject, body.String()))
}

func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", toEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// sendSMTP delivers over implicit TLS when UseTLS is set, otherwise via SendMail (STARTTLS when offered)
func (s *EmailServiceImpl) sendSMTP(toEmail, message string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
