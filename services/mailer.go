package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"quantent_web_api/config"
)

// ErrEmailNotConfigured means the deployment is missing transport settings.
// It is an operator problem, never a user input problem.
var ErrEmailNotConfigured = errors.New("email service is not configured")

// implicitTLSPort is the SMTP submission port that expects TLS from the first byte.
const implicitTLSPort = 465

// MailSettings is the resolved, complete transport configuration for one send.
type MailSettings struct {
	Provider     string
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	To           string
	ResendAPIKey string
	TestMode     bool
}

// UsesImplicitTLS reports whether the SMTP connection starts with TLS.
// Other ports use plain SMTP upgraded with STARTTLS when the server offers it.
func (s MailSettings) UsesImplicitTLS() bool {
	return s.Port == implicitTLSPort
}

// ResolveMailSettings checks that every value the selected provider needs is present.
func ResolveMailSettings(cfg *config.Config) (MailSettings, error) {
	from := strings.TrimSpace(cfg.ContactFrom)
	if from == "" {
		from = strings.TrimSpace(cfg.SMTPUser)
	}

	s := MailSettings{
		Provider:     cfg.EmailProvider,
		Host:         strings.TrimSpace(cfg.SMTPHost),
		Username:     strings.TrimSpace(cfg.SMTPUser),
		Password:     cfg.SMTPPass,
		From:         from,
		To:           strings.TrimSpace(cfg.ContactTo),
		ResendAPIKey: strings.TrimSpace(cfg.ResendAPIKey),
		TestMode:     cfg.EmailTestMode,
	}
	if s.Provider == "" {
		s.Provider = config.EmailProviderSMTP
	}

	switch s.Provider {
	case config.EmailProviderSMTP:
		if s.Host == "" || strings.TrimSpace(cfg.SMTPPort) == "" || s.Username == "" || s.Password == "" || s.To == "" || s.From == "" {
			return MailSettings{}, ErrEmailNotConfigured
		}
		port, err := strconv.Atoi(strings.TrimSpace(cfg.SMTPPort))
		if err != nil || port <= 0 {
			return MailSettings{}, fmt.Errorf("%w: invalid SMTP_PORT %q", ErrEmailNotConfigured, cfg.SMTPPort)
		}
		s.Port = port
	case config.EmailProviderResend:
		if s.ResendAPIKey == "" || s.To == "" || s.From == "" {
			return MailSettings{}, ErrEmailNotConfigured
		}
	default:
		return MailSettings{}, fmt.Errorf("%w: unknown provider %q", ErrEmailNotConfigured, s.Provider)
	}

	return s, nil
}

// Mailer delivers a composed email.
type Mailer interface {
	Send(ctx context.Context, email *Email) error
}

// MailerFactory builds a Mailer for resolved settings; handlers take one so tests can stub delivery.
type MailerFactory func(settings MailSettings) Mailer

// NewMailer picks the transport for the settings. Test mode always logs instead of sending.
func NewMailer(settings MailSettings) Mailer {
	if settings.TestMode {
		return ConsoleMailer{}
	}
	if settings.Provider == config.EmailProviderResend {
		return NewResendMailer(settings.ResendAPIKey)
	}
	return NewSMTPMailer(settings)
}

// SMTPMailer opens one SMTP connection per send.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(settings MailSettings) *SMTPMailer {
	d := gomail.NewDialer(settings.Host, settings.Port, settings.Username, settings.Password)
	d.SSL = settings.UsesImplicitTLS()
	return &SMTPMailer{dialer: d}
}

func (m *SMTPMailer) Send(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", email.From)
	msg.SetHeader("To", email.To...)
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.TextBody)
	if email.HTMLBody != "" {
		msg.AddAlternative("text/html", email.HTMLBody)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email via SMTP %s:%d: %w", m.dialer.Host, m.dialer.Port, err)
	}
	return nil
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
}

func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	logrus.WithField("resend_id", sent.Id).Debug("Email accepted by Resend")
	return nil
}

// ConsoleMailer logs emails instead of delivering them.
type ConsoleMailer struct{}

func (ConsoleMailer) Send(_ context.Context, email *Email) error {
	logEmailToConsole(email)
	return nil
}
