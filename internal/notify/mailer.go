package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

var (
	// ErrNotConfigured reports missing relay credentials.
	ErrNotConfigured = errors.New("email is not configured on the server; set GMAIL_USER and GMAIL_APP_PASSWORD")
	// ErrInvalidAddress reports a recipient the message cannot be addressed to.
	ErrInvalidAddress = errors.New("invalid email address")
	// ErrDelivery reports a relay that rejected the message or could not be reached.
	ErrDelivery = errors.New("failed to send email")
)

const (
	confirmationSubject = "Confirm your Fluid Task Board account"
	confirmationBody    = "Thanks for creating your account on Fluid Task Board.\n\n" +
		"Click the confirm button in the app to finish verification.\n\n" +
		"This message was sent from your local assignment app."
)

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// Configured reports whether the relay credentials are present.
func (c Config) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// Mailer sends confirmation messages through an implicit-TLS SMTP relay.
type Mailer struct {
	cfg    Config
	logger *slog.Logger
}

// NewMailer constructs a mailer. Missing credentials are reported on send.
func NewMailer(cfg Config, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// SendConfirmation delivers the account confirmation message to recipient.
func (m *Mailer) SendConfirmation(ctx context.Context, recipient string) error {
	if !m.cfg.Configured() {
		return ErrNotConfigured
	}

	msg, err := m.confirmation(recipient)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTimeout(m.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	m.logger.Info("confirmation email sent", slog.String("recipient", recipient))
	return nil
}

func (m *Mailer) confirmation(recipient string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Username); err != nil {
		return nil, fmt.Errorf("%w: sender %q: %v", ErrNotConfigured, m.cfg.Username, err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	msg.Subject(confirmationSubject)
	msg.SetBodyString(mail.TypeTextPlain, confirmationBody)
	return msg, nil
}
