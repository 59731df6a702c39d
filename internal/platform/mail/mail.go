// Package mail delivers verification emails.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"fileshare_backend/internal/platform/config"
)

const verificationSubject = "Welcome to FileShare - Verify Your Email"

// VerificationLink returns the web page that consumes verification id.
func VerificationLink(webHost string, id uuid.UUID) string {
	return fmt.Sprintf("%s/account/verify-email?id=%s", strings.TrimRight(webHost, "/"), id)
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through an SMTP relay with gomail.
type SMTPMailer struct {
	sender  sender
	from    string
	webHost string
}

// NewSMTP creates an SMTPMailer from cfg.
func NewSMTP(cfg config.Mail) *SMTPMailer {
	return &SMTPMailer{
		sender:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:    cfg.From,
		webHost: cfg.WebHost,
	}
}

// SendVerification mails the verification link to to.
func (m *SMTPMailer) SendVerification(ctx context.Context, to string, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.EqualFold(to, m.from) {
		return fmt.Errorf("invalid recipient %q", to)
	}

	msg := verificationMessage(m.from, to, VerificationLink(m.webHost, id))
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}

func verificationMessage(from, to, link string) *gomail.Message {
	msg := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", verificationSubject)
	msg.SetBody("text/plain", fmt.Sprintf(
		"Welcome to FileShare!\n\nPlease verify your email by clicking the link below:\n\n%s\n\nIf you didn't create this account, you can safely ignore this email.",
		link,
	))
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>Welcome to FileShare!</p><p>Please verify your email by clicking <a href=\"%s\">here</a>.</p><p>If you didn't create this account, you can safely ignore this email.</p>",
		link,
	))
	return msg
}

// LogMailer logs the verification link instead of sending it. Used when no
// SMTP host is configured.
type LogMailer struct {
	webHost string
}

func NewLogMailer(webHost string) *LogMailer {
	return &LogMailer{webHost: webHost}
}

func (m *LogMailer) SendVerification(_ context.Context, to string, id uuid.UUID) error {
	zap.L().Info("verification mail (smtp disabled)",
		zap.String("to", to),
		zap.String("link", VerificationLink(m.webHost, id)),
	)
	return nil
}
