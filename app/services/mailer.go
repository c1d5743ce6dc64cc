package services

import (
	"context"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type MailSender interface {
	SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error
}

type Mailer struct {
	config Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.config.From); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", m.config.From, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(m.config.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.Username),
			mail.WithPassword(m.config.Password),
		)
	}

	client, err := mail.NewClient(m.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Printf("Mailer: failed to send HTML email to %s: %v", to, err)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}
	return nil
}
