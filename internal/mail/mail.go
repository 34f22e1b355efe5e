package mail

import (
	"fmt"

	"github.com/tajoco/contacts/config"
	"github.com/tajoco/contacts/pkg/circuit"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Message is a confirmation email send request.
type Message struct {
	To       string
	Username string
	Token    string
	BaseURL  string
}

// Sender delivers a single message.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers confirmation mail over SMTP. Deliveries run behind a
// circuit breaker so a dead relay fails fast instead of stalling workers.
type SMTPSender struct {
	dialer  *gomail.Dialer
	from    string
	breaker *circuit.Breaker
}

func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		breaker: circuit.NewBreaker("smtp", circuit.DefaultConfig(), logger),
	}
}

func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", "Confirm your email")
	m.SetBody("text/html", confirmationBody(msg))

	return s.breaker.Execute(func() error {
		if err := s.dialer.DialAndSend(m); err != nil {
			return fmt.Errorf("smtp delivery failed: %w", err)
		}
		return nil
	})
}

func confirmationBody(msg Message) string {
	confirmURL := fmt.Sprintf("%s/api/auth/confirmed_email/%s", msg.BaseURL, msg.Token)
	pixelURL := fmt.Sprintf("%s/api/auth/%s", msg.BaseURL, msg.Username)
	return fmt.Sprintf(
		`<p>Hello %s,</p>`+
			`<p>Please confirm your email by following <a href="%s">this link</a>.</p>`+
			`<img src="%s" width="1" height="1" alt="">`,
		msg.Username, confirmURL, pixelURL,
	)
}
