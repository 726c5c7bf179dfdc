package receipt

import (
	"github.com/talkincode/gopos/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends receipt copies over SMTP. Built only when mail delivery
// is enabled in the configuration.
type Mailer struct {
	cfg config.MailConfig
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.SmtpHost, m.cfg.SmtpPort, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}
