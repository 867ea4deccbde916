package email

import (
	"fmt"

	"github.com/homenest/property-service/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends notification emails over SMTP. Delivery is best-effort; the
// notification document is already persisted before Send is called.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
	logger   *logger.Logger
}

// NewMailer builds an SMTP mailer. Returns nil when no host is configured so
// callers can treat email delivery as disabled.
func NewMailer(host string, port int, from, password string, log *logger.Logger) *Mailer {
	if host == "" || from == "" {
		log.Info("SMTP not configured, notification emails disabled")
		return nil
	}
	return &Mailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		logger:   log.Named("Mailer"),
	}
}

// SendNotification emails the notification message to the recipient.
func (m *Mailer) SendNotification(to, message string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "You have a new notification")
	msg.SetBody("text/plain", message)

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	if err := d.DialAndSend(msg); err != nil {
		m.logger.Warn("Failed to send notification email", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
