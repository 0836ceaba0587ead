package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/config"
)

// Mailer sends notification email over SMTP.
type Mailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// New creates a Mailer from configuration.
func New(cfg *config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Enabled reports whether SMTP is configured. When it is not, callers
// skip sending rather than erroring out.
func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != "" && m.cfg.From != ""
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer: smtp not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.logger.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SeatAvailabilityBody renders the notification sent when a watched
// section opens up.
func SeatAvailabilityBody(userName, courseTitle, subject, courseNumber, crn, term string) (string, string) {
	mailSubject := fmt.Sprintf("Seat open: %s %s - %s", subject, courseNumber, courseTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"A seat just opened up in a class you are watching:\n\n"+
			"  %s %s - %s\n"+
			"  CRN: %s\n"+
			"  Term: %s\n\n"+
			"Register soon - seats go fast.\n\n"+
			"- PantherWatch",
		userName, subject, courseNumber, courseTitle, crn, term,
	)
	return mailSubject, body
}
