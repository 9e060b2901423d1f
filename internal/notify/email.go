// Package notify emails rendered reports.
package notify

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"

	"propertytax/internal/export"
	"propertytax/internal/report"
)

// EmailConfig holds SMTP configuration for sending emails.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmails   []string
	Enabled    bool
}

// Mailer delivers reports via SMTP.
type Mailer struct {
	cfg  EmailConfig
	log  *zap.Logger
	send func(m *gomail.Message) error
}

func NewMailer(cfg EmailConfig, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	ml := &Mailer{cfg: cfg, log: log}
	ml.send = func(m *gomail.Message) error {
		dialer := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		dialer.Timeout = 10 * time.Second
		return dialer.DialAndSend(m)
	}
	return ml
}

// Message builds the email: plain text body, HTML alternative and one
// attachment per packet.
func (ml *Mailer) Message(doc *report.Document, attachments ...export.Packet) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", ml.cfg.FromEmail)
	m.SetHeader("To", ml.cfg.ToEmails...)
	m.SetHeader("Subject", doc.Subject)

	if doc.HTML != "" && doc.Text != "" {
		m.SetBody("text/plain", doc.Text)
		m.AddAlternative("text/html", doc.HTML)
	} else if doc.HTML != "" {
		m.SetBody("text/html", doc.HTML)
	} else {
		m.SetBody("text/plain", doc.Text)
	}

	for _, p := range attachments {
		m.AttachReader(p.Name, bytes.NewReader(p.Data), gomail.SetHeader(map[string][]string{
			"Content-Type": {p.ContentType},
		}))
	}
	return m
}

// Send delivers the report. It is a no-op when email is disabled.
func (ml *Mailer) Send(doc *report.Document, attachments ...export.Packet) error {
	if !ml.cfg.Enabled {
		return nil
	}
	if len(ml.cfg.ToEmails) == 0 {
		return fmt.Errorf("no email recipients configured")
	}

	if err := ml.send(ml.Message(doc, attachments...)); err != nil {
		ml.log.Error("failed to send email",
			zap.String("to", strings.Join(ml.cfg.ToEmails, ",")),
			zap.String("subject", doc.Subject),
			zap.Error(err))
		return err
	}

	ml.log.Info("email sent", zap.String("subject", doc.Subject), zap.Int("attachments", len(attachments)))
	return nil
}
