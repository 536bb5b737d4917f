package adapter

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"quiz-master/internal/config"
	"quiz-master/internal/domain"
	"quiz-master/internal/logger"

	"go.uber.org/zap"
)

// SMTPNotifier implements domain.Notifier over plain SMTP. Bodies arrive
// pre-rendered; this adapter only assembles the multipart message.
type SMTPNotifier struct {
	addr   string
	sender string
}

// NewSMTPNotifier creates a new SMTPNotifier from config.
func NewSMTPNotifier(cfg config.SMTPConfig) domain.Notifier {
	return &SMTPNotifier{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		sender: cfg.Sender,
	}
}

const mimeBoundary = "=-quiz-master-alt"

// Send delivers a multipart/alternative message with plain-text and HTML parts.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.sender)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary)

	if textBody != "" {
		fmt.Fprintf(&msg, "--%s\r\n", mimeBoundary)
		msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		msg.WriteString(textBody)
		msg.WriteString("\r\n")
	}
	fmt.Fprintf(&msg, "--%s\r\n", mimeBoundary)
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", mimeBoundary)

	if err := smtp.SendMail(n.addr, nil, n.sender, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	logger.Get().Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
