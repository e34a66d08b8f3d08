package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
)

// Mailer delivers queued transactional emails over SMTP.
type Mailer struct {
	host   string
	port   int
	from   string
	logger *slog.Logger

	// send is swappable in tests.
	send func(addr, from string, to []string, msg []byte) error
}

// NewMailer constructs a Mailer.
func NewMailer(host string, port int, from string, logger *slog.Logger) *Mailer {
	return &Mailer{
		host:   host,
		port:   port,
		from:   from,
		logger: logger,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// HandleSendEmail processes TaskTypeSendEmail tasks.
func (m *Mailer) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("jobs: decode mail payload: %w", asynq.SkipRetry)
	}
	if payload.To == "" {
		return fmt.Errorf("jobs: empty recipient: %w", asynq.SkipRetry)
	}

	addr := m.host + ":" + strconv.Itoa(m.port)
	msg := buildMessage(m.from, payload)
	if err := m.send(addr, m.from, []string{payload.To}, msg); err != nil {
		m.logger.Warn("smtp send failed", slog.String("to", payload.To), slog.Any("error", err))
		return err
	}
	m.logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	return nil
}

func buildMessage(from string, payload SendEmailPayload) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + payload.To + "\r\n")
	b.WriteString("Subject: " + payload.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(payload.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
