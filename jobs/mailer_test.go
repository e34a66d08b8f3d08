package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer() (*Mailer, *[][]byte) {
	var sent [][]byte
	m := NewMailer("127.0.0.1", 1025, "no-reply@teamloop.local", slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.send = func(addr, from string, to []string, msg []byte) error {
		sent = append(sent, msg)
		return nil
	}
	return m, &sent
}

func TestHandleSendEmailDeliversMessage(t *testing.T) {
	mailer, sent := newTestMailer()

	payload, err := json.Marshal(SendEmailPayload{
		To:      "alice@test.local",
		Subject: "Verify your email",
		Body:    "http://localhost:8080/verify?code=abc",
	})
	require.NoError(t, err)

	err = mailer.HandleSendEmail(context.Background(), asynq.NewTask(TaskTypeSendEmail, payload))
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	msg := string((*sent)[0])
	assert.Contains(t, msg, "To: alice@test.local")
	assert.Contains(t, msg, "Subject: Verify your email")
	assert.Contains(t, msg, "/verify?code=abc")
}

func TestHandleSendEmailSkipsBadPayload(t *testing.T) {
	mailer, sent := newTestMailer()

	err := mailer.HandleSendEmail(context.Background(), asynq.NewTask(TaskTypeSendEmail, []byte("{broken")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "malformed payloads must not retry")
	assert.Empty(t, *sent)
}

func TestHandleSendEmailPropagatesSMTPFailure(t *testing.T) {
	mailer, _ := newTestMailer()
	mailer.send = func(addr, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	payload, err := json.Marshal(SendEmailPayload{To: "alice@test.local", Subject: "s", Body: "b"})
	require.NoError(t, err)

	err = mailer.HandleSendEmail(context.Background(), asynq.NewTask(TaskTypeSendEmail, payload))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "transient SMTP failures should retry")
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}
