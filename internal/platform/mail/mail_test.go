package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"fileshare_backend/internal/platform/config"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestVerificationLink(t *testing.T) {
	id := uuid.MustParse("9c0e3f0b-5d3e-4b2a-8a62-1b9e0f6d2c44")

	assert.Equal(t, "https://share.example.com/account/verify-email?id=9c0e3f0b-5d3e-4b2a-8a62-1b9e0f6d2c44",
		VerificationLink("https://share.example.com", id))
	assert.Equal(t, "https://share.example.com/account/verify-email?id=9c0e3f0b-5d3e-4b2a-8a62-1b9e0f6d2c44",
		VerificationLink("https://share.example.com/", id))
}

func TestSMTPMailer_SendVerification(t *testing.T) {
	fake := &fakeSender{}
	m := NewSMTP(config.Mail{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com", WebHost: "https://share.example.com"})
	m.sender = fake
	id := uuid.New()

	require.NoError(t, m.SendVerification(context.Background(), "a@x.com", id))
	require.Len(t, fake.sent, 1)

	msg := fake.sent[0]
	assert.Equal(t, []string{"a@x.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"Welcome to FileShare - Verify Your Email"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "verify-email?id="+id.String())
}

func TestSMTPMailer_Errors(t *testing.T) {
	fake := &fakeSender{err: errors.New("535 auth failed")}
	m := NewSMTP(config.Mail{From: "no-reply@example.com"})
	m.sender = fake

	err := m.SendVerification(context.Background(), "a@x.com", uuid.New())
	assert.ErrorContains(t, err, "535 auth failed")

	err = m.SendVerification(context.Background(), "No-Reply@example.com", uuid.New())
	assert.Error(t, err, "sending to the sender address is rejected")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendVerification(ctx, "a@x.com", uuid.New()), context.Canceled)
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, NewLogMailer("http://localhost:5173").SendVerification(context.Background(), "a@x.com", uuid.New()))
}
