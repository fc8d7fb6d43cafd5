package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendVerificationEmail(t *testing.T) {
	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
	)

	m := NewSMTPMailer("smtp.example.com:587", "noreply@example.com", "", "")
	m.sendFunc = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	err := m.SendVerificationEmail(context.Background(), "user@example.com", "https://app.example.com/verify-email?token=abc")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"user@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: user@example.com\r\n")
	assert.Contains(t, gotMsg, "https://app.example.com/verify-email?token=abc")
	assert.True(t, strings.Contains(gotMsg, "Subject: Verify your email address"))
}

func TestSendVerificationEmailFailure(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com:587", "noreply@example.com", "", "")
	m.sendFunc = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	err := m.SendVerificationEmail(context.Background(), "user@example.com", "https://example.com/verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending verification email")
}

func TestSendVerificationEmailCancelledContext(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com:587", "noreply@example.com", "", "")
	called := false
	m.sendFunc = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendVerificationEmail(ctx, "user@example.com", "https://example.com/verify")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
