package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"fleetops/backend/internal/usecase/mailverify"
)

// SMTPMailer delivers verification messages over plain SMTP. Delivery is
// one-shot: a failure surfaces to the caller and is not retried here.
type SMTPMailer struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer constructs a mailer for the given server address and sender.
// Username may be empty for unauthenticated relays.
func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr:     addr,
		from:     from,
		auth:     auth,
		sendFunc: smtp.SendMail,
	}
}

// Ensure SMTPMailer implements the mailverify port.
var _ mailverify.Mailer = (*SMTPMailer)(nil)

// SendVerificationEmail dispatches the verification link to the address.
func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, verificationLink string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Verify your email address\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("Follow the link below to confirm your email address. The link expires in 24 hours.\r\n\r\n")
	b.WriteString(verificationLink)
	b.WriteString("\r\n\r\nIf you did not request this, ignore this message.\r\n")

	if err := m.sendFunc(m.addr, m.auth, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}
