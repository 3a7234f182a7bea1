package service

import (
	"context"
	"fmt"
	"time"
)

type MailMessage struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// OTPMessage builds the registration code email.
func OTPMessage(to, otp string, validFor time.Duration) MailMessage {
	return MailMessage{
		To:      to,
		Subject: "Your verification code",
		HTMLBody: fmt.Sprintf(
			`<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>`,
			otp, int(validFor.Minutes()),
		),
	}
}
